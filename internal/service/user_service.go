package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/ledger"
	api "github.com/mmynk/splitledger/pkg/ledgerapi"
)

// UserService implements the Connect UserService.
type UserService struct {
	ledger *ledger.Ledger
}

// NewUserService creates a new UserService.
func NewUserService(l *ledger.Ledger) *UserService {
	return &UserService{ledger: l}
}

var _ api.UserServiceHandler = (*UserService)(nil)

// CreateUser registers a user. It is called by the registration collaborator.
func (s *UserService) CreateUser(ctx context.Context, req *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error) {
	user, err := s.ledger.CreateUser(ctx, req.Msg.Username, req.Msg.Email)
	if err != nil {
		slog.Error("CreateUser failed", "username", req.Msg.Username, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CreateUserResponse{User: toAPIUser(user)}), nil
}

// GetUser returns a user by ID.
func (s *UserService) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	if _, err := callerID(ctx); err != nil {
		return nil, err
	}
	if req.Msg.UserID == "" {
		return nil, invalidArgument("user_id required")
	}

	user, err := s.ledger.GetUser(ctx, req.Msg.UserID)
	if err != nil {
		slog.Error("GetUser failed", "user_id", req.Msg.UserID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetUserResponse{User: toAPIUser(user)}), nil
}

// GetCurrentUser returns the caller's profile.
func (s *UserService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.ledger.GetUser(ctx, userID)
	if err != nil {
		slog.Error("GetCurrentUser failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}

// SearchUser finds a user by exact username.
func (s *UserService) SearchUser(ctx context.Context, req *connect.Request[api.SearchUserRequest]) (*connect.Response[api.SearchUserResponse], error) {
	if _, err := callerID(ctx); err != nil {
		return nil, err
	}

	user, err := s.ledger.FindUserByUsername(ctx, req.Msg.Username)
	if err != nil {
		slog.Warn("SearchUser failed", "username", req.Msg.Username, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.SearchUserResponse{User: toAPIUser(user)}), nil
}

// ListUsers lists every registered user.
func (s *UserService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	if _, err := callerID(ctx); err != nil {
		return nil, err
	}

	users, err := s.ledger.ListUsers(ctx)
	if err != nil {
		slog.Error("ListUsers failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.User, len(users))
	for i, u := range users {
		out[i] = toAPIUser(u)
	}
	return connect.NewResponse(&api.ListUsersResponse{Users: out}), nil
}

// UpdateUser edits the caller's own profile.
func (s *UserService) UpdateUser(ctx context.Context, req *connect.Request[api.UpdateUserRequest]) (*connect.Response[api.UpdateUserResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	target := req.Msg.UserID
	if target == "" {
		target = userID
	}

	user, err := s.ledger.UpdateUser(ctx, target, userID, ledger.UserUpdate{
		Username: req.Msg.Username,
		Email:    req.Msg.Email,
	})
	if err != nil {
		slog.Error("UpdateUser failed", "user_id", target, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UpdateUserResponse{User: toAPIUser(user)}), nil
}

// DeleteUser deletes the caller's own account.
func (s *UserService) DeleteUser(ctx context.Context, req *connect.Request[api.DeleteUserRequest]) (*connect.Response[api.DeleteUserResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	target := req.Msg.UserID
	if target == "" {
		target = userID
	}

	if err := s.ledger.DeleteUser(ctx, target, userID); err != nil {
		slog.Error("DeleteUser failed", "user_id", target, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteUserResponse{}), nil
}

// ListUserSplits lists the splits assigned to a user, the caller by default.
func (s *UserService) ListUserSplits(ctx context.Context, req *connect.Request[api.ListUserSplitsRequest]) (*connect.Response[api.ListUserSplitsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.UserID != "" {
		userID = req.Msg.UserID
	}

	splits, err := s.ledger.ListSplitsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListUserSplits failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListUserSplitsResponse{Splits: toAPISplits(splits)}), nil
}
