package ledgerapi

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// UserServiceName is the fully-qualified name of the UserService.
const UserServiceName = "splitledger.v1.UserService"

// Procedure paths of the UserService.
const (
	UserServiceCreateUserProcedure     = "/splitledger.v1.UserService/CreateUser"
	UserServiceGetUserProcedure        = "/splitledger.v1.UserService/GetUser"
	UserServiceGetCurrentUserProcedure = "/splitledger.v1.UserService/GetCurrentUser"
	UserServiceSearchUserProcedure     = "/splitledger.v1.UserService/SearchUser"
	UserServiceListUsersProcedure      = "/splitledger.v1.UserService/ListUsers"
	UserServiceUpdateUserProcedure     = "/splitledger.v1.UserService/UpdateUser"
	UserServiceDeleteUserProcedure     = "/splitledger.v1.UserService/DeleteUser"
	UserServiceListUserSplitsProcedure = "/splitledger.v1.UserService/ListUserSplits"
)

// UserServiceHandler is implemented by the user registry server.
type UserServiceHandler interface {
	CreateUser(context.Context, *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error)
	GetUser(context.Context, *connect.Request[GetUserRequest]) (*connect.Response[GetUserResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
	SearchUser(context.Context, *connect.Request[SearchUserRequest]) (*connect.Response[SearchUserResponse], error)
	ListUsers(context.Context, *connect.Request[ListUsersRequest]) (*connect.Response[ListUsersResponse], error)
	UpdateUser(context.Context, *connect.Request[UpdateUserRequest]) (*connect.Response[UpdateUserResponse], error)
	DeleteUser(context.Context, *connect.Request[DeleteUserRequest]) (*connect.Response[DeleteUserResponse], error)
	ListUserSplits(context.Context, *connect.Request[ListUserSplitsRequest]) (*connect.Response[ListUserSplitsResponse], error)
}

// NewUserServiceHandler builds an HTTP handler for svc. The returned path is
// the prefix to mount it on.
func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)
	mux := http.NewServeMux()
	mux.Handle(UserServiceCreateUserProcedure, connect.NewUnaryHandler(UserServiceCreateUserProcedure, svc.CreateUser, opts...))
	mux.Handle(UserServiceGetUserProcedure, connect.NewUnaryHandler(UserServiceGetUserProcedure, svc.GetUser, opts...))
	mux.Handle(UserServiceGetCurrentUserProcedure, connect.NewUnaryHandler(UserServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...))
	mux.Handle(UserServiceSearchUserProcedure, connect.NewUnaryHandler(UserServiceSearchUserProcedure, svc.SearchUser, opts...))
	mux.Handle(UserServiceListUsersProcedure, connect.NewUnaryHandler(UserServiceListUsersProcedure, svc.ListUsers, opts...))
	mux.Handle(UserServiceUpdateUserProcedure, connect.NewUnaryHandler(UserServiceUpdateUserProcedure, svc.UpdateUser, opts...))
	mux.Handle(UserServiceDeleteUserProcedure, connect.NewUnaryHandler(UserServiceDeleteUserProcedure, svc.DeleteUser, opts...))
	mux.Handle(UserServiceListUserSplitsProcedure, connect.NewUnaryHandler(UserServiceListUserSplitsProcedure, svc.ListUserSplits, opts...))
	return "/" + UserServiceName + "/", mux
}

// UserServiceClient is a typed client for the UserService.
type UserServiceClient interface {
	CreateUser(context.Context, *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error)
	GetUser(context.Context, *connect.Request[GetUserRequest]) (*connect.Response[GetUserResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
	SearchUser(context.Context, *connect.Request[SearchUserRequest]) (*connect.Response[SearchUserResponse], error)
	ListUsers(context.Context, *connect.Request[ListUsersRequest]) (*connect.Response[ListUsersResponse], error)
	UpdateUser(context.Context, *connect.Request[UpdateUserRequest]) (*connect.Response[UpdateUserResponse], error)
	DeleteUser(context.Context, *connect.Request[DeleteUserRequest]) (*connect.Response[DeleteUserResponse], error)
	ListUserSplits(context.Context, *connect.Request[ListUserSplitsRequest]) (*connect.Response[ListUserSplitsResponse], error)
}

type userServiceClient struct {
	createUser     *connect.Client[CreateUserRequest, CreateUserResponse]
	getUser        *connect.Client[GetUserRequest, GetUserResponse]
	getCurrentUser *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]
	searchUser     *connect.Client[SearchUserRequest, SearchUserResponse]
	listUsers      *connect.Client[ListUsersRequest, ListUsersResponse]
	updateUser     *connect.Client[UpdateUserRequest, UpdateUserResponse]
	deleteUser     *connect.Client[DeleteUserRequest, DeleteUserResponse]
	listUserSplits *connect.Client[ListUserSplitsRequest, ListUserSplitsResponse]
}

// NewUserServiceClient returns a client for the service at baseURL, for
// example http://localhost:8080.
func NewUserServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) UserServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec())}, opts...)
	return &userServiceClient{
		createUser:     connect.NewClient[CreateUserRequest, CreateUserResponse](httpClient, baseURL+UserServiceCreateUserProcedure, opts...),
		getUser:        connect.NewClient[GetUserRequest, GetUserResponse](httpClient, baseURL+UserServiceGetUserProcedure, opts...),
		getCurrentUser: connect.NewClient[GetCurrentUserRequest, GetCurrentUserResponse](httpClient, baseURL+UserServiceGetCurrentUserProcedure, opts...),
		searchUser:     connect.NewClient[SearchUserRequest, SearchUserResponse](httpClient, baseURL+UserServiceSearchUserProcedure, opts...),
		listUsers:      connect.NewClient[ListUsersRequest, ListUsersResponse](httpClient, baseURL+UserServiceListUsersProcedure, opts...),
		updateUser:     connect.NewClient[UpdateUserRequest, UpdateUserResponse](httpClient, baseURL+UserServiceUpdateUserProcedure, opts...),
		deleteUser:     connect.NewClient[DeleteUserRequest, DeleteUserResponse](httpClient, baseURL+UserServiceDeleteUserProcedure, opts...),
		listUserSplits: connect.NewClient[ListUserSplitsRequest, ListUserSplitsResponse](httpClient, baseURL+UserServiceListUserSplitsProcedure, opts...),
	}
}

// CreateUser registers a user.
func (c *userServiceClient) CreateUser(ctx context.Context, req *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error) {
	return c.createUser.CallUnary(ctx, req)
}

// GetUser returns a user by ID.
func (c *userServiceClient) GetUser(ctx context.Context, req *connect.Request[GetUserRequest]) (*connect.Response[GetUserResponse], error) {
	return c.getUser.CallUnary(ctx, req)
}

// GetCurrentUser returns the caller.
func (c *userServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

// SearchUser finds a user by exact username.
func (c *userServiceClient) SearchUser(ctx context.Context, req *connect.Request[SearchUserRequest]) (*connect.Response[SearchUserResponse], error) {
	return c.searchUser.CallUnary(ctx, req)
}

// ListUsers lists all users.
func (c *userServiceClient) ListUsers(ctx context.Context, req *connect.Request[ListUsersRequest]) (*connect.Response[ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

// UpdateUser edits the caller's profile.
func (c *userServiceClient) UpdateUser(ctx context.Context, req *connect.Request[UpdateUserRequest]) (*connect.Response[UpdateUserResponse], error) {
	return c.updateUser.CallUnary(ctx, req)
}

// DeleteUser deletes the caller's account.
func (c *userServiceClient) DeleteUser(ctx context.Context, req *connect.Request[DeleteUserRequest]) (*connect.Response[DeleteUserResponse], error) {
	return c.deleteUser.CallUnary(ctx, req)
}

// ListUserSplits lists the splits assigned to a user.
func (c *userServiceClient) ListUserSplits(ctx context.Context, req *connect.Request[ListUserSplitsRequest]) (*connect.Response[ListUserSplitsResponse], error) {
	return c.listUserSplits.CallUnary(ctx, req)
}
