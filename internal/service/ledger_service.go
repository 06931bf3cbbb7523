package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	api "github.com/mmynk/splitledger/pkg/ledgerapi"
)

// LedgerService implements the Connect LedgerService on top of a ledger.Ledger.
type LedgerService struct {
	ledger *ledger.Ledger
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(l *ledger.Ledger) *LedgerService {
	return &LedgerService{ledger: l}
}

var _ api.LedgerServiceHandler = (*LedgerService)(nil)

func parseAmount(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, invalidArgument("%s is required", field)
	}
	d, err := money.Parse(value)
	if err != nil {
		return decimal.Zero, invalidArgument("%s: %v", field, err)
	}
	return d, nil
}

// CreateEvent creates an event with the caller as creator.
func (s *LedgerService) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	total, err := parseAmount("total", req.Msg.Total)
	if err != nil {
		return nil, err
	}

	event, err := s.ledger.CreateEvent(ctx, ledger.CreateEventParams{
		Title:        req.Msg.Title,
		Total:        total,
		CreatorID:    userID,
		Participants: req.Msg.ParticipantIDs,
	})
	if err != nil {
		slog.Error("CreateEvent failed", "creator_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.CreateEventResponse{Event: toAPIEvent(event)}), nil
}

// GetEvent returns an event with its splits.
func (s *LedgerService) GetEvent(ctx context.Context, req *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	if _, err := callerID(ctx); err != nil {
		return nil, err
	}
	if req.Msg.EventID == "" {
		return nil, invalidArgument("event_id required")
	}

	event, err := s.ledger.GetEvent(ctx, req.Msg.EventID)
	if err != nil {
		slog.Error("GetEvent failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetEventResponse{Event: toAPIEvent(event)}), nil
}

// ListEvents lists all events, or the events of one user.
func (s *LedgerService) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	if _, err := callerID(ctx); err != nil {
		return nil, err
	}

	list := s.ledger.ListEvents
	if req.Msg.UserID != "" {
		list = func(ctx context.Context) ([]*models.Event, error) {
			return s.ledger.ListEventsForUser(ctx, req.Msg.UserID)
		}
	}
	events, err := list(ctx)
	if err != nil {
		slog.Error("ListEvents failed", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ListEventsResponse{Events: toAPIEvents(events)}), nil
}

// CancelEvent cancels an event the caller created.
func (s *LedgerService) CancelEvent(ctx context.Context, req *connect.Request[api.CancelEventRequest]) (*connect.Response[api.CancelEventResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.EventID == "" {
		return nil, invalidArgument("event_id required")
	}

	event, err := s.ledger.CancelEvent(ctx, req.Msg.EventID, userID)
	if err != nil {
		slog.Error("CancelEvent failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.CancelEventResponse{Event: toAPIEvent(event)}), nil
}

// DeleteEvent deletes an event the caller created.
func (s *LedgerService) DeleteEvent(ctx context.Context, req *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.EventID == "" {
		return nil, invalidArgument("event_id required")
	}

	if err := s.ledger.DeleteEvent(ctx, req.Msg.EventID, userID); err != nil {
		slog.Error("DeleteEvent failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.DeleteEventResponse{}), nil
}

// AddParticipant adds a participant to an event the caller created.
func (s *LedgerService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.EventID == "" || req.Msg.UserID == "" {
		return nil, invalidArgument("event_id and user_id required")
	}

	opts := ledger.ParticipantOptions{Included: req.Msg.Included}
	if req.Msg.DebAmount != nil {
		amount, err := parseAmount("deb_amount", *req.Msg.DebAmount)
		if err != nil {
			return nil, err
		}
		opts.DebAmount = &amount
	}

	split, err := s.ledger.AddParticipant(ctx, req.Msg.EventID, req.Msg.UserID, userID, opts)
	if err != nil {
		slog.Error("AddParticipant failed", "event_id", req.Msg.EventID, "user_id", req.Msg.UserID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.AddParticipantResponse{Split: toAPISplit(split)}), nil
}

// SetIncluded includes or excludes a split from its debtor's totals.
func (s *LedgerService) SetIncluded(ctx context.Context, req *connect.Request[api.SetIncludedRequest]) (*connect.Response[api.SetIncludedResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.SplitID == "" {
		return nil, invalidArgument("split_id required")
	}

	split, err := s.ledger.SetIncluded(ctx, req.Msg.SplitID, req.Msg.Included, userID)
	if err != nil {
		slog.Error("SetIncluded failed", "split_id", req.Msg.SplitID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.SetIncludedResponse{Split: toAPISplit(split)}), nil
}

// Pay pays towards a split on the caller's behalf.
func (s *LedgerService) Pay(ctx context.Context, req *connect.Request[api.PayRequest]) (*connect.Response[api.PayResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.SplitID == "" {
		return nil, invalidArgument("split_id required")
	}

	payer := req.Msg.PayerUserID
	if payer == "" {
		payer = userID
	}
	if payer != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you can only pay as yourself"))
	}
	amount, err := parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, err
	}

	txn, split, err := s.ledger.Pay(ctx, ledger.PayParams{
		SplitID:        req.Msg.SplitID,
		PayerID:        payer,
		Amount:         amount,
		Note:           req.Msg.Note,
		IdempotencyKey: req.Msg.IdempotencyKey,
	})
	if err != nil {
		slog.Error("Pay failed", "split_id", req.Msg.SplitID, "payer_id", payer, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.PayResponse{
		Transaction: toAPITransaction(txn),
		Split:       toAPISplit(split),
	}), nil
}

// ListTransactions lists the payment log, optionally for one event.
func (s *LedgerService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	if _, err := callerID(ctx); err != nil {
		return nil, err
	}

	list := s.ledger.ListTransactions
	if req.Msg.EventID != "" {
		list = func(ctx context.Context) ([]*models.Transaction, error) {
			return s.ledger.ListEventTransactions(ctx, req.Msg.EventID)
		}
	}
	txns, err := list(ctx)
	if err != nil {
		slog.Error("ListTransactions failed", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: toAPITransactions(txns)}), nil
}

// ListUserTransactions lists the payments a user made or received.
func (s *LedgerService) ListUserTransactions(ctx context.Context, req *connect.Request[api.ListUserTransactionsRequest]) (*connect.Response[api.ListUserTransactionsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.UserID != "" {
		userID = req.Msg.UserID
	}

	txns, err := s.ledger.ListUserTransactions(ctx, userID)
	if err != nil {
		slog.Error("ListUserTransactions failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ListUserTransactionsResponse{Transactions: toAPITransactions(txns)}), nil
}

// GetUserBalances returns a user's balances, the caller's by default.
func (s *LedgerService) GetUserBalances(ctx context.Context, req *connect.Request[api.GetUserBalancesRequest]) (*connect.Response[api.GetUserBalancesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.UserID != "" {
		userID = req.Msg.UserID
	}

	balances, err := s.ledger.Balances(ctx, userID)
	if err != nil {
		slog.Error("GetUserBalances failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetUserBalancesResponse{Balances: toAPIBalances(balances)}), nil
}
