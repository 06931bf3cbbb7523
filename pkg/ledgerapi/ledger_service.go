package ledgerapi

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "splitledger.v1.LedgerService"

// Procedure paths of the LedgerService.
const (
	LedgerServiceCreateEventProcedure          = "/splitledger.v1.LedgerService/CreateEvent"
	LedgerServiceGetEventProcedure             = "/splitledger.v1.LedgerService/GetEvent"
	LedgerServiceListEventsProcedure           = "/splitledger.v1.LedgerService/ListEvents"
	LedgerServiceCancelEventProcedure          = "/splitledger.v1.LedgerService/CancelEvent"
	LedgerServiceDeleteEventProcedure          = "/splitledger.v1.LedgerService/DeleteEvent"
	LedgerServiceAddParticipantProcedure       = "/splitledger.v1.LedgerService/AddParticipant"
	LedgerServiceSetIncludedProcedure          = "/splitledger.v1.LedgerService/SetIncluded"
	LedgerServicePayProcedure                  = "/splitledger.v1.LedgerService/Pay"
	LedgerServiceListTransactionsProcedure     = "/splitledger.v1.LedgerService/ListTransactions"
	LedgerServiceListUserTransactionsProcedure = "/splitledger.v1.LedgerService/ListUserTransactions"
	LedgerServiceGetUserBalancesProcedure      = "/splitledger.v1.LedgerService/GetUserBalances"
)

// LedgerServiceHandler is implemented by the ledger server.
type LedgerServiceHandler interface {
	CreateEvent(context.Context, *connect.Request[CreateEventRequest]) (*connect.Response[CreateEventResponse], error)
	GetEvent(context.Context, *connect.Request[GetEventRequest]) (*connect.Response[GetEventResponse], error)
	ListEvents(context.Context, *connect.Request[ListEventsRequest]) (*connect.Response[ListEventsResponse], error)
	CancelEvent(context.Context, *connect.Request[CancelEventRequest]) (*connect.Response[CancelEventResponse], error)
	DeleteEvent(context.Context, *connect.Request[DeleteEventRequest]) (*connect.Response[DeleteEventResponse], error)
	AddParticipant(context.Context, *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error)
	SetIncluded(context.Context, *connect.Request[SetIncludedRequest]) (*connect.Response[SetIncludedResponse], error)
	Pay(context.Context, *connect.Request[PayRequest]) (*connect.Response[PayResponse], error)
	ListTransactions(context.Context, *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error)
	ListUserTransactions(context.Context, *connect.Request[ListUserTransactionsRequest]) (*connect.Response[ListUserTransactionsResponse], error)
	GetUserBalances(context.Context, *connect.Request[GetUserBalancesRequest]) (*connect.Response[GetUserBalancesResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for svc. The returned path is
// the prefix to mount it on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)
	mux := http.NewServeMux()
	mux.Handle(LedgerServiceCreateEventProcedure, connect.NewUnaryHandler(LedgerServiceCreateEventProcedure, svc.CreateEvent, opts...))
	mux.Handle(LedgerServiceGetEventProcedure, connect.NewUnaryHandler(LedgerServiceGetEventProcedure, svc.GetEvent, opts...))
	mux.Handle(LedgerServiceListEventsProcedure, connect.NewUnaryHandler(LedgerServiceListEventsProcedure, svc.ListEvents, opts...))
	mux.Handle(LedgerServiceCancelEventProcedure, connect.NewUnaryHandler(LedgerServiceCancelEventProcedure, svc.CancelEvent, opts...))
	mux.Handle(LedgerServiceDeleteEventProcedure, connect.NewUnaryHandler(LedgerServiceDeleteEventProcedure, svc.DeleteEvent, opts...))
	mux.Handle(LedgerServiceAddParticipantProcedure, connect.NewUnaryHandler(LedgerServiceAddParticipantProcedure, svc.AddParticipant, opts...))
	mux.Handle(LedgerServiceSetIncludedProcedure, connect.NewUnaryHandler(LedgerServiceSetIncludedProcedure, svc.SetIncluded, opts...))
	mux.Handle(LedgerServicePayProcedure, connect.NewUnaryHandler(LedgerServicePayProcedure, svc.Pay, opts...))
	mux.Handle(LedgerServiceListTransactionsProcedure, connect.NewUnaryHandler(LedgerServiceListTransactionsProcedure, svc.ListTransactions, opts...))
	mux.Handle(LedgerServiceListUserTransactionsProcedure, connect.NewUnaryHandler(LedgerServiceListUserTransactionsProcedure, svc.ListUserTransactions, opts...))
	mux.Handle(LedgerServiceGetUserBalancesProcedure, connect.NewUnaryHandler(LedgerServiceGetUserBalancesProcedure, svc.GetUserBalances, opts...))
	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient is a typed client for the LedgerService.
type LedgerServiceClient interface {
	CreateEvent(context.Context, *connect.Request[CreateEventRequest]) (*connect.Response[CreateEventResponse], error)
	GetEvent(context.Context, *connect.Request[GetEventRequest]) (*connect.Response[GetEventResponse], error)
	ListEvents(context.Context, *connect.Request[ListEventsRequest]) (*connect.Response[ListEventsResponse], error)
	CancelEvent(context.Context, *connect.Request[CancelEventRequest]) (*connect.Response[CancelEventResponse], error)
	DeleteEvent(context.Context, *connect.Request[DeleteEventRequest]) (*connect.Response[DeleteEventResponse], error)
	AddParticipant(context.Context, *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error)
	SetIncluded(context.Context, *connect.Request[SetIncludedRequest]) (*connect.Response[SetIncludedResponse], error)
	Pay(context.Context, *connect.Request[PayRequest]) (*connect.Response[PayResponse], error)
	ListTransactions(context.Context, *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error)
	ListUserTransactions(context.Context, *connect.Request[ListUserTransactionsRequest]) (*connect.Response[ListUserTransactionsResponse], error)
	GetUserBalances(context.Context, *connect.Request[GetUserBalancesRequest]) (*connect.Response[GetUserBalancesResponse], error)
}

type ledgerServiceClient struct {
	createEvent          *connect.Client[CreateEventRequest, CreateEventResponse]
	getEvent             *connect.Client[GetEventRequest, GetEventResponse]
	listEvents           *connect.Client[ListEventsRequest, ListEventsResponse]
	cancelEvent          *connect.Client[CancelEventRequest, CancelEventResponse]
	deleteEvent          *connect.Client[DeleteEventRequest, DeleteEventResponse]
	addParticipant       *connect.Client[AddParticipantRequest, AddParticipantResponse]
	setIncluded          *connect.Client[SetIncludedRequest, SetIncludedResponse]
	pay                  *connect.Client[PayRequest, PayResponse]
	listTransactions     *connect.Client[ListTransactionsRequest, ListTransactionsResponse]
	listUserTransactions *connect.Client[ListUserTransactionsRequest, ListUserTransactionsResponse]
	getUserBalances      *connect.Client[GetUserBalancesRequest, GetUserBalancesResponse]
}

// NewLedgerServiceClient returns a client for the service at baseURL, for
// example http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec())}, opts...)
	return &ledgerServiceClient{
		createEvent:          connect.NewClient[CreateEventRequest, CreateEventResponse](httpClient, baseURL+LedgerServiceCreateEventProcedure, opts...),
		getEvent:             connect.NewClient[GetEventRequest, GetEventResponse](httpClient, baseURL+LedgerServiceGetEventProcedure, opts...),
		listEvents:           connect.NewClient[ListEventsRequest, ListEventsResponse](httpClient, baseURL+LedgerServiceListEventsProcedure, opts...),
		cancelEvent:          connect.NewClient[CancelEventRequest, CancelEventResponse](httpClient, baseURL+LedgerServiceCancelEventProcedure, opts...),
		deleteEvent:          connect.NewClient[DeleteEventRequest, DeleteEventResponse](httpClient, baseURL+LedgerServiceDeleteEventProcedure, opts...),
		addParticipant:       connect.NewClient[AddParticipantRequest, AddParticipantResponse](httpClient, baseURL+LedgerServiceAddParticipantProcedure, opts...),
		setIncluded:          connect.NewClient[SetIncludedRequest, SetIncludedResponse](httpClient, baseURL+LedgerServiceSetIncludedProcedure, opts...),
		pay:                  connect.NewClient[PayRequest, PayResponse](httpClient, baseURL+LedgerServicePayProcedure, opts...),
		listTransactions:     connect.NewClient[ListTransactionsRequest, ListTransactionsResponse](httpClient, baseURL+LedgerServiceListTransactionsProcedure, opts...),
		listUserTransactions: connect.NewClient[ListUserTransactionsRequest, ListUserTransactionsResponse](httpClient, baseURL+LedgerServiceListUserTransactionsProcedure, opts...),
		getUserBalances:      connect.NewClient[GetUserBalancesRequest, GetUserBalancesResponse](httpClient, baseURL+LedgerServiceGetUserBalancesProcedure, opts...),
	}
}

// CreateEvent creates an event owned by the caller.
func (c *ledgerServiceClient) CreateEvent(ctx context.Context, req *connect.Request[CreateEventRequest]) (*connect.Response[CreateEventResponse], error) {
	return c.createEvent.CallUnary(ctx, req)
}

// GetEvent returns an event with its splits.
func (c *ledgerServiceClient) GetEvent(ctx context.Context, req *connect.Request[GetEventRequest]) (*connect.Response[GetEventResponse], error) {
	return c.getEvent.CallUnary(ctx, req)
}

// ListEvents lists events, newest first.
func (c *ledgerServiceClient) ListEvents(ctx context.Context, req *connect.Request[ListEventsRequest]) (*connect.Response[ListEventsResponse], error) {
	return c.listEvents.CallUnary(ctx, req)
}

// CancelEvent cancels an event the caller created.
func (c *ledgerServiceClient) CancelEvent(ctx context.Context, req *connect.Request[CancelEventRequest]) (*connect.Response[CancelEventResponse], error) {
	return c.cancelEvent.CallUnary(ctx, req)
}

// DeleteEvent deletes an event the caller created.
func (c *ledgerServiceClient) DeleteEvent(ctx context.Context, req *connect.Request[DeleteEventRequest]) (*connect.Response[DeleteEventResponse], error) {
	return c.deleteEvent.CallUnary(ctx, req)
}

// AddParticipant adds a participant to an event the caller created.
func (c *ledgerServiceClient) AddParticipant(ctx context.Context, req *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

// SetIncluded includes or excludes a split from its debtor's totals.
func (c *ledgerServiceClient) SetIncluded(ctx context.Context, req *connect.Request[SetIncludedRequest]) (*connect.Response[SetIncludedResponse], error) {
	return c.setIncluded.CallUnary(ctx, req)
}

// Pay pays towards a split.
func (c *ledgerServiceClient) Pay(ctx context.Context, req *connect.Request[PayRequest]) (*connect.Response[PayResponse], error) {
	return c.pay.CallUnary(ctx, req)
}

// ListTransactions lists recorded payments.
func (c *ledgerServiceClient) ListTransactions(ctx context.Context, req *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

// ListUserTransactions lists the payments a user made or received.
func (c *ledgerServiceClient) ListUserTransactions(ctx context.Context, req *connect.Request[ListUserTransactionsRequest]) (*connect.Response[ListUserTransactionsResponse], error) {
	return c.listUserTransactions.CallUnary(ctx, req)
}

// GetUserBalances returns a user's derived balances.
func (c *ledgerServiceClient) GetUserBalances(ctx context.Context, req *connect.Request[GetUserBalancesRequest]) (*connect.Response[GetUserBalancesResponse], error) {
	return c.getUserBalances.CallUnary(ctx, req)
}
