package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	api "github.com/mmynk/splitledger/pkg/ledgerapi"
)

const testSecret = "test-secret"

type testClients struct {
	ledger api.LedgerServiceClient
	users  api.UserServiceClient
	jwt    *auth.JWTManager
	reg    *prometheus.Registry
}

// setupTestServer creates a test server backed by a temp-file SQLite database,
// with the same interceptor chain as the real server.
func setupTestServer(t *testing.T) (*testClients, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	l := ledger.New(store, ledger.WithMetrics(m), ledger.WithOpTimeout(10*time.Second))
	jwtManager := auth.NewJWTManager(testSecret, time.Hour)

	interceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.RequireAuth(jwtManager),
		middleware.LoggingInterceptor(),
	)
	ledgerPath, ledgerHandler := api.NewLedgerServiceHandler(NewLedgerService(l), interceptors)
	userPath, userHandler := api.NewUserServiceHandler(NewUserService(l), interceptors)

	mux := http.NewServeMux()
	mux.Handle(ledgerPath, ledgerHandler)
	mux.Handle(userPath, userHandler)

	server := httptest.NewServer(mux)

	clients := &testClients{
		ledger: api.NewLedgerServiceClient(http.DefaultClient, server.URL),
		users:  api.NewUserServiceClient(http.DefaultClient, server.URL),
		jwt:    jwtManager,
		reg:    reg,
	}

	cleanup := func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	}

	return clients, cleanup
}

// request wraps msg in a Connect request authenticated as userID.
func request[T any](t *testing.T, c *testClients, userID string, msg *T) *connect.Request[T] {
	t.Helper()
	token, err := c.jwt.Generate(userID)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

// register creates a user through the registration path and returns its ID.
func register(t *testing.T, c *testClients, username string) string {
	t.Helper()
	resp, err := c.users.CreateUser(context.Background(), request(t, c, "registrar", &api.CreateUserRequest{
		Username: username,
		Email:    username + "@example.com",
	}))
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", username, err)
	}
	return resp.Msg.User.ID
}

func splitFor(t *testing.T, event *api.Event, userID string) *api.Split {
	t.Helper()
	for _, s := range event.Splits {
		if s.UserID == userID {
			return s
		}
	}
	t.Fatalf("no split for %s in event %s", userID, event.ID)
	return nil
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("expected code %v, got %v (%v)", want, got, err)
	}
}

func createDinner(t *testing.T, c *testClients, creator string, participants ...string) *api.Event {
	t.Helper()
	resp, err := c.ledger.CreateEvent(context.Background(), request(t, c, creator, &api.CreateEventRequest{
		Title:          "Dinner",
		Total:          "100.00",
		ParticipantIDs: participants,
	}))
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	return resp.Msg.Event
}

func TestCreateEvent_And_GetEvent(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	alice, bob, carol := register(t, c, "alice"), register(t, c, "bob"), register(t, c, "carol")
	event := createDinner(t, c, alice, bob, carol)

	if event.ID == "" {
		t.Fatal("expected non-empty event ID")
	}
	if event.CreatorID != alice {
		t.Errorf("creator: expected %s, got %s", alice, event.CreatorID)
	}
	if event.Total != "100.00" {
		t.Errorf("total: expected 100.00, got %s", event.Total)
	}

	getResp, err := c.ledger.GetEvent(context.Background(), request(t, c, bob, &api.GetEventRequest{EventID: event.ID}))
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	got := getResp.Msg.Event
	if len(got.Splits) != 3 {
		t.Fatalf("expected 3 splits, got %d", len(got.Splits))
	}

	want := map[string]string{alice: "33.34", bob: "33.33", carol: "33.33"}
	for user, amount := range want {
		s := splitFor(t, got, user)
		if s.DebAmount != amount {
			t.Errorf("%s: expected %s, got %s", user, amount, s.DebAmount)
		}
		if s.AmountPaid != "0.00" || s.Settled || !s.Included {
			t.Errorf("%s: unexpected initial state %+v", user, s)
		}
	}
}

func TestCreateEvent_Validation(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	alice := register(t, c, "alice")
	ctx := context.Background()

	_, err := c.ledger.CreateEvent(ctx, request(t, c, alice, &api.CreateEventRequest{Title: "Bad", Total: "-5"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = c.ledger.CreateEvent(ctx, request(t, c, alice, &api.CreateEventRequest{Title: "Bad", Total: "abc"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = c.ledger.CreateEvent(ctx, request(t, c, alice, &api.CreateEventRequest{Title: "", Total: "10"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = c.ledger.CreateEvent(ctx, request(t, c, alice, &api.CreateEventRequest{
		Title:          "Ghost",
		Total:          "10",
		ParticipantIDs: []string{"nobody"},
	}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestRequiresAuthentication(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	_, err := c.ledger.ListEvents(context.Background(), connect.NewRequest(&api.ListEventsRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)

	req := connect.NewRequest(&api.ListEventsRequest{})
	req.Header().Set("Authorization", "Bearer not-a-token")
	_, err = c.ledger.ListEvents(context.Background(), req)
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestGetEvent_NotFound(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	alice := register(t, c, "alice")
	_, err := c.ledger.GetEvent(context.Background(), request(t, c, alice, &api.GetEventRequest{EventID: "non-existent-id"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestPay_SettlesSplitAndUpdatesBalances(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	alice, bob, carol := register(t, c, "alice"), register(t, c, "bob"), register(t, c, "carol")
	event := createDinner(t, c, alice, bob, carol)
	ctx := context.Background()

	payResp, err := c.ledger.Pay(ctx, request(t, c, bob, &api.PayRequest{
		SplitID:     splitFor(t, event, bob).ID,
		PayerUserID: bob,
		Amount:      "33.33",
		Note:        "thanks!",
	}))
	if err != nil {
		t.Fatalf("Pay failed: %v", err)
	}

	txn := payResp.Msg.Transaction
	if txn.FromUser != bob || txn.ToUser != alice || txn.Amount != "33.33" || txn.EventID != event.ID {
		t.Errorf("unexpected transaction %+v", txn)
	}
	if !payResp.Msg.Split.Settled || payResp.Msg.Split.AmountPaid != "33.33" {
		t.Errorf("expected settled split with 33.33 paid, got %+v", payResp.Msg.Split)
	}

	balResp, err := c.ledger.GetUserBalances(ctx, request(t, c, alice, &api.GetUserBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetUserBalances failed: %v", err)
	}
	b := balResp.Msg.Balances
	if b.UserID != alice || b.OwedToYou != "66.67" || b.YouOwe != "33.34" || b.Net != "33.33" {
		t.Errorf("unexpected creator balances %+v", b)
	}

	balResp, err = c.ledger.GetUserBalances(ctx, request(t, c, alice, &api.GetUserBalancesRequest{UserID: carol}))
	if err != nil {
		t.Fatalf("GetUserBalances failed: %v", err)
	}
	if balResp.Msg.Balances.YouOwe != "33.33" || balResp.Msg.Balances.Net != "-33.33" {
		t.Errorf("unexpected debtor balances %+v", balResp.Msg.Balances)
	}

	userTxns, err := c.ledger.ListUserTransactions(ctx, request(t, c, alice, &api.ListUserTransactionsRequest{}))
	if err != nil {
		t.Fatalf("ListUserTransactions failed: %v", err)
	}
	if len(userTxns.Msg.Transactions) != 1 || userTxns.Msg.Transactions[0].Note != "thanks!" {
		t.Errorf("expected the payment in the payee's history, got %+v", userTxns.Msg.Transactions)
	}
}

func TestPay_Rejections(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	alice, bob, carol := register(t, c, "alice"), register(t, c, "bob"), register(t, c, "carol")
	event := createDinner(t, c, alice, bob, carol)
	splitID := splitFor(t, event, bob).ID
	ctx := context.Background()

	tests := []struct {
		name   string
		caller string
		msg    *api.PayRequest
		want   connect.Code
	}{
		{"overpayment", bob, &api.PayRequest{SplitID: splitID, PayerUserID: bob, Amount: "50.00"}, connect.CodeInvalidArgument},
		{"zero amount", bob, &api.PayRequest{SplitID: splitID, PayerUserID: bob, Amount: "0"}, connect.CodeInvalidArgument},
		{"payer is not the caller", carol, &api.PayRequest{SplitID: splitID, PayerUserID: bob, Amount: "1"}, connect.CodePermissionDenied},
		{"someone else's split", carol, &api.PayRequest{SplitID: splitID, PayerUserID: carol, Amount: "1"}, connect.CodePermissionDenied},
		{"unknown split", bob, &api.PayRequest{SplitID: "missing", PayerUserID: bob, Amount: "1"}, connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ledger.Pay(ctx, request(t, c, tt.caller, tt.msg))
			assertCode(t, err, tt.want)
		})
	}

	txns, err := c.ledger.ListTransactions(ctx, request(t, c, alice, &api.ListTransactionsRequest{}))
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txns.Msg.Transactions) != 0 {
		t.Errorf("rejected payments must not be recorded, got %d", len(txns.Msg.Transactions))
	}
}

func TestPay_IdempotencyKey(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	alice, bob := register(t, c, "alice"), register(t, c, "bob")
	event := createDinner(t, c, alice, bob)
	ctx := context.Background()

	msg := &api.PayRequest{
		SplitID:        splitFor(t, event, bob).ID,
		PayerUserID:    bob,
		Amount:         "20",
		IdempotencyKey: "retry-me",
	}
	first, err := c.ledger.Pay(ctx, request(t, c, bob, msg))
	if err != nil {
		t.Fatalf("Pay failed: %v", err)
	}
	second, err := c.ledger.Pay(ctx, request(t, c, bob, msg))
	if err != nil {
		t.Fatalf("replayed Pay failed: %v", err)
	}
	if first.Msg.Transaction.ID != second.Msg.Transaction.ID {
		t.Errorf("replay returned a new transaction")
	}
	if second.Msg.Split.AmountPaid != "20.00" {
		t.Errorf("expected 20.00 paid after replay, got %s", second.Msg.Split.AmountPaid)
	}
}

func TestCancelEvent(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	alice, bob, dave := register(t, c, "alice"), register(t, c, "bob"), register(t, c, "dave")
	event := createDinner(t, c, alice, bob)
	ctx := context.Background()

	_, err := c.ledger.CancelEvent(ctx, request(t, c, bob, &api.CancelEventRequest{EventID: event.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	resp, err := c.ledger.CancelEvent(ctx, request(t, c, alice, &api.CancelEventRequest{EventID: event.ID}))
	if err != nil {
		t.Fatalf("CancelEvent failed: %v", err)
	}
	if !resp.Msg.Event.Cancelled {
		t.Error("expected event to be cancelled")
	}

	_, err = c.ledger.AddParticipant(ctx, request(t, c, alice, &api.AddParticipantRequest{EventID: event.ID, UserID: dave}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = c.ledger.Pay(ctx, request(t, c, bob, &api.PayRequest{
		SplitID:     splitFor(t, event, bob).ID,
		PayerUserID: bob,
		Amount:      "1",
	}))
	assertCode(t, err, connect.CodePermissionDenied)
}

func TestDeleteEvent_KeepsTransactions(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	alice, bob := register(t, c, "alice"), register(t, c, "bob")
	event := createDinner(t, c, alice, bob)
	ctx := context.Background()

	_, err := c.ledger.Pay(ctx, request(t, c, bob, &api.PayRequest{
		SplitID:     splitFor(t, event, bob).ID,
		PayerUserID: bob,
		Amount:      "10",
	}))
	if err != nil {
		t.Fatalf("Pay failed: %v", err)
	}

	_, err = c.ledger.DeleteEvent(ctx, request(t, c, bob, &api.DeleteEventRequest{EventID: event.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	if _, err := c.ledger.DeleteEvent(ctx, request(t, c, alice, &api.DeleteEventRequest{EventID: event.ID})); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}

	_, err = c.ledger.GetEvent(ctx, request(t, c, alice, &api.GetEventRequest{EventID: event.ID}))
	assertCode(t, err, connect.CodeNotFound)

	txns, err := c.ledger.ListTransactions(ctx, request(t, c, alice, &api.ListTransactionsRequest{EventID: event.ID}))
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txns.Msg.Transactions) != 1 {
		t.Errorf("expected the payment to survive deletion, got %d", len(txns.Msg.Transactions))
	}
}

func TestAddParticipant_And_SetIncluded(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	alice, bob, carol := register(t, c, "alice"), register(t, c, "bob"), register(t, c, "carol")
	event := createDinner(t, c, alice, bob)
	ctx := context.Background()

	addResp, err := c.ledger.AddParticipant(ctx, request(t, c, alice, &api.AddParticipantRequest{EventID: event.ID, UserID: carol}))
	if err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	if addResp.Msg.Split.DebAmount != "33.33" {
		t.Errorf("expected 33.33 for the third participant, got %s", addResp.Msg.Split.DebAmount)
	}

	_, err = c.ledger.AddParticipant(ctx, request(t, c, alice, &api.AddParticipantRequest{EventID: event.ID, UserID: carol}))
	assertCode(t, err, connect.CodeAlreadyExists)

	_, err = c.ledger.SetIncluded(ctx, request(t, c, carol, &api.SetIncludedRequest{SplitID: addResp.Msg.Split.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	setResp, err := c.ledger.SetIncluded(ctx, request(t, c, alice, &api.SetIncludedRequest{SplitID: addResp.Msg.Split.ID, Included: false}))
	if err != nil {
		t.Fatalf("SetIncluded failed: %v", err)
	}
	if setResp.Msg.Split.Included {
		t.Error("expected split to be excluded")
	}

	bal, err := c.ledger.GetUserBalances(ctx, request(t, c, carol, &api.GetUserBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetUserBalances failed: %v", err)
	}
	if bal.Msg.Balances.YouOwe != "0.00" {
		t.Errorf("excluded split must not be owed, got %s", bal.Msg.Balances.YouOwe)
	}
}

func TestListEvents(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	alice, bob, carol := register(t, c, "alice"), register(t, c, "bob"), register(t, c, "carol")
	createDinner(t, c, alice, bob)
	createDinner(t, c, carol)
	ctx := context.Background()

	all, err := c.ledger.ListEvents(ctx, request(t, c, alice, &api.ListEventsRequest{}))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(all.Msg.Events) != 2 {
		t.Errorf("expected 2 events, got %d", len(all.Msg.Events))
	}

	mine, err := c.ledger.ListEvents(ctx, request(t, c, bob, &api.ListEventsRequest{UserID: bob}))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(mine.Msg.Events) != 1 {
		t.Errorf("expected 1 event for bob, got %d", len(mine.Msg.Events))
	}
}

func TestMetricsRecorded(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()

	alice := register(t, c, "alice")
	createDinner(t, c, alice)

	families, err := c.reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	found := map[string]bool{}
	for _, f := range families {
		found[f.GetName()] = true
	}
	for _, name := range []string{"splitledger_rpc_requests_total", "splitledger_events_created_total"} {
		if !found[name] {
			t.Errorf("expected metric %s to be recorded", name)
		}
	}
}
