package ledgerapi

type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

type Split struct {
	ID         string `json:"id"`
	EventID    string `json:"eventId"`
	UserID     string `json:"userId"`
	DebAmount  string `json:"debAmount"`
	AmountPaid string `json:"amountPaid"`
	Included   bool   `json:"included"`
	Settled    bool   `json:"settled"`
}

type Event struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	CreatedAt int64    `json:"createdAt"`
	Total     string   `json:"total"`
	CreatorID string   `json:"creatorId"`
	Cancelled bool     `json:"cancelled"`
	Splits    []*Split `json:"splits"`
}

type Transaction struct {
	ID             string `json:"id"`
	CreatedAt      int64  `json:"createdAt"`
	FromUser       string `json:"fromUser"`
	ToUser         string `json:"toUser"`
	Amount         string `json:"amount"`
	EventID        string `json:"eventId"`
	SplitID        string `json:"splitId"`
	Note           string `json:"note,omitempty"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

type Balances struct {
	UserID    string `json:"userId"`
	YouOwe    string `json:"youOwe"`
	OwedToYou string `json:"owedToYou"`
	Net       string `json:"net"`
}

// LedgerService messages.

// CreateEventRequest creates an event owned by the caller.
type CreateEventRequest struct {
	Title          string   `json:"title"`
	Total          string   `json:"total"`
	ParticipantIDs []string `json:"participantIds"`
}

type CreateEventResponse struct {
	Event *Event `json:"event"`
}

type GetEventRequest struct {
	EventID string `json:"eventId"`
}

type GetEventResponse struct {
	Event *Event `json:"event"`
}

// ListEventsRequest lists all events, or only those UserID created or takes part in.
type ListEventsRequest struct {
	UserID string `json:"userId,omitempty"`
}

type ListEventsResponse struct {
	Events []*Event `json:"events"`
}

type CancelEventRequest struct {
	EventID string `json:"eventId"`
}

type CancelEventResponse struct {
	Event *Event `json:"event"`
}

type DeleteEventRequest struct {
	EventID string `json:"eventId"`
}

type DeleteEventResponse struct{}

// AddParticipantRequest adds UserID to an event. Included defaults to true
// and DebAmount to an equal share of the total.
type AddParticipantRequest struct {
	EventID   string  `json:"eventId"`
	UserID    string  `json:"userId"`
	Included  *bool   `json:"included,omitempty"`
	DebAmount *string `json:"debAmount,omitempty"`
}

type AddParticipantResponse struct {
	Split *Split `json:"split"`
}

type SetIncludedRequest struct {
	SplitID  string `json:"splitId"`
	Included bool   `json:"included"`
}

type SetIncludedResponse struct {
	Split *Split `json:"split"`
}

// PayRequest pays Amount towards a split. PayerUserID must be the caller.
type PayRequest struct {
	SplitID        string `json:"splitId"`
	PayerUserID    string `json:"payerUserId"`
	Amount         string `json:"amount"`
	Note           string `json:"note,omitempty"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

type PayResponse struct {
	Transaction *Transaction `json:"transaction"`
	Split       *Split       `json:"split,omitempty"`
}

// ListTransactionsRequest lists the whole log, or only one event's payments.
type ListTransactionsRequest struct {
	EventID string `json:"eventId,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

// ListUserTransactionsRequest defaults UserID to the caller.
type ListUserTransactionsRequest struct {
	UserID string `json:"userId,omitempty"`
}

type ListUserTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

// GetUserBalancesRequest defaults UserID to the caller.
type GetUserBalancesRequest struct {
	UserID string `json:"userId,omitempty"`
}

type GetUserBalancesResponse struct {
	Balances *Balances `json:"balances"`
}

// UserService messages.

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type CreateUserResponse struct {
	User *User `json:"user"`
}

type GetUserRequest struct {
	UserID string `json:"userId"`
}

type GetUserResponse struct {
	User *User `json:"user"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

type SearchUserRequest struct {
	Username string `json:"username"`
}

type SearchUserResponse struct {
	User *User `json:"user"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

// UpdateUserRequest edits the caller's profile. Nil fields are unchanged.
type UpdateUserRequest struct {
	UserID   string  `json:"userId"`
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

type UpdateUserResponse struct {
	User *User `json:"user"`
}

type DeleteUserRequest struct {
	UserID string `json:"userId"`
}

type DeleteUserResponse struct{}

// ListUserSplitsRequest defaults UserID to the caller.
type ListUserSplitsRequest struct {
	UserID string `json:"userId,omitempty"`
}

type ListUserSplitsResponse struct {
	Splits []*Split `json:"splits"`
}
