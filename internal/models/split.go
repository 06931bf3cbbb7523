package models

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/money"
)

// Event represents a shared expense to be split among participants.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// Title is the non-empty, human-readable name of the expense.
	Title string

	// CreatedAt is the Unix timestamp when the event was created. Immutable.
	CreatedAt int64

	// Total is the full cost of the event. Positive and immutable.
	Total decimal.Decimal

	// CreatorID is the user who paid for the event and is owed by everyone else.
	CreatorID string

	// Cancelled only ever moves from false to true.
	Cancelled bool

	// Splits are the per-participant shares, including the creator's own.
	// Populated when the event is loaded with its splits.
	Splits []Split
}

// PaidTotal returns the sum of AmountPaid over all of the event's splits.
func (e *Event) PaidTotal() decimal.Decimal {
	amounts := make([]decimal.Decimal, len(e.Splits))
	for i, s := range e.Splits {
		amounts[i] = s.AmountPaid
	}
	return money.Sum(amounts...)
}

// SplitFor returns the split assigned to userID, if any.
func (e *Event) SplitFor(userID string) (*Split, bool) {
	for i := range e.Splits {
		if e.Splits[i].UserID == userID {
			return &e.Splits[i], true
		}
	}
	return nil, false
}

// Split represents one participant's share of an event and their payment progress.
// Exactly one split exists per (EventID, UserID).
type Split struct {
	// ID is the unique identifier for the split (UUID format).
	ID string

	// EventID is the event this share belongs to.
	EventID string

	// UserID is the participant who owes this share.
	UserID string

	// DebAmount is the assigned share. Never negative.
	DebAmount decimal.Decimal

	// AmountPaid is how much of the share has been paid. Never decreases and
	// never exceeds DebAmount.
	AmountPaid decimal.Decimal

	// Included controls whether the share counts toward the debtor's totals.
	Included bool

	// Settled is derived: true iff round2(AmountPaid) >= round2(DebAmount).
	Settled bool
}

// Remaining returns the unpaid part of the share, never negative.
func (s *Split) Remaining() decimal.Decimal {
	return money.Remaining(s.DebAmount, s.AmountPaid)
}

// Refresh recomputes the derived Settled flag.
func (s *Split) Refresh() {
	s.Settled = money.GreaterOrEqual(s.AmountPaid, s.DebAmount)
}

// Transaction is an immutable record of one payment applied to a split.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64

	// FromUser is the user who paid.
	FromUser string

	// ToUser is the payee, always the event creator.
	ToUser string

	// Amount is the payment amount. Always positive.
	Amount decimal.Decimal

	// EventID is denormalized for reporting; the event may since have been deleted.
	EventID string

	// SplitID is the split the payment was applied to.
	SplitID string

	// Note is an optional description.
	Note string

	// IdempotencyKey is an optional client-supplied key that makes a payment
	// safe to retry. Unique when set.
	IdempotencyKey string
}

// Balances is a user's derived position across all events.
type Balances struct {
	UserID string

	// YouOwe is the unpaid remainder of the user's included, unsettled splits.
	YouOwe decimal.Decimal

	// OwedToYou is the unpaid remainder of the active events the user created.
	OwedToYou decimal.Decimal

	// Net is round2(OwedToYou - YouOwe). May be negative.
	Net decimal.Decimal
}
