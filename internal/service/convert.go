package service

import (
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	api "github.com/mmynk/splitledger/pkg/ledgerapi"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toAPISplit(s *models.Split) *api.Split {
	if s == nil {
		return nil
	}
	return &api.Split{
		ID:         s.ID,
		EventID:    s.EventID,
		UserID:     s.UserID,
		DebAmount:  money.String(s.DebAmount),
		AmountPaid: money.String(s.AmountPaid),
		Included:   s.Included,
		Settled:    s.Settled,
	}
}

func toAPISplits(splits []models.Split) []*api.Split {
	out := make([]*api.Split, len(splits))
	for i := range splits {
		out[i] = toAPISplit(&splits[i])
	}
	return out
}

func toAPIEvent(e *models.Event) *api.Event {
	return &api.Event{
		ID:        e.ID,
		Title:     e.Title,
		CreatedAt: e.CreatedAt,
		Total:     money.String(e.Total),
		CreatorID: e.CreatorID,
		Cancelled: e.Cancelled,
		Splits:    toAPISplits(e.Splits),
	}
}

func toAPIEvents(events []*models.Event) []*api.Event {
	out := make([]*api.Event, len(events))
	for i, e := range events {
		out[i] = toAPIEvent(e)
	}
	return out
}

func toAPITransaction(t *models.Transaction) *api.Transaction {
	return &api.Transaction{
		ID:             t.ID,
		CreatedAt:      t.CreatedAt,
		FromUser:       t.FromUser,
		ToUser:         t.ToUser,
		Amount:         money.String(t.Amount),
		EventID:        t.EventID,
		SplitID:        t.SplitID,
		Note:           t.Note,
		IdempotencyKey: t.IdempotencyKey,
	}
}

func toAPITransactions(txns []*models.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(txns))
	for i, t := range txns {
		out[i] = toAPITransaction(t)
	}
	return out
}

func toAPIBalances(b models.Balances) *api.Balances {
	return &api.Balances{
		UserID:    b.UserID,
		YouOwe:    money.String(b.YouOwe),
		OwedToYou: money.String(b.OwedToYou),
		Net:       money.String(b.Net),
	}
}
