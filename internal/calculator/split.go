package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// Share is one participant's allocated part of an event total.
type Share struct {
	UserID    string
	DebAmount decimal.Decimal
	Included  bool
}

// Allocate splits total equally among participants plus the creator.
//
// The creator is always an included participant and comes first. Duplicate
// participant IDs are ignored. Each share is round2(total / n); the creator
// absorbs the rounding remainder so the shares sum exactly to total:
// 100.00 among three people is 33.34 for the creator and 33.33 for the others.
func Allocate(total decimal.Decimal, participants []string, creatorID string) ([]Share, error) {
	if !money.IsPositive(total) {
		return nil, fmt.Errorf("total must be positive, got %s: %w", total, models.ErrInvalidAmount)
	}
	if creatorID == "" {
		return nil, fmt.Errorf("creator is required: %w", models.ErrInvalidArgument)
	}
	total = money.Round2(total)

	members := uniqueMembers(creatorID, participants)
	n := int64(len(members))
	perPerson := money.Round2(total.Div(decimal.NewFromInt(n)))

	shares := make([]Share, len(members))
	for i, userID := range members {
		shares[i] = Share{UserID: userID, DebAmount: perPerson, Included: true}
	}

	// Creator takes whatever the equal shares leave over, positive or negative.
	others := perPerson.Mul(decimal.NewFromInt(n - 1))
	shares[0].DebAmount = total.Sub(others)
	if shares[0].DebAmount.IsNegative() {
		return nil, fmt.Errorf("total %s is too small to split among %d participants: %w",
			money.String(total), n, models.ErrInvalidAmount)
	}

	return shares, nil
}

// ShareForNewParticipant is the amount a participant added after creation owes:
// round2(total / (existing + 1)). Existing splits are not rebalanced.
func ShareForNewParticipant(total decimal.Decimal, existingSplits int) decimal.Decimal {
	n := decimal.NewFromInt(int64(existingSplits + 1))
	return money.Round2(total.Div(n))
}

// uniqueMembers returns creator followed by the distinct, non-empty participants
// in their given order.
func uniqueMembers(creatorID string, participants []string) []string {
	seen := map[string]bool{creatorID: true}
	members := []string{creatorID}
	for _, p := range participants {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		members = append(members, p)
	}
	return members
}
