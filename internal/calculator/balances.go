package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// YouOwe sums the unpaid remainder of the given splits that are included and
// not yet settled. The caller passes the splits assigned to one user.
func YouOwe(splits []models.Split) decimal.Decimal {
	owed := money.Zero
	for _, s := range splits {
		if !s.Included || s.Settled {
			continue
		}
		owed = owed.Add(s.DebAmount.Sub(s.AmountPaid))
	}
	return money.Round2(owed)
}

// OwedToYou sums, over the given events that are not cancelled, the event
// total minus everything paid on its splits. The caller passes the events
// one user created, with splits loaded.
func OwedToYou(events []*models.Event) decimal.Decimal {
	owed := money.Zero
	for _, e := range events {
		if e.Cancelled {
			continue
		}
		owed = owed.Add(e.Total.Sub(e.PaidTotal()))
	}
	return money.Round2(owed)
}

// ComputeBalances derives a user's position from their splits and the events
// they created. Net is round2(OwedToYou - YouOwe) and may be negative.
func ComputeBalances(userID string, splits []models.Split, created []*models.Event) models.Balances {
	youOwe := YouOwe(splits)
	owedToYou := OwedToYou(created)
	return models.Balances{
		UserID:    userID,
		YouOwe:    youOwe,
		OwedToYou: owedToYou,
		Net:       money.Round2(owedToYou.Sub(youOwe)),
	}
}
