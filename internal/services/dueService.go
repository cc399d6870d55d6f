package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arzan03/CondoLedger/internal/db"
	"github.com/arzan03/CondoLedger/internal/metrics"
	"github.com/arzan03/CondoLedger/internal/models"
)

type ApplyDuesInput struct {
	Period      string      `json:"period"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
}

// visibleApartments returns the ids of apartments whose records caller may see.
// A nil map means everything is visible.
func visibleApartments(lg *models.Ledger, caller models.User) map[int]bool {
	if caller.IsAdmin() {
		return nil
	}
	ids := map[int]bool{}
	for _, a := range lg.ApartmentsOf(caller.ID) {
		ids[a.ID] = true
	}
	return ids
}

// ListDues returns dues visible to caller, optionally restricted to one period.
func (l *Ledger) ListDues(ctx context.Context, caller models.User, period string) ([]models.DueView, error) {
	var out []models.DueView
	err := l.store.View(ctx, func(lg *models.Ledger) error {
		visible := visibleApartments(lg, caller)
		out = make([]models.DueView, 0)
		for _, d := range lg.Dues {
			if period != "" && d.Period != period {
				continue
			}
			if visible != nil && !visible[d.ApartmentID] {
				continue
			}
			v := models.DueView{Due: *d}
			if a := lg.ApartmentByID(d.ApartmentID); a != nil {
				n := a.Number
				v.ApartmentNumber = &n
			}
			out = append(out, v)
		}
		return nil
	})
	return out, err
}

// ApplyDues creates an unpaid due for every occupied apartment that has none
// for the period yet. Existing dues are never modified, so repeated runs only
// fill gaps. It returns the number of dues created.
func (l *Ledger) ApplyDues(ctx context.Context, in ApplyDuesInput) (int, error) {
	period := strings.TrimSpace(in.Period)
	if period == "" || strings.TrimSpace(in.Amount.String()) == "" {
		return 0, validation("period and amount are required")
	}
	if err := ValidatePeriod(period); err != nil {
		return 0, err
	}
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return 0, err
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = fmt.Sprintf("%s dues", period)
	}

	created := 0
	err = l.store.Update(ctx, func(lg *models.Ledger) error {
		for _, apt := range lg.Apartments {
			if !apt.Occupied() || lg.HasDue(apt.ID, period) {
				continue
			}
			lg.Dues = append(lg.Dues, &models.Due{
				ID:          db.NextID(lg, models.KindDues),
				ApartmentID: apt.ID,
				Period:      period,
				Amount:      amount.InexactFloat64(),
				Paid:        0,
				Description: description,
			})
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.DuesCreated.Add(float64(created))
	l.log.WithField("period", period).WithField("created", created).Info("dues applied")
	return created, nil
}
