package services

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/arzan03/CondoLedger/internal/models"
)

// Summary aggregates the whole ledger. Net is collected dues minus expenses.
func (l *Ledger) Summary(ctx context.Context) (models.Summary, error) {
	var s models.Summary
	err := l.store.View(ctx, func(lg *models.Ledger) error {
		dues, paid, expenses := decimal.Zero, decimal.Zero, decimal.Zero
		for _, d := range lg.Dues {
			amt := decimal.NewFromFloat(d.Amount)
			dues = dues.Add(amt)
			if d.IsPaid() {
				paid = paid.Add(amt)
			}
		}
		for _, e := range lg.Expenses {
			expenses = expenses.Add(decimal.NewFromFloat(e.Amount))
		}
		s = models.Summary{
			TotalDues:     dues.InexactFloat64(),
			TotalPaid:     paid.InexactFloat64(),
			TotalUnpaid:   dues.Sub(paid).InexactFloat64(),
			TotalExpenses: expenses.InexactFloat64(),
			Net:           paid.Sub(expenses).InexactFloat64(),
		}
		return nil
	})
	return s, err
}

// Monthly groups dues by period, oldest period first.
func (l *Ledger) Monthly(ctx context.Context) ([]models.MonthlyTotal, error) {
	type totals struct{ dues, paid decimal.Decimal }
	byPeriod := map[string]*totals{}

	err := l.store.View(ctx, func(lg *models.Ledger) error {
		for _, d := range lg.Dues {
			t, ok := byPeriod[d.Period]
			if !ok {
				t = &totals{dues: decimal.Zero, paid: decimal.Zero}
				byPeriod[d.Period] = t
			}
			amt := decimal.NewFromFloat(d.Amount)
			t.dues = t.dues.Add(amt)
			if d.IsPaid() {
				t.paid = t.paid.Add(amt)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.MonthlyTotal, 0, len(byPeriod))
	for period, t := range byPeriod {
		out = append(out, models.MonthlyTotal{
			Period: period,
			Dues:   t.dues.InexactFloat64(),
			Paid:   t.paid.InexactFloat64(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, nil
}
