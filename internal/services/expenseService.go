package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/arzan03/CondoLedger/internal/db"
	"github.com/arzan03/CondoLedger/internal/models"
)

type ExpenseInput struct {
	Title       string      `json:"title"`
	Amount      json.Number `json:"amount"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
}

func (l *Ledger) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	var out []models.Expense
	err := l.store.View(ctx, func(lg *models.Ledger) error {
		out = make([]models.Expense, 0, len(lg.Expenses))
		for _, e := range lg.Expenses {
			out = append(out, *e)
		}
		return nil
	})
	return out, err
}

func (l *Ledger) CreateExpense(ctx context.Context, in ExpenseInput) (models.Expense, error) {
	title := strings.TrimSpace(in.Title)
	date := strings.TrimSpace(in.Date)
	if title == "" || date == "" || strings.TrimSpace(in.Amount.String()) == "" {
		return models.Expense{}, validation("title, amount and date are required")
	}
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return models.Expense{}, err
	}

	var created models.Expense
	err = l.store.Update(ctx, func(lg *models.Ledger) error {
		e := &models.Expense{
			ID:          db.NextID(lg, models.KindExpenses),
			Title:       title,
			Amount:      amount.InexactFloat64(),
			Date:        date,
			Description: strings.TrimSpace(in.Description),
		}
		lg.Expenses = append(lg.Expenses, e)
		created = *e
		return nil
	})
	if err != nil {
		return models.Expense{}, err
	}
	l.log.WithField("expense_id", created.ID).WithField("amount", created.Amount).Info("expense recorded")
	return created, nil
}
