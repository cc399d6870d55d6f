package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/arzan03/CondoLedger/internal/db"
	"github.com/arzan03/CondoLedger/internal/metrics"
	"github.com/arzan03/CondoLedger/internal/models"
)

type PaymentInput struct {
	DueID      json.Number `json:"dueId"`
	CardNumber CardNumber  `json:"cardNumber"`
	Amount     json.Number `json:"amount"`
}

// Pay settles a due in full. The due is located, checked for a previous
// payment, tied to its apartment, authorized against caller, matched against
// the paid amount and the card is validated, in that order. Only then are the
// due and the new payment saved together.
func (l *Ledger) Pay(ctx context.Context, caller models.User, in PaymentInput) (receipt models.Receipt, err error) {
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = string(KindOf(err))
		}
		metrics.Payments.WithLabelValues(outcome).Inc()
	}()

	if strings.TrimSpace(in.DueID.String()) == "" || strings.TrimSpace(string(in.CardNumber)) == "" || strings.TrimSpace(in.Amount.String()) == "" {
		return models.Receipt{}, validation("dueId, cardNumber and amount are required")
	}
	dueID, ok := parseID(in.DueID)
	if !ok {
		return models.Receipt{}, ErrDueNotFound
	}

	err = l.store.Update(ctx, func(lg *models.Ledger) error {
		due := lg.DueByID(dueID)
		if due == nil {
			return ErrDueNotFound
		}
		if due.IsPaid() {
			return ErrAlreadyPaid
		}
		apt := lg.ApartmentByID(due.ApartmentID)
		if apt == nil {
			return ErrDataIntegrity
		}
		if !caller.IsAdmin() && (apt.UserID == nil || *apt.UserID != caller.ID) {
			return ErrNotOwner
		}
		amount, perr := decimal.NewFromString(strings.TrimSpace(in.Amount.String()))
		if perr != nil || !amountsMatch(amount, decimal.NewFromFloat(due.Amount)) {
			return ErrAmountMismatch
		}
		if err := ValidateCard(string(in.CardNumber)); err != nil {
			return err
		}

		payer := caller.ID
		if apt.UserID != nil {
			payer = *apt.UserID
		}
		due.Paid = 1
		p := &models.Payment{
			ID:         db.NextID(lg, models.KindPayments),
			DueID:      due.ID,
			UserID:     payer,
			Datetime:   l.now().UTC().Format(timestampLayout),
			CardMasked: MaskCard(string(in.CardNumber)),
			Amount:     amount.InexactFloat64(),
		}
		lg.Payments = append(lg.Payments, p)

		receipt = models.Receipt{
			PaymentID:       p.ID,
			Period:          due.Period,
			ApartmentNumber: apt.Number,
			Amount:          p.Amount,
			Datetime:        p.Datetime,
			CardMasked:      p.CardMasked,
		}
		return nil
	})
	if err != nil {
		return models.Receipt{}, err
	}

	l.log.WithField("payment_id", receipt.PaymentID).
		WithField("due_id", dueID).
		WithField("caller_id", caller.ID).
		Info("due paid")
	return receipt, nil
}

// ListPayments returns payments visible to caller: everything for an admin,
// otherwise payments for dues of the caller's apartments and payments the
// caller made.
func (l *Ledger) ListPayments(ctx context.Context, caller models.User) ([]models.Payment, error) {
	var out []models.Payment
	err := l.store.View(ctx, func(lg *models.Ledger) error {
		visible := visibleApartments(lg, caller)
		out = make([]models.Payment, 0)
		for _, p := range lg.Payments {
			if visible != nil && p.UserID != caller.ID {
				d := lg.DueByID(p.DueID)
				if d == nil || !visible[d.ApartmentID] {
					continue
				}
			}
			out = append(out, *p)
		}
		return nil
	})
	return out, err
}
