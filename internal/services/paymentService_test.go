package services

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arzan03/CondoLedger/internal/models"
)

type payFixture struct {
	l        *Ledger
	resident models.User
	other    models.User
	admin    models.User
	dueID    int
}

func newPayFixture(t *testing.T) payFixture {
	t.Helper()
	l, _ := newTestLedger(t)
	f := payFixture{l: l}
	f.admin = mustUser(t, l, "Admin", "5550", models.RoleAdmin)
	f.resident = mustUser(t, l, "Ayse", "5551", models.RoleResident)
	f.other = mustUser(t, l, "Mehmet", "5552", models.RoleResident)
	mustApartment(t, l, 101, &f.resident)
	mustApartment(t, l, 102, &f.other)
	require.Equal(t, 2, applyDues(t, l, "2024-05", "500"))

	dues, err := l.ListDues(context.Background(), f.resident, "2024-05")
	require.NoError(t, err)
	require.Len(t, dues, 1)
	f.dueID = dues[0].ID
	return f
}

func (f payFixture) input(amount, card string) PaymentInput {
	return PaymentInput{DueID: json.Number(strconv.Itoa(f.dueID)), CardNumber: CardNumber(card), Amount: json.Number(amount)}
}

func TestPayScenario(t *testing.T) {
	f := newPayFixture(t)
	ctx := context.Background()

	dues, err := f.l.ListDues(ctx, f.resident, "")
	require.NoError(t, err)
	require.Len(t, dues, 1)
	assert.Equal(t, 500.0, dues[0].Amount)
	assert.False(t, dues[0].IsPaid())

	receipt, err := f.l.Pay(ctx, f.resident, f.input("500", validCard))
	require.NoError(t, err)
	assert.Equal(t, "2024-05", receipt.Period)
	assert.Equal(t, 101, receipt.ApartmentNumber)
	assert.Equal(t, 500.0, receipt.Amount)
	assert.Equal(t, "**** **** **** 6467", receipt.CardMasked)
	assert.Equal(t, "2024-05-10T09:30:00.000Z", receipt.Datetime)

	dues, err = f.l.ListDues(ctx, f.resident, "")
	require.NoError(t, err)
	assert.True(t, dues[0].IsPaid())

	payments, err := f.l.ListPayments(ctx, f.resident)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, receipt.PaymentID, payments[0].ID)
	assert.Equal(t, f.dueID, payments[0].DueID)
	assert.Equal(t, f.resident.ID, payments[0].UserID)
	assert.NotContains(t, payments[0].CardMasked, "4539")

	_, err = f.l.Pay(ctx, f.resident, f.input("500", validCard))
	assert.ErrorIs(t, err, ErrAlreadyPaid)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestPayAlreadyPaidWinsOverEverything(t *testing.T) {
	f := newPayFixture(t)
	ctx := context.Background()
	_, err := f.l.Pay(ctx, f.resident, f.input("500", validCard))
	require.NoError(t, err)

	for _, tc := range []struct {
		caller models.User
		amount string
		card   string
	}{
		{f.resident, "500", validCard},
		{f.admin, "500", validCard},
		{f.other, "500", validCard},
		{f.resident, "1", "123"},
	} {
		_, err := f.l.Pay(ctx, tc.caller, f.input(tc.amount, tc.card))
		assert.ErrorIs(t, err, ErrAlreadyPaid)
	}
}

func TestPayAcceptsNumericCard(t *testing.T) {
	f := newPayFixture(t)
	ctx := context.Background()

	var in PaymentInput
	body := `{"dueId":` + strconv.Itoa(f.dueID) + `,"cardNumber":4539148803436467,"amount":500}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	receipt, err := f.l.Pay(ctx, f.resident, in)
	require.NoError(t, err)
	assert.Equal(t, "**** **** **** 6467", receipt.CardMasked)

	_, err = f.l.Pay(ctx, f.resident, in)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestPayAmountMustMatch(t *testing.T) {
	f := newPayFixture(t)
	ctx := context.Background()

	for _, amount := range []string{"499.99", "250", "500.01", "abc", "0"} {
		_, err := f.l.Pay(ctx, f.resident, f.input(amount, validCard))
		assert.ErrorIs(t, err, ErrAmountMismatch, amount)
		assert.Equal(t, KindValidation, KindOf(err))
	}

	_, err := f.l.Pay(ctx, f.resident, f.input("500.00001", validCard))
	assert.NoError(t, err, "amounts within epsilon match")
}

func TestPayRejectsInvalidCardWithoutMutation(t *testing.T) {
	f := newPayFixture(t)
	ctx := context.Background()

	_, err := f.l.Pay(ctx, f.resident, f.input("500", "4539148803436468"))
	assert.ErrorIs(t, err, ErrInvalidCard)

	dues, err := f.l.ListDues(ctx, f.resident, "")
	require.NoError(t, err)
	assert.False(t, dues[0].IsPaid())
	payments, err := f.l.ListPayments(ctx, f.admin)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestPayOwnershipChecks(t *testing.T) {
	f := newPayFixture(t)
	ctx := context.Background()

	_, err := f.l.Pay(ctx, f.other, f.input("500", validCard))
	assert.ErrorIs(t, err, ErrNotOwner)

	receipt, err := f.l.Pay(ctx, f.admin, f.input("500", validCard))
	require.NoError(t, err)

	payments, err := f.l.ListPayments(ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, receipt.PaymentID, payments[0].ID)
	assert.Equal(t, f.resident.ID, payments[0].UserID, "payer defaults to the occupant")
}

func TestPayOrderOfChecks(t *testing.T) {
	f := newPayFixture(t)
	ctx := context.Background()

	// ownership is checked before the amount and card
	_, err := f.l.Pay(ctx, f.other, f.input("1", "123"))
	assert.ErrorIs(t, err, ErrNotOwner)

	// amount is checked before the card
	_, err = f.l.Pay(ctx, f.resident, f.input("1", "123"))
	assert.ErrorIs(t, err, ErrAmountMismatch)
}

func TestPayUnknownDue(t *testing.T) {
	f := newPayFixture(t)

	_, err := f.l.Pay(context.Background(), f.resident, PaymentInput{DueID: "999", CardNumber: validCard, Amount: "500"})
	assert.ErrorIs(t, err, ErrDueNotFound)

	_, err = f.l.Pay(context.Background(), f.resident, PaymentInput{CardNumber: validCard, Amount: "500"})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestPayMissingApartmentIsDataIntegrity(t *testing.T) {
	f := newPayFixture(t)
	ctx := context.Background()
	err := f.l.store.Update(ctx, func(lg *models.Ledger) error {
		lg.Apartments = lg.Apartments[1:]
		return nil
	})
	require.NoError(t, err)

	_, err = f.l.Pay(ctx, f.admin, f.input("500", validCard))
	assert.ErrorIs(t, err, ErrDataIntegrity)
	assert.Equal(t, KindInternal, KindOf(err))
}

func TestListPaymentsScoping(t *testing.T) {
	f := newPayFixture(t)
	ctx := context.Background()
	_, err := f.l.Pay(ctx, f.resident, f.input("500", validCard))
	require.NoError(t, err)

	mine, err := f.l.ListPayments(ctx, f.resident)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := f.l.ListPayments(ctx, f.other)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	all, err := f.l.ListPayments(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
