package services

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/arzan03/CondoLedger/internal/db"
	"github.com/arzan03/CondoLedger/internal/models"
)

const validCard = "4539148803436467"

var fixedNow = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

func newTestLedger(t *testing.T, opts ...Option) (*Ledger, *db.DB) {
	t.Helper()
	backend, err := db.NewFileBackend(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	store := db.New(backend)
	opts = append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithHashCost(bcrypt.MinCost),
	}, opts...)
	return NewLedger(store, opts...), store
}

func mustUser(t *testing.T, l *Ledger, name, phone, role string) models.User {
	t.Helper()
	u, err := l.CreateUser(context.Background(), UserInput{Name: name, Phone: phone, Role: role, Password: "secret"})
	require.NoError(t, err)
	return models.User{ID: u.ID, Name: u.Name, Phone: u.Phone, Role: u.Role}
}

func mustApartment(t *testing.T, l *Ledger, number int, occupant *models.User) models.Apartment {
	t.Helper()
	in := ApartmentInput{Number: json.Number(strconv.Itoa(number))}
	if occupant != nil {
		in.UserID = OptionalID{Set: true, Valid: true, Value: occupant.ID}
	}
	a, err := l.CreateApartment(context.Background(), in)
	require.NoError(t, err)
	return a
}

func applyDues(t *testing.T, l *Ledger, period, amount string) int {
	t.Helper()
	n, err := l.ApplyDues(context.Background(), ApplyDuesInput{Period: period, Amount: json.Number(amount)})
	require.NoError(t, err)
	return n
}
