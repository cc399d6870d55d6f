package services

import (
	"context"
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/arzan03/CondoLedger/internal/db"
	"github.com/arzan03/CondoLedger/internal/models"
)

func (l *Ledger) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.hashCost)
	return string(hash), err
}

// dummyHash is compared against when the phone is unknown, so failed logins
// take the same time whether or not the account exists.
func (l *Ledger) dummyHash() []byte {
	l.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("condo-ledger-unknown-user"), l.hashCost)
		if err != nil {
			l.log.WithError(err).Warn("generate dummy password hash")
		}
		l.dummy = hash
	})
	return l.dummy
}

// verifyPassword checks a password against the stored credential. legacy is
// true when the match came from a plaintext password that should be rehashed.
func verifyPassword(u *models.User, password string) (ok, legacy bool) {
	if u.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil, false
	}
	if u.Password != "" {
		return subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) == 1, true
	}
	return false, false
}

// Login authenticates a user by phone and password.
func (l *Ledger) Login(ctx context.Context, phone, password string) (models.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return models.User{}, validation("phone and password are required")
	}

	var (
		user   models.User
		legacy bool
	)
	err := l.store.View(ctx, func(lg *models.Ledger) error {
		u := lg.UserByPhone(phone)
		if u == nil {
			// spend the same bcrypt work as for a known phone
			_ = bcrypt.CompareHashAndPassword(l.dummyHash(), []byte(password))
			return ErrInvalidCredentials
		}
		ok, old := verifyPassword(u, password)
		if !ok {
			return ErrInvalidCredentials
		}
		user, legacy = *u, old
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	if legacy {
		l.upgradePassword(ctx, user.ID, password)
	}
	return user, nil
}

func (l *Ledger) upgradePassword(ctx context.Context, userID int, password string) {
	hash, err := l.hashPassword(password)
	if err != nil {
		l.log.WithError(err).Warn("hash legacy password")
		return
	}
	err = l.store.Update(ctx, func(lg *models.Ledger) error {
		if u := lg.UserByID(userID); u != nil {
			u.PasswordHash = hash
			u.Password = ""
		}
		return nil
	})
	if err != nil {
		l.log.WithError(err).WithField("user_id", userID).Warn("upgrade legacy password")
		return
	}
	l.log.WithField("user_id", userID).Info("legacy password upgraded")
}

// CurrentUser returns the live user behind a session.
func (l *Ledger) CurrentUser(ctx context.Context, id int) (models.User, error) {
	var user models.User
	err := l.store.View(ctx, func(lg *models.Ledger) error {
		u := lg.UserByID(id)
		if u == nil {
			return ErrUnauthenticated
		}
		user = *u
		return nil
	})
	return user, err
}

// EnsureAdmin creates an administrator when the ledger has no users yet.
func (l *Ledger) EnsureAdmin(ctx context.Context, name, phone, password string) (bool, error) {
	hash, err := l.hashPassword(password)
	if err != nil {
		return false, err
	}
	created := false
	err = l.store.Update(ctx, func(lg *models.Ledger) error {
		if len(lg.Users) > 0 {
			return nil
		}
		lg.Users = append(lg.Users, &models.User{
			ID:           db.NextID(lg, models.KindUsers),
			Name:         name,
			Phone:        phone,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
		})
		created = true
		return nil
	})
	return created, err
}
