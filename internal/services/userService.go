package services

import (
	"context"
	"strings"

	"github.com/arzan03/CondoLedger/internal/db"
	"github.com/arzan03/CondoLedger/internal/models"
)

// UserInput carries create and update fields. On update, empty fields are left unchanged.
type UserInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

func (in *UserInput) trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Role = strings.TrimSpace(in.Role)
}

func validRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleResident
}

func (l *Ledger) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	var users []models.PublicUser
	err := l.store.View(ctx, func(lg *models.Ledger) error {
		users = make([]models.PublicUser, 0, len(lg.Users))
		for _, u := range lg.Users {
			users = append(users, u.Public())
		}
		return nil
	})
	return users, err
}

func (l *Ledger) CreateUser(ctx context.Context, in UserInput) (models.PublicUser, error) {
	in.trim()
	if in.Name == "" || in.Phone == "" || in.Role == "" || in.Password == "" {
		return models.PublicUser{}, validation("name, phone, role and password are required")
	}
	if !validRole(in.Role) {
		return models.PublicUser{}, ErrInvalidRole
	}
	hash, err := l.hashPassword(in.Password)
	if err != nil {
		return models.PublicUser{}, err
	}

	var created models.User
	err = l.store.Update(ctx, func(lg *models.Ledger) error {
		if lg.UserByPhone(in.Phone) != nil {
			return ErrDuplicatePhone
		}
		u := &models.User{
			ID:           db.NextID(lg, models.KindUsers),
			Name:         in.Name,
			Phone:        in.Phone,
			PasswordHash: hash,
			Role:         in.Role,
		}
		lg.Users = append(lg.Users, u)
		created = *u
		return nil
	})
	if err != nil {
		return models.PublicUser{}, err
	}

	l.log.WithField("user_id", created.ID).WithField("role", created.Role).Info("user created")
	return created.Public(), nil
}

func (l *Ledger) UpdateUser(ctx context.Context, id int, in UserInput) error {
	in.trim()
	if in.Role != "" && !validRole(in.Role) {
		return ErrInvalidRole
	}
	var hash string
	if in.Password != "" {
		h, err := l.hashPassword(in.Password)
		if err != nil {
			return err
		}
		hash = h
	}

	err := l.store.Update(ctx, func(lg *models.Ledger) error {
		target := lg.UserByID(id)
		if target == nil {
			return ErrUserNotFound
		}
		if in.Phone != "" {
			if other := lg.UserByPhone(in.Phone); other != nil && other.ID != id {
				return ErrDuplicatePhone
			}
			target.Phone = in.Phone
		}
		if in.Name != "" {
			target.Name = in.Name
		}
		if in.Role != "" {
			target.Role = in.Role
		}
		if hash != "" {
			target.PasswordHash = hash
			target.Password = ""
		}
		return nil
	})
	if err != nil {
		return err
	}
	l.log.WithField("user_id", id).Info("user updated")
	return nil
}

// DeleteUser removes a user and vacates every apartment they occupied.
func (l *Ledger) DeleteUser(ctx context.Context, id int) error {
	vacated := 0
	err := l.store.Update(ctx, func(lg *models.Ledger) error {
		if lg.UserByID(id) == nil {
			return ErrUserNotFound
		}
		for _, a := range lg.ApartmentsOf(id) {
			a.UserID = nil
			a.Status = models.StatusVacant
			vacated++
		}
		kept := lg.Users[:0]
		for _, u := range lg.Users {
			if u.ID != id {
				kept = append(kept, u)
			}
		}
		lg.Users = kept
		return nil
	})
	if err != nil {
		return err
	}
	l.log.WithField("user_id", id).WithField("vacated", vacated).Info("user deleted")
	return nil
}
