package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/arzan03/CondoLedger/internal/db"
	"github.com/arzan03/CondoLedger/internal/models"
)

// OptionalID distinguishes an absent field from an explicit null (or "").
type OptionalID struct {
	Set   bool
	Valid bool
	Value int
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		o.Valid, o.Value = false, 0
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	id, ok := parseID(n)
	if !ok {
		return errors.New("id must be a positive integer")
	}
	o.Valid, o.Value = true, id
	return nil
}

func (o OptionalID) ptr() *int {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

type ApartmentInput struct {
	Number json.Number  `json:"number"`
	UserID OptionalID   `json:"userId"`
	Status *json.Number `json:"status"`
}

func parseApartmentNumber(raw json.Number) (int, error) {
	n, ok := parseID(raw)
	if !ok {
		return 0, validation("apartment number must be a positive integer")
	}
	return n, nil
}

func parseStatus(raw *json.Number) error {
	if raw == nil {
		return nil
	}
	switch strings.TrimSpace(raw.String()) {
	case "0", "1":
		return nil
	}
	return ErrInvalidStatus
}

// applyOccupancy keeps status consistent with the occupant: an apartment is
// occupied exactly when a user is assigned.
func applyOccupancy(a *models.Apartment) {
	if a.UserID != nil {
		a.Status = models.StatusOccupied
	} else {
		a.Status = models.StatusVacant
	}
}

func (l *Ledger) ListApartments(ctx context.Context) ([]models.ApartmentView, error) {
	var out []models.ApartmentView
	err := l.store.View(ctx, func(lg *models.Ledger) error {
		out = make([]models.ApartmentView, 0, len(lg.Apartments))
		for _, a := range lg.Apartments {
			v := models.ApartmentView{Apartment: *a}
			if a.UserID != nil {
				if u := lg.UserByID(*a.UserID); u != nil {
					name, phone := u.Name, u.Phone
					v.UserName, v.UserPhone = &name, &phone
				}
			}
			out = append(out, v)
		}
		return nil
	})
	return out, err
}

func (l *Ledger) CreateApartment(ctx context.Context, in ApartmentInput) (models.Apartment, error) {
	if strings.TrimSpace(in.Number.String()) == "" {
		return models.Apartment{}, validation("apartment number is required")
	}
	number, err := parseApartmentNumber(in.Number)
	if err != nil {
		return models.Apartment{}, err
	}
	if err := parseStatus(in.Status); err != nil {
		return models.Apartment{}, err
	}

	var created models.Apartment
	err = l.store.Update(ctx, func(lg *models.Ledger) error {
		for _, a := range lg.Apartments {
			if a.Number == number {
				return ErrDuplicateNumber
			}
		}
		if in.UserID.Valid && lg.UserByID(in.UserID.Value) == nil {
			return ErrUnknownOccupant
		}
		a := &models.Apartment{
			ID:     db.NextID(lg, models.KindApartments),
			Number: number,
			UserID: in.UserID.ptr(),
		}
		applyOccupancy(a)
		lg.Apartments = append(lg.Apartments, a)
		created = *a
		return nil
	})
	if err != nil {
		return models.Apartment{}, err
	}

	l.log.WithField("apartment_id", created.ID).WithField("number", created.Number).Info("apartment created")
	return created, nil
}

func (l *Ledger) UpdateApartment(ctx context.Context, id int, in ApartmentInput) error {
	hasNumber := strings.TrimSpace(in.Number.String()) != ""
	var number int
	if hasNumber {
		n, err := parseApartmentNumber(in.Number)
		if err != nil {
			return err
		}
		number = n
	}
	if err := parseStatus(in.Status); err != nil {
		return err
	}

	err := l.store.Update(ctx, func(lg *models.Ledger) error {
		apt := lg.ApartmentByID(id)
		if apt == nil {
			return ErrApartmentNotFound
		}
		if hasNumber {
			for _, a := range lg.Apartments {
				if a.Number == number && a.ID != id {
					return ErrDuplicateNumber
				}
			}
			apt.Number = number
		}
		if in.UserID.Set {
			if in.UserID.Valid && lg.UserByID(in.UserID.Value) == nil {
				return ErrUnknownOccupant
			}
			apt.UserID = in.UserID.ptr()
		}
		applyOccupancy(apt)
		return nil
	})
	if err != nil {
		return err
	}
	l.log.WithField("apartment_id", id).Info("apartment updated")
	return nil
}

// DeleteApartment removes an apartment together with its dues.
func (l *Ledger) DeleteApartment(ctx context.Context, id int) error {
	removed := 0
	err := l.store.Update(ctx, func(lg *models.Ledger) error {
		if lg.ApartmentByID(id) == nil {
			return ErrApartmentNotFound
		}
		dues := lg.Dues[:0]
		for _, d := range lg.Dues {
			if d.ApartmentID == id {
				removed++
				continue
			}
			dues = append(dues, d)
		}
		lg.Dues = dues

		apts := lg.Apartments[:0]
		for _, a := range lg.Apartments {
			if a.ID != id {
				apts = append(apts, a)
			}
		}
		lg.Apartments = apts
		return nil
	})
	if err != nil {
		return err
	}
	l.log.WithField("apartment_id", id).WithField("dues_removed", removed).Info("apartment deleted")
	return nil
}
