package services

import (
	"context"
	"sort"
	"strings"

	"github.com/arzan03/CondoLedger/internal/db"
	"github.com/arzan03/CondoLedger/internal/models"
)

type AnnouncementInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Date  string `json:"date"`
}

// ListAnnouncements returns announcements newest first.
func (l *Ledger) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	var out []models.Announcement
	err := l.store.View(ctx, func(lg *models.Ledger) error {
		out = make([]models.Announcement, 0, len(lg.Announcements))
		for _, a := range lg.Announcements {
			out = append(out, *a)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, err
}

func (l *Ledger) CreateAnnouncement(ctx context.Context, in AnnouncementInput) (models.Announcement, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Body) == "" {
		return models.Announcement{}, validation("title and body are required")
	}
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = l.now().Format("2006-01-02")
	}

	var created models.Announcement
	err := l.store.Update(ctx, func(lg *models.Ledger) error {
		a := &models.Announcement{
			ID:    db.NextID(lg, models.KindAnnouncements),
			Title: title,
			Body:  in.Body,
			Date:  date,
		}
		lg.Announcements = append(lg.Announcements, a)
		created = *a
		return nil
	})
	if err != nil {
		return models.Announcement{}, err
	}
	l.log.WithField("announcement_id", created.ID).Info("announcement published")
	return created, nil
}
