package alert

import (
	"context"
	"errors"
	"fmt"

	"github.com/elonfeng/techcast/pkg/present"
	"github.com/elonfeng/techcast/pkg/render"
)

// Notification announces a newly rendered forecast.
type Notification struct {
	Title       string         `json:"title"`
	Body        string         `json:"body"`
	Fingerprint string         `json:"fingerprint"`
	Cards       []present.Card `json:"cards"`
	Dropped     int            `json:"dropped"`
}

// NewNotification summarizes view using its top n cards.
func NewNotification(view *render.View, n int) *Notification {
	cards := view.Cards
	if n > 0 && len(cards) > n {
		cards = cards[:n]
	}
	body := fmt.Sprintf("Forecast updated for %d languages", len(view.Cards))
	if view.Notice != "" {
		body += " (" + view.Notice + ")"
	}
	return &Notification{
		Title:       "Tech stack forecast changed",
		Body:        body,
		Fingerprint: view.Fingerprint,
		Cards:       cards,
		Dropped:     view.Dropped,
	}
}

// Notifier delivers alerts to a specific destination.
type Notifier interface {
	Name() string
	Send(ctx context.Context, n *Notification) error
}

// Manager broadcasts notifications to all registered notifiers.
type Manager struct {
	notifiers []Notifier
}

// NewManager creates a new alert manager.
func NewManager(notifiers []Notifier) *Manager {
	return &Manager{notifiers: notifiers}
}

// HasNotifiers returns true if at least one notifier is configured.
func (m *Manager) HasNotifiers() bool {
	return len(m.notifiers) > 0
}

// Broadcast sends a notification to all registered notifiers.
func (m *Manager) Broadcast(ctx context.Context, n *Notification) error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", notifier.Name(), err))
		}
	}
	return errors.Join(errs...)
}
