// Package notify sends handoff reminders to both parents the evening
// before a custody switch.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/aponomy/schema-ehnemark/internal/models"
	"github.com/aponomy/schema-ehnemark/internal/schedule"
)

// ScheduleSource provides the confirmed switch list.
type ScheduleSource interface {
	Entries(ctx context.Context) ([]models.ScheduleEntry, error)
}

// UserSource provides the recipients.
type UserSource interface {
	List(ctx context.Context) ([]models.User, error)
}

// Notifier delivers one reminder to one user.
type Notifier interface {
	Notify(ctx context.Context, user models.User, message string) error
}

// LogNotifier writes reminders to the server log. Users carry a phone
// number, so an SMS-backed Notifier can drop in here.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, user models.User, message string) error {
	phone := "-"
	if user.Phone != nil {
		phone = *user.Phone
	}
	log.Printf("reminder for %s (%s): %s", user.Username, phone, message)
	return nil
}

// Reminder checks whether tomorrow is a switch day and notifies both
// parents if so.
type Reminder struct {
	schedules ScheduleSource
	users     UserSource
	notifier  Notifier
	now       func() time.Time
}

func NewReminder(schedules ScheduleSource, users UserSource, notifier Notifier) *Reminder {
	return &Reminder{
		schedules: schedules,
		users:     users,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Run performs one reminder check. It is a no-op on days not followed by
// a switch.
func (r *Reminder) Run(ctx context.Context) error {
	entries, err := r.schedules.Entries(ctx)
	if err != nil {
		return fmt.Errorf("loading schedule: %w", err)
	}

	tomorrow := r.now().AddDate(0, 0, 1).Format(models.DateFormat)
	if !schedule.IsSwitchDay(tomorrow, entries) {
		return nil
	}
	next := schedule.ParentOn(tomorrow, entries)

	users, err := r.users.List(ctx)
	if err != nil {
		return fmt.Errorf("loading users: %w", err)
	}

	message := fmt.Sprintf("Custody switches to %s on %s", next, tomorrow)
	var errs []error
	for _, u := range users {
		if err := r.notifier.Notify(ctx, u, message); err != nil {
			errs = append(errs, fmt.Errorf("notifying %s: %w", u.Username, err))
		}
	}
	return errors.Join(errs...)
}

// Start registers the reminder on the given cron runner.
func (r *Reminder) Start(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := r.Run(ctx); err != nil {
			log.Printf("handoff reminder failed: %v", err)
		}
	})
}
