package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aponomy/schema-ehnemark/internal/models"
)

// ScheduleRepo provides read access to the confirmed schedule and its day
// comments. All writes to these tables go through the proposal merge.
type ScheduleRepo struct {
	db *pgxpool.Pool
}

func NewScheduleRepo(db *pgxpool.Pool) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

// Entries returns the confirmed switch list ordered by date ascending.
func (r *ScheduleRepo) Entries(ctx context.Context) ([]models.ScheduleEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, switch_date, parent_after
		FROM schedule
		ORDER BY switch_date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying schedule: %w", err)
	}
	defer rows.Close()

	entries := []models.ScheduleEntry{}
	for rows.Next() {
		var e models.ScheduleEntry
		var switchDate time.Time
		if err := rows.Scan(&e.ID, &switchDate, &e.ParentAfter); err != nil {
			return nil, fmt.Errorf("scanning schedule entry: %w", err)
		}
		e.SwitchDate = switchDate.Format(models.DateFormat)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DayComments returns the confirmed per-day notes ordered by date.
func (r *ScheduleRepo) DayComments(ctx context.Context) ([]models.DayComment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT date, comment, author
		FROM day_comments
		ORDER BY date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying day comments: %w", err)
	}
	defer rows.Close()

	comments := []models.DayComment{}
	for rows.Next() {
		var c models.DayComment
		var date time.Time
		if err := rows.Scan(&date, &c.Comment, &c.Author); err != nil {
			return nil, fmt.Errorf("scanning day comment: %w", err)
		}
		c.Date = date.Format(models.DateFormat)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
