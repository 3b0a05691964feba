package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aponomy/schema-ehnemark/internal/models"
	"github.com/aponomy/schema-ehnemark/internal/proposal"
)

// ProposalRepo persists the single active proposal, its normalized draft
// rows and the shared comment log. It implements proposal.Store.
type ProposalRepo struct {
	db *pgxpool.Pool
}

func NewProposalRepo(db *pgxpool.Pool) *ProposalRepo {
	return &ProposalRepo{db: db}
}

// Active returns the active proposal with its draft loaded, or nil, nil.
func (r *ProposalRepo) Active(ctx context.Context) (*models.Proposal, error) {
	var p models.Proposal
	err := r.db.QueryRow(ctx, `
		SELECT id, is_active, created_by, last_updated_by,
		       jennifer_accepted, klas_accepted, created_at, updated_at
		FROM proposal
		WHERE is_active
		LIMIT 1
	`).Scan(
		&p.ID, &p.IsActive, &p.CreatedBy, &p.LastUpdatedBy,
		&p.JenniferAccepted, &p.KlasAccepted, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying proposal: %w", err)
	}

	if p.ScheduleData, err = r.draftEntries(ctx, p.ID); err != nil {
		return nil, err
	}
	if p.DayComments, err = r.draftDayComments(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProposalRepo) draftEntries(ctx context.Context, proposalID int64) ([]models.ScheduleEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT switch_date, parent_after
		FROM proposal_entries
		WHERE proposal_id = $1
		ORDER BY id
	`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("querying draft entries: %w", err)
	}
	defer rows.Close()

	entries := []models.ScheduleEntry{}
	for rows.Next() {
		var e models.ScheduleEntry
		var switchDate time.Time
		if err := rows.Scan(&switchDate, &e.ParentAfter); err != nil {
			return nil, fmt.Errorf("scanning draft entry: %w", err)
		}
		e.SwitchDate = switchDate.Format(models.DateFormat)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *ProposalRepo) draftDayComments(ctx context.Context, proposalID int64) ([]models.DayComment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT date, comment, author
		FROM proposal_day_comments
		WHERE proposal_id = $1
		ORDER BY id
	`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("querying draft day comments: %w", err)
	}
	defer rows.Close()

	comments := []models.DayComment{}
	for rows.Next() {
		var c models.DayComment
		var date time.Time
		if err := rows.Scan(&date, &c.Comment, &c.Author); err != nil {
			return nil, fmt.Errorf("scanning draft day comment: %w", err)
		}
		c.Date = date.Format(models.DateFormat)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CreateFromConfirmed opens a new proposal seeded from the confirmed
// schedule and day comments, and clears the comment log.
func (r *ProposalRepo) CreateFromConfirmed(ctx context.Context, createdBy models.Party) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO proposal (is_active, created_by, last_updated_by)
			VALUES (true, $1, $1)
			RETURNING id
		`, string(createdBy)).Scan(&id)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO proposal_entries (proposal_id, switch_date, parent_after)
			SELECT $1, switch_date, parent_after FROM schedule ORDER BY switch_date
		`, id); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO proposal_day_comments (proposal_id, date, comment, author)
			SELECT $1, date, comment, author FROM day_comments ORDER BY date
		`, id); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `DELETE FROM proposal_comments`)
		return err
	})
	if err != nil {
		return fmt.Errorf("creating proposal: %w", err)
	}
	return nil
}

// ReplaceEntries overwrites the draft schedule and resets both consent
// flags. Duplicate dates are stored as given; the merge keeps the last.
func (r *ProposalRepo) ReplaceEntries(ctx context.Context, proposalID int64, updatedBy models.Party, entries []models.ScheduleEntry) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM proposal_entries WHERE proposal_id = $1`, proposalID); err != nil {
			return err
		}
		for _, e := range entries {
			if _, err := tx.Exec(ctx, `
				INSERT INTO proposal_entries (proposal_id, switch_date, parent_after)
				VALUES ($1, $2, $3)
			`, proposalID, e.SwitchDate, e.ParentAfter); err != nil {
				return err
			}
		}
		return r.touch(ctx, tx, proposalID, updatedBy)
	})
	if err != nil {
		return fmt.Errorf("updating draft schedule: %w", err)
	}
	return nil
}

// ReplaceDayComments overwrites the draft day comments and resets both
// consent flags.
func (r *ProposalRepo) ReplaceDayComments(ctx context.Context, proposalID int64, updatedBy models.Party, comments []models.DayComment) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM proposal_day_comments WHERE proposal_id = $1`, proposalID); err != nil {
			return err
		}
		for _, c := range comments {
			if _, err := tx.Exec(ctx, `
				INSERT INTO proposal_day_comments (proposal_id, date, comment, author)
				VALUES ($1, $2, $3, $4)
			`, proposalID, c.Date, c.Comment, c.Author); err != nil {
				return err
			}
		}
		return r.touch(ctx, tx, proposalID, updatedBy)
	})
	if err != nil {
		return fmt.Errorf("updating draft day comments: %w", err)
	}
	return nil
}

// touch records the editor and clears consent on both sides. Consent never
// survives a content change.
func (r *ProposalRepo) touch(ctx context.Context, tx pgx.Tx, proposalID int64, updatedBy models.Party) error {
	_, err := tx.Exec(ctx, `
		UPDATE proposal
		SET last_updated_by = $2,
		    jennifer_accepted = false,
		    klas_accepted = false,
		    updated_at = now()
		WHERE id = $1
	`, proposalID, string(updatedBy))
	return err
}

// AddComment appends to the comment log with a server timestamp.
func (r *ProposalRepo) AddComment(ctx context.Context, author models.Party, text string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO proposal_comments (author, comment) VALUES ($1, $2)
	`, string(author), text)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}
	return nil
}

// Comments returns the log ordered by creation time ascending.
func (r *ProposalRepo) Comments(ctx context.Context) ([]models.ProposalComment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, author, comment, created_at
		FROM proposal_comments
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying comments: %w", err)
	}
	defer rows.Close()

	comments := []models.ProposalComment{}
	for rows.Next() {
		var c models.ProposalComment
		if err := rows.Scan(&c.ID, &c.Author, &c.Comment, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Accept sets the party's consent flag with a single conditional UPDATE
// and reads both flags back from the same statement. Two racing accepts
// serialize on the row lock, so exactly one caller observes both flags
// true and runs the merge, inside the same transaction.
func (r *ProposalRepo) Accept(ctx context.Context, party models.Party, mergeOnFirst bool) (bool, error) {
	col := "klas_accepted"
	if party == models.PartyJennifer {
		col = "jennifer_accepted"
	}

	merged := false
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var id int64
		var jennifer, klas bool
		err := tx.QueryRow(ctx, `
			UPDATE proposal
			SET `+col+` = true, updated_at = now()
			WHERE is_active
			RETURNING id, jennifer_accepted, klas_accepted
		`).Scan(&id, &jennifer, &klas)
		if errors.Is(err, pgx.ErrNoRows) {
			return proposal.ErrNoActiveProposal
		}
		if err != nil {
			return err
		}

		if !mergeOnFirst && !(jennifer && klas) {
			return nil
		}
		merged = true
		return mergeDraft(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, proposal.ErrNoActiveProposal) {
			return false, err
		}
		return false, fmt.Errorf("accepting proposal: %w", err)
	}
	return merged, nil
}

// mergeDraft replaces the confirmed schedule and day comments with the
// draft (delete-all then insert-all), deactivates the proposal and clears
// the comment log. When the draft holds duplicate dates the last inserted
// row wins.
func mergeDraft(ctx context.Context, tx pgx.Tx, proposalID int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM schedule`); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO schedule (switch_date, parent_after)
		SELECT DISTINCT ON (switch_date) switch_date, parent_after
		FROM proposal_entries
		WHERE proposal_id = $1
		ORDER BY switch_date, id DESC
	`, proposalID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM day_comments`); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO day_comments (date, comment, author)
		SELECT DISTINCT ON (date) date, comment, author
		FROM proposal_day_comments
		WHERE proposal_id = $1
		ORDER BY date, id DESC
	`, proposalID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE proposal SET is_active = false, updated_at = now() WHERE id = $1
	`, proposalID); err != nil {
		return err
	}

	_, err := tx.Exec(ctx, `DELETE FROM proposal_comments`)
	return err
}

// Discard deactivates the proposal and clears the comment log, leaving the
// confirmed schedule untouched.
func (r *ProposalRepo) Discard(ctx context.Context, proposalID int64) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			UPDATE proposal SET is_active = false, updated_at = now() WHERE id = $1
		`, proposalID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM proposal_comments`)
		return err
	})
	if err != nil {
		return fmt.Errorf("discarding proposal: %w", err)
	}
	return nil
}
