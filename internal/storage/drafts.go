package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aponomy/schema-ehnemark/internal/models"
	"github.com/aponomy/schema-ehnemark/internal/proposal"
)

// DraftRepo persists the duel policy's per-owner drafts. The draft
// schedule lives in a single JSON text column because duel drafts are
// copied whole between rows; a malformed blob reads as an empty draft
// rather than an error. Implements proposal.DraftStore.
type DraftRepo struct {
	db *pgxpool.Pool
}

func NewDraftRepo(db *pgxpool.Pool) *DraftRepo {
	return &DraftRepo{db: db}
}

func decodeDraft(blob *string) []models.ScheduleEntry {
	if blob == nil || *blob == "" {
		return []models.ScheduleEntry{}
	}
	var entries []models.ScheduleEntry
	if err := json.Unmarshal([]byte(*blob), &entries); err != nil {
		return []models.ScheduleEntry{}
	}
	return entries
}

func encodeDraft(entries []models.ScheduleEntry) (string, error) {
	b, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encoding draft: %w", err)
	}
	return string(b), nil
}

// Drafts returns both drafts ordered by owner.
func (r *DraftRepo) Drafts(ctx context.Context) ([]models.DraftProposal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, owner, is_active, is_sent, schedule_data, updated_at
		FROM draft_proposals
		ORDER BY owner
	`)
	if err != nil {
		return nil, fmt.Errorf("querying drafts: %w", err)
	}
	defer rows.Close()

	drafts := []models.DraftProposal{}
	for rows.Next() {
		var d models.DraftProposal
		var owner string
		var blob *string
		if err := rows.Scan(&d.ID, &owner, &d.IsActive, &d.IsSent, &blob, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning draft: %w", err)
		}
		d.Owner = models.Party(owner)
		d.ScheduleData = decodeDraft(blob)
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

func (r *DraftRepo) blob(ctx context.Context, owner models.Party) (*string, error) {
	var blob *string
	err := r.db.QueryRow(ctx, `
		SELECT schedule_data FROM draft_proposals WHERE owner = $1
	`, string(owner)).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, proposal.ErrEmptyDraft
	}
	if err != nil {
		return nil, fmt.Errorf("querying draft data: %w", err)
	}
	return blob, nil
}

func confirmedBlob(ctx context.Context, db *pgxpool.Pool) (string, error) {
	repo := NewScheduleRepo(db)
	entries, err := repo.Entries(ctx)
	if err != nil {
		return "", err
	}
	for i := range entries {
		entries[i].ID = 0
	}
	return encodeDraft(entries)
}

// ActivateFromConfirmed opens the owner's draft seeded from the confirmed
// schedule and clears the sent flag.
func (r *DraftRepo) ActivateFromConfirmed(ctx context.Context, owner models.Party) error {
	blob, err := confirmedBlob(ctx, r.db)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		UPDATE draft_proposals
		SET is_active = true, is_sent = false, schedule_data = $1, updated_at = now()
		WHERE owner = $2
	`, blob, string(owner))
	if err != nil {
		return fmt.Errorf("activating draft: %w", err)
	}
	return nil
}

// Deactivate closes the owner's draft and drops its data.
func (r *DraftRepo) Deactivate(ctx context.Context, owner models.Party) error {
	_, err := r.db.Exec(ctx, `
		UPDATE draft_proposals
		SET is_active = false, is_sent = false, schedule_data = NULL, updated_at = now()
		WHERE owner = $1
	`, string(owner))
	if err != nil {
		return fmt.Errorf("deactivating draft: %w", err)
	}
	return nil
}

// ReplaceDraft overwrites the owner's draft schedule.
func (r *DraftRepo) ReplaceDraft(ctx context.Context, owner models.Party, entries []models.ScheduleEntry) error {
	blob, err := encodeDraft(entries)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		UPDATE draft_proposals
		SET schedule_data = $1, updated_at = now()
		WHERE owner = $2
	`, blob, string(owner))
	if err != nil {
		return fmt.Errorf("updating draft: %w", err)
	}
	return nil
}

// CopyFromConfirmed refreshes the owner's draft data from the confirmed
// schedule. Activation and sent state are untouched.
func (r *DraftRepo) CopyFromConfirmed(ctx context.Context, owner models.Party) error {
	blob, err := confirmedBlob(ctx, r.db)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		UPDATE draft_proposals
		SET schedule_data = $1, updated_at = now()
		WHERE owner = $2
	`, blob, string(owner))
	if err != nil {
		return fmt.Errorf("copying confirmed schedule: %w", err)
	}
	return nil
}

// CopyFromOther copies the counterpart's draft data into the owner's.
// Activation and sent state are untouched.
func (r *DraftRepo) CopyFromOther(ctx context.Context, owner models.Party) error {
	blob, err := r.blob(ctx, owner.Other())
	if err != nil {
		return err
	}
	if blob == nil || *blob == "" {
		return proposal.ErrEmptyDraft
	}
	_, err = r.db.Exec(ctx, `
		UPDATE draft_proposals
		SET schedule_data = $1, updated_at = now()
		WHERE owner = $2
	`, *blob, string(owner))
	if err != nil {
		return fmt.Errorf("copying other draft: %w", err)
	}
	return nil
}

// MarkSent flags the owner's draft as visible to the counterpart.
func (r *DraftRepo) MarkSent(ctx context.Context, owner models.Party) error {
	_, err := r.db.Exec(ctx, `
		UPDATE draft_proposals SET is_sent = true, updated_at = now() WHERE owner = $1
	`, string(owner))
	if err != nil {
		return fmt.Errorf("marking draft sent: %w", err)
	}
	return nil
}

// Adopt copies the owner's draft into the actor's own row and activates
// it, so the actor can counter-propose.
func (r *DraftRepo) Adopt(ctx context.Context, actor, owner models.Party) error {
	blob, err := r.blob(ctx, owner)
	if err != nil {
		return err
	}
	if blob == nil || *blob == "" {
		return proposal.ErrEmptyDraft
	}
	_, err = r.db.Exec(ctx, `
		UPDATE draft_proposals
		SET is_active = true, is_sent = false, schedule_data = $1, updated_at = now()
		WHERE owner = $2
	`, *blob, string(actor))
	if err != nil {
		return fmt.Errorf("adopting draft: %w", err)
	}
	return nil
}

// Promote replaces the confirmed schedule with the owner's draft and
// deactivates both drafts.
func (r *DraftRepo) Promote(ctx context.Context, owner models.Party) error {
	blob, err := r.blob(ctx, owner)
	if err != nil {
		return err
	}
	if blob == nil || *blob == "" {
		return proposal.ErrEmptyDraft
	}
	entries := decodeDraft(blob)

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM schedule`); err != nil {
			return err
		}
		for _, e := range entries {
			// Per-row upsert: a duplicate date later in the draft
			// overwrites the earlier one.
			if _, err := tx.Exec(ctx, `
				INSERT INTO schedule (switch_date, parent_after)
				VALUES ($1, $2)
				ON CONFLICT (switch_date) DO UPDATE SET parent_after = EXCLUDED.parent_after
			`, e.SwitchDate, e.ParentAfter); err != nil {
				return err
			}
		}
		_, err := tx.Exec(ctx, `
			UPDATE draft_proposals
			SET is_active = false, is_sent = false, schedule_data = NULL, updated_at = now()
		`)
		return err
	})
	if err != nil {
		return fmt.Errorf("promoting draft: %w", err)
	}
	return nil
}
