// Package proposal implements the consent workflow that turns a draft
// schedule into the confirmed one.
package proposal

import (
	"context"
	"errors"
	"strings"

	"github.com/aponomy/schema-ehnemark/internal/models"
)

var (
	ErrProposalExists      = errors.New("proposal already exists")
	ErrNoActiveProposal    = errors.New("no active proposal")
	ErrScheduleRequired    = errors.New("schedule_data required")
	ErrDayCommentsRequired = errors.New("day_comments required")
	ErrCommentRequired     = errors.New("comment required")
	ErrNotOwner            = errors.New("can only modify your own proposal")
	ErrNotCounterpart      = errors.New("can only respond to the other person's proposal")
	ErrEmptyDraft          = errors.New("proposal has no data")
	ErrPolicyMismatch      = errors.New("action not available under this consent policy")
	ErrUnknownAction       = errors.New("unknown action")
)

// Store is the persistence surface for the single active proposal and its
// comment log.
type Store interface {
	// Active returns the active proposal with its draft loaded, or nil
	// when none exists.
	Active(ctx context.Context) (*models.Proposal, error)

	// CreateFromConfirmed opens a new active proposal whose draft is a
	// copy of the confirmed schedule and day comments, with both consent
	// flags false and the comment log cleared.
	CreateFromConfirmed(ctx context.Context, createdBy models.Party) error

	// ReplaceEntries overwrites the draft schedule and clears both
	// consent flags.
	ReplaceEntries(ctx context.Context, proposalID int64, updatedBy models.Party, entries []models.ScheduleEntry) error

	// ReplaceDayComments overwrites the draft day comments and clears
	// both consent flags.
	ReplaceDayComments(ctx context.Context, proposalID int64, updatedBy models.Party, comments []models.DayComment) error

	// AddComment appends to the comment log with a server timestamp.
	AddComment(ctx context.Context, author models.Party, text string) error

	// Comments returns the log ordered by creation time ascending.
	Comments(ctx context.Context) ([]models.ProposalComment, error)

	// Accept sets the party's consent flag on the active proposal and, if
	// both flags are then true (or mergeOnFirst is set), replaces the
	// confirmed schedule with the draft, deactivates the proposal and
	// clears the comment log, all in one transaction. Returns whether the
	// merge ran. Returns ErrNoActiveProposal when nothing is active.
	Accept(ctx context.Context, party models.Party, mergeOnFirst bool) (bool, error)

	// Discard deactivates the proposal and clears the comment log without
	// touching the confirmed schedule.
	Discard(ctx context.Context, proposalID int64) error
}

// DraftStore is the persistence surface for the duel policy's per-owner
// drafts.
type DraftStore interface {
	Drafts(ctx context.Context) ([]models.DraftProposal, error)

	// ActivateFromConfirmed opens the owner's draft with a copy of the
	// confirmed schedule, clearing the sent flag.
	ActivateFromConfirmed(ctx context.Context, owner models.Party) error

	// Deactivate closes the owner's draft and clears its data.
	Deactivate(ctx context.Context, owner models.Party) error

	// ReplaceDraft overwrites the owner's draft schedule.
	ReplaceDraft(ctx context.Context, owner models.Party, entries []models.ScheduleEntry) error

	// CopyFromConfirmed refreshes the owner's draft from the confirmed
	// schedule without changing activation or sent state.
	CopyFromConfirmed(ctx context.Context, owner models.Party) error

	// CopyFromOther copies the counterpart's draft into the owner's,
	// without changing activation or sent state. Returns ErrEmptyDraft
	// when the counterpart has no data.
	CopyFromOther(ctx context.Context, owner models.Party) error

	// MarkSent flags the owner's draft as visible to the counterpart.
	MarkSent(ctx context.Context, owner models.Party) error

	// Adopt copies the owner's draft into the actor's own draft and
	// activates it. Returns ErrEmptyDraft when the source has no data.
	Adopt(ctx context.Context, actor, owner models.Party) error

	// Promote replaces the confirmed schedule with the owner's draft and
	// deactivates both drafts. Returns ErrEmptyDraft when there is no
	// data to promote.
	Promote(ctx context.Context, owner models.Party) error
}

// Engine applies the consent rules for the configured policy on top of a
// Store (and, under the duel policy, a DraftStore).
type Engine struct {
	store  Store
	drafts DraftStore
	policy ConsentPolicy
}

func NewEngine(store Store, drafts DraftStore, policy ConsentPolicy) *Engine {
	return &Engine{store: store, drafts: drafts, policy: policy}
}

func (e *Engine) Policy() ConsentPolicy { return e.policy }

// Current returns the active proposal (nil when none) and the comment log.
func (e *Engine) Current(ctx context.Context) (*models.Proposal, []models.ProposalComment, error) {
	p, err := e.store.Active(ctx)
	if err != nil {
		return nil, nil, err
	}
	comments, err := e.store.Comments(ctx)
	if err != nil {
		return nil, nil, err
	}
	return p, comments, nil
}

// Create opens a new proposal seeded from the confirmed schedule. Fails
// when one is already active.
func (e *Engine) Create(ctx context.Context, party models.Party) error {
	existing, err := e.store.Active(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrProposalExists
	}
	return e.store.CreateFromConfirmed(ctx, party)
}

// UpdateSchedule overwrites the draft schedule. The list must be present,
// possibly empty; entries are stored as given, duplicate dates and all.
// Consent already given is cleared.
func (e *Engine) UpdateSchedule(ctx context.Context, party models.Party, entries []models.ScheduleEntry) error {
	if entries == nil {
		return ErrScheduleRequired
	}
	p, err := e.requireActive(ctx)
	if err != nil {
		return err
	}
	return e.store.ReplaceEntries(ctx, p.ID, party, entries)
}

// UpdateDayComments overwrites the draft day comments under the same
// contract as UpdateSchedule.
func (e *Engine) UpdateDayComments(ctx context.Context, party models.Party, comments []models.DayComment) error {
	if comments == nil {
		return ErrDayCommentsRequired
	}
	p, err := e.requireActive(ctx)
	if err != nil {
		return err
	}
	return e.store.ReplaceDayComments(ctx, p.ID, party, comments)
}

// AddComment appends to the discussion log. Consent flags are untouched.
func (e *Engine) AddComment(ctx context.Context, party models.Party, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrCommentRequired
	}
	if _, err := e.requireActive(ctx); err != nil {
		return err
	}
	return e.store.AddComment(ctx, party, text)
}

// Accept records the acting party's consent. Under the bilateral policy
// the merge runs only once both parties have accepted; under the single
// policy it runs immediately. Returns whether the confirmed schedule was
// replaced.
func (e *Engine) Accept(ctx context.Context, party models.Party) (bool, error) {
	if e.policy == PolicyDuel {
		return false, ErrPolicyMismatch
	}
	return e.store.Accept(ctx, party, e.policy == PolicySingle)
}

// Delete discards the active proposal. The confirmed schedule is not
// touched.
func (e *Engine) Delete(ctx context.Context) error {
	p, err := e.requireActive(ctx)
	if err != nil {
		return err
	}
	return e.store.Discard(ctx, p.ID)
}

func (e *Engine) requireActive(ctx context.Context) (*models.Proposal, error) {
	p, err := e.store.Active(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNoActiveProposal
	}
	return p, nil
}
