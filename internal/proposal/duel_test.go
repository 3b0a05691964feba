package proposal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aponomy/schema-ehnemark/internal/models"
)

// fakeDraftStore mirrors the duel-mode draft rows in memory.
type fakeDraftStore struct {
	confirmed []models.ScheduleEntry
	rows      map[models.Party]*models.DraftProposal
}

func newFakeDraftStore(confirmed ...models.ScheduleEntry) *fakeDraftStore {
	return &fakeDraftStore{
		confirmed: confirmed,
		rows: map[models.Party]*models.DraftProposal{
			models.PartyJennifer: {ID: 1, Owner: models.PartyJennifer},
			models.PartyKlas:     {ID: 2, Owner: models.PartyKlas},
		},
	}
}

func (s *fakeDraftStore) Drafts(context.Context) ([]models.DraftProposal, error) {
	return []models.DraftProposal{*s.rows[models.PartyJennifer], *s.rows[models.PartyKlas]}, nil
}

func (s *fakeDraftStore) ActivateFromConfirmed(_ context.Context, owner models.Party) error {
	row := s.rows[owner]
	row.IsActive = true
	row.IsSent = false
	row.ScheduleData = append([]models.ScheduleEntry{}, s.confirmed...)
	return nil
}

func (s *fakeDraftStore) Deactivate(_ context.Context, owner models.Party) error {
	row := s.rows[owner]
	row.IsActive = false
	row.IsSent = false
	row.ScheduleData = nil
	return nil
}

func (s *fakeDraftStore) ReplaceDraft(_ context.Context, owner models.Party, entries []models.ScheduleEntry) error {
	s.rows[owner].ScheduleData = append([]models.ScheduleEntry{}, entries...)
	return nil
}

func (s *fakeDraftStore) CopyFromConfirmed(_ context.Context, owner models.Party) error {
	s.rows[owner].ScheduleData = append([]models.ScheduleEntry{}, s.confirmed...)
	return nil
}

func (s *fakeDraftStore) CopyFromOther(_ context.Context, owner models.Party) error {
	other := s.rows[owner.Other()]
	if len(other.ScheduleData) == 0 {
		return ErrEmptyDraft
	}
	s.rows[owner].ScheduleData = append([]models.ScheduleEntry{}, other.ScheduleData...)
	return nil
}

func (s *fakeDraftStore) MarkSent(_ context.Context, owner models.Party) error {
	s.rows[owner].IsSent = true
	return nil
}

func (s *fakeDraftStore) Adopt(_ context.Context, actor, owner models.Party) error {
	src := s.rows[owner]
	if len(src.ScheduleData) == 0 {
		return ErrEmptyDraft
	}
	dst := s.rows[actor]
	dst.IsActive = true
	dst.IsSent = false
	dst.ScheduleData = append([]models.ScheduleEntry{}, src.ScheduleData...)
	return nil
}

func (s *fakeDraftStore) Promote(_ context.Context, owner models.Party) error {
	src := s.rows[owner]
	if len(src.ScheduleData) == 0 {
		return ErrEmptyDraft
	}
	s.confirmed = append([]models.ScheduleEntry{}, src.ScheduleData...)
	for _, row := range s.rows {
		row.IsActive = false
		row.IsSent = false
		row.ScheduleData = nil
	}
	return nil
}

func newDuel(confirmed ...models.ScheduleEntry) (*Engine, *fakeDraftStore) {
	drafts := newFakeDraftStore(confirmed...)
	return NewEngine(&fakeStore{}, drafts, PolicyDuel), drafts
}

func TestDuelOwnerOnlyActionRejected(t *testing.T) {
	engine, _ := newDuel()

	err := engine.ApplyDraftAction(ctx, models.PartyJennifer, ActionUpdateSchedule, models.PartyKlas,
		[]models.ScheduleEntry{{SwitchDate: "2024-02-01", ParentAfter: "Klas"}})

	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestDuelRespondRequiresCounterpart(t *testing.T) {
	engine, _ := newDuel()

	err := engine.ApplyDraftAction(ctx, models.PartyKlas, ActionRespond, models.PartyKlas, nil)
	assert.ErrorIs(t, err, ErrNotCounterpart)

	err = engine.ApplyDraftAction(ctx, models.PartyKlas, ActionAcceptDraft, models.PartyKlas, nil)
	assert.ErrorIs(t, err, ErrNotCounterpart)
}

func TestDuelActivateSeedsFromConfirmed(t *testing.T) {
	confirmed := models.ScheduleEntry{SwitchDate: "2024-01-01", ParentAfter: "Klas"}
	engine, drafts := newDuel(confirmed)

	require.NoError(t, engine.ApplyDraftAction(ctx, models.PartyKlas, ActionActivate, models.PartyKlas, nil))

	row := drafts.rows[models.PartyKlas]
	assert.True(t, row.IsActive)
	assert.False(t, row.IsSent)
	assert.Equal(t, []models.ScheduleEntry{confirmed}, row.ScheduleData)
}

func TestDuelRespondCopiesDraft(t *testing.T) {
	engine, drafts := newDuel()
	draft := []models.ScheduleEntry{{SwitchDate: "2024-02-01", ParentAfter: "Jennifer"}}
	require.NoError(t, engine.ApplyDraftAction(ctx, models.PartyJennifer, ActionActivate, models.PartyJennifer, nil))
	require.NoError(t, engine.ApplyDraftAction(ctx, models.PartyJennifer, ActionUpdateSchedule, models.PartyJennifer, draft))
	require.NoError(t, engine.ApplyDraftAction(ctx, models.PartyJennifer, ActionSend, models.PartyJennifer, nil))

	require.NoError(t, engine.ApplyDraftAction(ctx, models.PartyKlas, ActionRespond, models.PartyJennifer, nil))

	row := drafts.rows[models.PartyKlas]
	assert.True(t, row.IsActive)
	assert.Equal(t, draft, row.ScheduleData)
}

func TestDuelAcceptPromotesAndDeactivatesBoth(t *testing.T) {
	engine, drafts := newDuel(models.ScheduleEntry{SwitchDate: "2024-01-01", ParentAfter: "Klas"})
	draft := []models.ScheduleEntry{{SwitchDate: "2024-02-01", ParentAfter: "Jennifer"}}
	require.NoError(t, engine.ApplyDraftAction(ctx, models.PartyJennifer, ActionActivate, models.PartyJennifer, nil))
	require.NoError(t, engine.ApplyDraftAction(ctx, models.PartyJennifer, ActionUpdateSchedule, models.PartyJennifer, draft))
	require.NoError(t, engine.ApplyDraftAction(ctx, models.PartyJennifer, ActionSend, models.PartyJennifer, nil))

	require.NoError(t, engine.ApplyDraftAction(ctx, models.PartyKlas, ActionAcceptDraft, models.PartyJennifer, nil))

	assert.Equal(t, draft, drafts.confirmed)
	for _, row := range drafts.rows {
		assert.False(t, row.IsActive)
		assert.False(t, row.IsSent)
		assert.Empty(t, row.ScheduleData)
	}
}

func TestDuelCopyFromOtherEmptyDraft(t *testing.T) {
	engine, _ := newDuel()

	err := engine.ApplyDraftAction(ctx, models.PartyKlas, ActionCopyFromOther, models.PartyKlas, nil)
	assert.ErrorIs(t, err, ErrEmptyDraft)
}

func TestDuelUpdateScheduleRequiresPayload(t *testing.T) {
	engine, _ := newDuel()

	err := engine.ApplyDraftAction(ctx, models.PartyKlas, ActionUpdateSchedule, models.PartyKlas, nil)
	assert.ErrorIs(t, err, ErrScheduleRequired)
}

func TestDuelActionsUnavailableUnderBilateral(t *testing.T) {
	engine, _ := newBilateral()

	err := engine.ApplyDraftAction(ctx, models.PartyKlas, ActionActivate, models.PartyKlas, nil)
	assert.ErrorIs(t, err, ErrPolicyMismatch)

	_, err = engine.ListDrafts(ctx)
	assert.ErrorIs(t, err, ErrPolicyMismatch)
}

func TestDuelAcceptUnavailable(t *testing.T) {
	engine, _ := newDuel()

	_, err := engine.Accept(ctx, models.PartyKlas)
	assert.ErrorIs(t, err, ErrPolicyMismatch)
}

func TestDuelUnknownAction(t *testing.T) {
	engine, _ := newDuel()

	err := engine.ApplyDraftAction(ctx, models.PartyKlas, DraftAction("bogus"), models.PartyKlas, nil)
	assert.ErrorIs(t, err, ErrUnknownAction)
}
