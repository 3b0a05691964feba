package proposal

import (
	"context"

	"github.com/aponomy/schema-ehnemark/internal/models"
)

// Duel-policy actions. "owner" names the draft row acted on; ownerOnly
// actions must come from the owner themselves, counterpart actions from
// the other party.

// DraftAction is one of the duel-policy verbs.
type DraftAction string

const (
	ActionActivate          DraftAction = "activate"
	ActionDeactivate        DraftAction = "deactivate"
	ActionUpdateSchedule    DraftAction = "update_schedule"
	ActionCopyFromConfirmed DraftAction = "copy_from_confirmed"
	ActionCopyFromOther     DraftAction = "copy_from_other"
	ActionSend              DraftAction = "send"
	ActionRespond           DraftAction = "respond"
	ActionAcceptDraft       DraftAction = "accept"
)

func ownerOnly(a DraftAction) bool {
	switch a {
	case ActionActivate, ActionDeactivate, ActionUpdateSchedule,
		ActionCopyFromConfirmed, ActionCopyFromOther, ActionSend:
		return true
	}
	return false
}

func counterpartOnly(a DraftAction) bool {
	return a == ActionRespond || a == ActionAcceptDraft
}

// ListDrafts returns both parties' drafts.
func (e *Engine) ListDrafts(ctx context.Context) ([]models.DraftProposal, error) {
	if e.policy != PolicyDuel {
		return nil, ErrPolicyMismatch
	}
	return e.drafts.Drafts(ctx)
}

// ApplyDraftAction validates authorization for the action and dispatches
// it against the DraftStore.
func (e *Engine) ApplyDraftAction(ctx context.Context, actor models.Party, action DraftAction, owner models.Party, entries []models.ScheduleEntry) error {
	if e.policy != PolicyDuel {
		return ErrPolicyMismatch
	}

	if ownerOnly(action) && owner != actor {
		return ErrNotOwner
	}
	if counterpartOnly(action) && owner == actor {
		return ErrNotCounterpart
	}

	switch action {
	case ActionActivate:
		return e.drafts.ActivateFromConfirmed(ctx, owner)
	case ActionDeactivate:
		return e.drafts.Deactivate(ctx, owner)
	case ActionUpdateSchedule:
		if entries == nil {
			return ErrScheduleRequired
		}
		return e.drafts.ReplaceDraft(ctx, owner, entries)
	case ActionCopyFromConfirmed:
		return e.drafts.CopyFromConfirmed(ctx, owner)
	case ActionCopyFromOther:
		return e.drafts.CopyFromOther(ctx, owner)
	case ActionSend:
		return e.drafts.MarkSent(ctx, owner)
	case ActionRespond:
		return e.drafts.Adopt(ctx, actor, owner)
	case ActionAcceptDraft:
		return e.drafts.Promote(ctx, owner)
	}
	return ErrUnknownAction
}
