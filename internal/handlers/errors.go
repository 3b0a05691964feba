package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aponomy/schema-ehnemark/internal/proposal"
)

// respondProposalError maps engine errors onto HTTP statuses. Validation
// and state conflicts are 400, authorization failures 403, everything else
// is logged and reported as a generic 500.
func respondProposalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, proposal.ErrProposalExists),
		errors.Is(err, proposal.ErrNoActiveProposal),
		errors.Is(err, proposal.ErrScheduleRequired),
		errors.Is(err, proposal.ErrDayCommentsRequired),
		errors.Is(err, proposal.ErrCommentRequired),
		errors.Is(err, proposal.ErrEmptyDraft),
		errors.Is(err, proposal.ErrPolicyMismatch),
		errors.Is(err, proposal.ErrUnknownAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, proposal.ErrNotOwner),
		errors.Is(err, proposal.ErrNotCounterpart):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.Printf("proposal action failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update proposal"})
	}
}
