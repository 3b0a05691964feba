package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aponomy/schema-ehnemark/internal/middleware"
	"github.com/aponomy/schema-ehnemark/internal/models"
	"github.com/aponomy/schema-ehnemark/internal/proposal"
)

// Duel-policy endpoints: one draft per parent, exchanged back and forth.

type draftActionRequest struct {
	Action       string                 `json:"action" binding:"required"`
	Owner        string                 `json:"owner" binding:"required"`
	ScheduleData []models.ScheduleEntry `json:"schedule_data"`
}

// GetDraftProposals returns both parties' drafts
func GetDraftProposals(engine *proposal.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		drafts, err := engine.ListDrafts(c.Request.Context())
		if err != nil {
			log.Printf("draft query failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch proposals"})
			return
		}
		c.JSON(http.StatusOK, models.DraftProposalsResponse{Proposals: drafts})
	}
}

// UpdateDraftProposal dispatches a PUT {action, owner, ...} body against
// the named draft
func UpdateDraftProposal(engine *proposal.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		party, ok := middleware.GetAuthParty(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		var req draftActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "action and owner required"})
			return
		}

		owner, ok := models.ParseParty(req.Owner)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid owner"})
			return
		}

		err := engine.ApplyDraftAction(
			c.Request.Context(), party, proposal.DraftAction(req.Action), owner, req.ScheduleData,
		)
		if err != nil {
			respondProposalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
