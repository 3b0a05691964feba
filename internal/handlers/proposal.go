package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aponomy/schema-ehnemark/internal/middleware"
	"github.com/aponomy/schema-ehnemark/internal/models"
	"github.com/aponomy/schema-ehnemark/internal/proposal"
)

type proposalActionRequest struct {
	Action       string                 `json:"action" binding:"required"`
	ScheduleData []models.ScheduleEntry `json:"schedule_data"`
	DayComments  []models.DayComment    `json:"day_comments"`
	Comment      string                 `json:"comment"`
}

// GetProposal returns the active proposal (null when none) and the
// discussion log
func GetProposal(engine *proposal.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, comments, err := engine.Current(c.Request.Context())
		if err != nil {
			log.Printf("proposal query failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch proposal"})
			return
		}

		c.JSON(http.StatusOK, models.ProposalResponse{
			Proposal: p,
			Comments: comments,
		})
	}
}

// UpdateProposal dispatches a PUT {action, ...} body to the consent engine
func UpdateProposal(engine *proposal.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		party, ok := middleware.GetAuthParty(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		var req proposalActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "action required"})
			return
		}

		ctx := c.Request.Context()
		var err error

		switch req.Action {
		case "create":
			err = engine.Create(ctx, party)
		case "update_schedule":
			err = engine.UpdateSchedule(ctx, party, req.ScheduleData)
		case "update_day_comments":
			err = engine.UpdateDayComments(ctx, party, req.DayComments)
		case "add_comment":
			err = engine.AddComment(ctx, party, req.Comment)
		case "accept":
			var merged bool
			merged, err = engine.Accept(ctx, party)
			if err == nil {
				c.JSON(http.StatusOK, gin.H{"success": true, "merged": merged})
				return
			}
		case "delete":
			err = engine.Delete(ctx)
		default:
			err = proposal.ErrUnknownAction
		}

		if err != nil {
			respondProposalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
