package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aponomy/schema-ehnemark/internal/models"
	"github.com/aponomy/schema-ehnemark/internal/schedule"
	"github.com/aponomy/schema-ehnemark/internal/storage"
)

// GetSchedule returns the confirmed schedule and day comments
func GetSchedule(schedules *storage.ScheduleRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := schedules.Entries(c.Request.Context())
		if err != nil {
			log.Printf("schedule query failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
			return
		}

		dayComments, err := schedules.DayComments(c.Request.Context())
		if err != nil {
			log.Printf("day comment query failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
			return
		}

		c.JSON(http.StatusOK, models.ScheduleResponse{
			Schedule:    entries,
			DayComments: dayComments,
		})
	}
}

// GetStatistics returns per-party day counts and percentages for a range
func GetStatistics(schedules *storage.ScheduleRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, err := time.Parse(models.DateFormat, c.Query("start"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date. Use YYYY-MM-DD"})
			return
		}
		end, err := time.Parse(models.DateFormat, c.Query("end"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date. Use YYYY-MM-DD"})
			return
		}
		if end.Before(start) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must not precede start"})
			return
		}

		entries, err := schedules.Entries(c.Request.Context())
		if err != nil {
			log.Printf("schedule query failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
			return
		}

		c.JSON(http.StatusOK, schedule.Calculate(entries, start, end))
	}
}
