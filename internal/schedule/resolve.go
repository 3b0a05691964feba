// Package schedule implements day-parent resolution and statistics over a
// list of custody switch entries.
package schedule

import (
	"math"
	"sort"
	"time"

	"github.com/aponomy/schema-ehnemark/internal/models"
)

// ParentOn returns the party with custody on the given date: the
// parent_after of the latest switch on or before it. Returns "" when the
// date precedes every switch. The input does not need to be sorted.
func ParentOn(date string, entries []models.ScheduleEntry) models.Party {
	sorted := make([]models.ScheduleEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SwitchDate < sorted[j].SwitchDate
	})

	var parent models.Party
	for _, e := range sorted {
		if e.SwitchDate > date {
			break
		}
		parent = models.Party(e.ParentAfter)
	}
	return parent
}

// IsSwitchDay reports whether custody transfers on the given date.
func IsSwitchDay(date string, entries []models.ScheduleEntry) bool {
	for _, e := range entries {
		if e.SwitchDate == date {
			return true
		}
	}
	return false
}

// Calculate walks every day in [start, end] inclusive and tallies which
// party has custody. Days before the first switch have no parent and are
// not counted. Percentages are rounded per party, so they can land on
// 49/51 or 50/51 style splits.
func Calculate(entries []models.ScheduleEntry, start, end time.Time) models.Statistics {
	var stats models.Statistics

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch ParentOn(d.Format(models.DateFormat), entries) {
		case models.PartyJennifer:
			stats.JenniferDays++
		case models.PartyKlas:
			stats.KlasDays++
		}
	}

	stats.Total = stats.JenniferDays + stats.KlasDays
	if stats.Total > 0 {
		stats.JenniferPercent = int(math.Round(float64(stats.JenniferDays) / float64(stats.Total) * 100))
		stats.KlasPercent = int(math.Round(float64(stats.KlasDays) / float64(stats.Total) * 100))
	}
	return stats
}
