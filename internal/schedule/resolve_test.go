package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aponomy/schema-ehnemark/internal/models"
)

func entries(pairs ...string) []models.ScheduleEntry {
	var out []models.ScheduleEntry
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, models.ScheduleEntry{SwitchDate: pairs[i], ParentAfter: pairs[i+1]})
	}
	return out
}

func TestParentOn(t *testing.T) {
	sched := entries(
		"2024-01-01", "Klas",
		"2024-01-08", "Jennifer",
		"2024-01-15", "Klas",
	)

	assert.Equal(t, models.PartyKlas, ParentOn("2024-01-01", sched), "switch day itself")
	assert.Equal(t, models.PartyKlas, ParentOn("2024-01-07", sched))
	assert.Equal(t, models.PartyJennifer, ParentOn("2024-01-08", sched))
	assert.Equal(t, models.PartyJennifer, ParentOn("2024-01-14", sched))
	assert.Equal(t, models.PartyKlas, ParentOn("2024-02-20", sched), "after last switch")
}

func TestParentOnBeforeFirstSwitch(t *testing.T) {
	sched := entries("2024-06-01", "Jennifer")
	assert.Equal(t, models.Party(""), ParentOn("2024-05-31", sched))
	assert.Equal(t, models.Party(""), ParentOn("2024-05-31", nil))
}

func TestParentOnUnsortedInput(t *testing.T) {
	sorted := entries("2024-01-01", "Klas", "2024-01-08", "Jennifer", "2024-01-15", "Klas")
	unsorted := entries("2024-01-15", "Klas", "2024-01-01", "Klas", "2024-01-08", "Jennifer")

	for _, date := range []string{"2024-01-01", "2024-01-05", "2024-01-08", "2024-01-20"} {
		assert.Equal(t, ParentOn(date, sorted), ParentOn(date, unsorted), date)
	}
}

func TestParentOnDoesNotMutateInput(t *testing.T) {
	sched := entries("2024-01-15", "Klas", "2024-01-01", "Jennifer")
	ParentOn("2024-01-10", sched)
	assert.Equal(t, "2024-01-15", sched[0].SwitchDate)
}

func TestIsSwitchDay(t *testing.T) {
	sched := entries("2024-01-01", "Klas", "2024-01-08", "Jennifer")
	assert.True(t, IsSwitchDay("2024-01-08", sched))
	assert.False(t, IsSwitchDay("2024-01-09", sched))
}

func TestCalculateCountsCoverDefinedDays(t *testing.T) {
	sched := entries("2024-01-05", "Klas", "2024-01-10", "Jennifer")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)

	stats := Calculate(sched, start, end)

	// Jan 1-4 precede the first switch and have no parent.
	require.Equal(t, 10, stats.Total)
	assert.Equal(t, 5, stats.KlasDays)
	assert.Equal(t, 5, stats.JenniferDays)
	assert.Equal(t, 50, stats.KlasPercent)
	assert.Equal(t, 50, stats.JenniferPercent)
}

func TestCalculateRoundsIndependently(t *testing.T) {
	sched := entries("2024-01-01", "Klas", "2024-01-03", "Jennifer")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	stats := Calculate(sched, start, end)

	assert.Equal(t, 2, stats.KlasDays)
	assert.Equal(t, 1, stats.JenniferDays)
	assert.Equal(t, 67, stats.KlasPercent)
	assert.Equal(t, 33, stats.JenniferPercent)
}

func TestCalculateEmptySchedule(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	stats := Calculate(nil, start, end)

	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.JenniferPercent)
	assert.Zero(t, stats.KlasPercent)
}

func TestCalculateSingleDayRange(t *testing.T) {
	sched := entries("2024-01-01", "Jennifer")
	day := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)

	stats := Calculate(sched, day, day)

	assert.Equal(t, 1, stats.JenniferDays)
	assert.Equal(t, 100, stats.JenniferPercent)
}
