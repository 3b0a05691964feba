package models

// DateFormat is the wire format for calendar dates. ISO dates compare
// correctly as strings, which the resolution code relies on.
const DateFormat = "2006-01-02"

// ScheduleEntry is a single custody switch: from switch_date onward the
// children are with parent_after, until a later entry takes over.
type ScheduleEntry struct {
	ID          int64  `json:"id,omitempty"`
	SwitchDate  string `json:"switch_date"`
	ParentAfter string `json:"parent_after"`
}

// DayComment is a free-text note attached to a single calendar day.
// At most one per date; writing a date again replaces the old comment.
type DayComment struct {
	Date    string `json:"date"`
	Comment string `json:"comment"`
	Author  string `json:"author"`
}

// ScheduleResponse is the payload for GET /api/schedule.
type ScheduleResponse struct {
	Schedule    []ScheduleEntry `json:"schedule"`
	DayComments []DayComment    `json:"dayComments"`
}

// Statistics summarizes custody distribution over a date range.
// Percentages are rounded independently and may not sum to exactly 100.
type Statistics struct {
	JenniferDays    int `json:"jenniferDays"`
	KlasDays        int `json:"klasDays"`
	JenniferPercent int `json:"jenniferPercent"`
	KlasPercent     int `json:"klasPercent"`
	Total           int `json:"total"`
}
