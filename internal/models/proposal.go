package models

import "time"

// Proposal is a draft replacement for the confirmed schedule. At most one
// is active at a time. Both parties must consent before it is merged, and
// any edit to the draft clears consent already given.
type Proposal struct {
	ID               int64           `json:"id"`
	IsActive         bool            `json:"is_active"`
	CreatedBy        string          `json:"created_by"`
	LastUpdatedBy    string          `json:"last_updated_by"`
	JenniferAccepted bool            `json:"jennifer_accepted"`
	KlasAccepted     bool            `json:"klas_accepted"`
	ScheduleData     []ScheduleEntry `json:"schedule_data"`
	DayComments      []DayComment    `json:"day_comments"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ProposalComment is one remark in a proposal's discussion log. The log is
// append-only and lives only as long as the proposal it belongs to.
type ProposalComment struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// DraftProposal is the per-owner draft used by the duel consent policy:
// each parent edits their own draft and sends it to the other, who may
// respond with a counter-draft or accept it outright.
type DraftProposal struct {
	ID           int64           `json:"id"`
	Owner        Party           `json:"owner"`
	IsActive     bool            `json:"is_active"`
	IsSent       bool            `json:"is_sent"`
	ScheduleData []ScheduleEntry `json:"schedule_data"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProposalResponse is the payload for GET /api/proposal.
type ProposalResponse struct {
	Proposal *Proposal         `json:"proposal"`
	Comments []ProposalComment `json:"comments"`
}

// DraftProposalsResponse is the payload for GET /api/proposals.
type DraftProposalsResponse struct {
	Proposals []DraftProposal `json:"proposals"`
}
