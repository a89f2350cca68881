package audit

import "time"

// Entry records one state-changing action: who did what to which entity.
// Detail carries action-specific context, e.g. the old and new rings of a
// corrected score or the canonical id of an applied merge plan.
type Entry struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	Action     string            `json:"action"`
	EntityType string            `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	Detail     map[string]string `json:"detail,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Well-known action names. Handlers may record others; these are the ones
// operators filter the log on.
const (
	ActionScoreEntered      = "score.entered"
	ActionScoreCorrected    = "score.corrected"
	ActionPermissionChanged = "permission.changed"
	ActionMergeApplied      = "merge.applied"
)

// ListQuery filters the audit log. Zero values mean "no filter".
type ListQuery struct {
	UserID     string
	EntityType string
	EntityID   string
	From       time.Time
	To         time.Time
	Limit      int
	Cursor     string
}
