package domain

import "time"

// ActionPriority ranks a mitigation task.
type ActionPriority string

const (
	ActionPriorityLow      ActionPriority = "low"
	ActionPriorityMedium   ActionPriority = "medium"
	ActionPriorityHigh     ActionPriority = "high"
	ActionPriorityCritical ActionPriority = "critical"
)

var actionPriorityLabels = map[ActionPriority]string{
	ActionPriorityLow:      "Lav",
	ActionPriorityMedium:   "Middels",
	ActionPriorityHigh:     "Høy",
	ActionPriorityCritical: "Kritisk",
}

// Valid reports whether p is a known priority.
func (p ActionPriority) Valid() bool {
	_, ok := actionPriorityLabels[p]
	return ok
}

// Label returns the Norwegian display label.
func (p ActionPriority) Label() string {
	if l, ok := actionPriorityLabels[p]; ok {
		return l
	}
	return "Ukjent"
}

// ActionStatus is the lifecycle state of a mitigation task.
type ActionStatus string

const (
	ActionStatusPlanned    ActionStatus = "planned"
	ActionStatusInProgress ActionStatus = "in_progress"
	ActionStatusDone       ActionStatus = "done"
	ActionStatusCancelled  ActionStatus = "cancelled"
)

var actionStatusLabels = map[ActionStatus]string{
	ActionStatusPlanned:    "Planlagt",
	ActionStatusInProgress: "Pågår",
	ActionStatusDone:       "Fullført",
	ActionStatusCancelled:  "Avbrutt",
}

// Valid reports whether s is a known status.
func (s ActionStatus) Valid() bool {
	_, ok := actionStatusLabels[s]
	return ok
}

// Label returns the Norwegian display label.
func (s ActionStatus) Label() string {
	if l, ok := actionStatusLabels[s]; ok {
		return l
	}
	return "Ukjent"
}

// Terminal reports whether the action no longer counts toward overdue alerts.
func (s ActionStatus) Terminal() bool {
	return s == ActionStatusDone || s == ActionStatusCancelled
}

// Action is a mitigation task, linked to zero or more risks.
type Action struct {
	ID          int64
	Title       string
	Description *string
	Priority    ActionPriority
	Status      ActionStatus
	DueDate     *time.Time
	CompletedAt *time.Time
	Assignee    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks enum values and the title.
func (a *Action) Validate() error {
	if a.Title == "" {
		return ErrValidation("title is required")
	}
	if !a.Priority.Valid() {
		return ErrValidation("unknown action priority %q", a.Priority)
	}
	if !a.Status.Valid() {
		return ErrValidation("unknown action status %q", a.Status)
	}
	return nil
}

// Overdue reports whether the action is past due at the given date.
func (a *Action) Overdue(today time.Time) bool {
	if a.Status.Terminal() || a.DueDate == nil {
		return false
	}
	return a.DueDate.Before(today)
}

// ActionFilter narrows action list queries.
type ActionFilter struct {
	Status   *ActionStatus
	Priority *ActionPriority
	RiskID   *int64
	Page     PageRequest
}

// ActionProgress is the per-status action count for dashboards.
type ActionProgress struct {
	Planned    int `json:"planned"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
	Cancelled  int `json:"cancelled"`
	Overdue    int `json:"overdue"`
	Total      int `json:"total"`
}
