package domain

import "sort"

// AlertSeverity orders dashboard alerts.
type AlertSeverity string

const (
	AlertInfo    AlertSeverity = "info"
	AlertWarning AlertSeverity = "warning"
	AlertDanger  AlertSeverity = "danger"
)

// rank returns the sort key; danger sorts first.
func (s AlertSeverity) rank() int {
	switch s {
	case AlertDanger:
		return 0
	case AlertWarning:
		return 1
	case AlertInfo:
		return 2
	}
	return 3
}

// Alert is one dashboard notification tied to an originating entity.
type Alert struct {
	Severity   AlertSeverity `json:"severity"`
	Category   string        `json:"category"`
	Message    string        `json:"message"`
	EntityType string        `json:"entity_type"`
	EntityID   int64         `json:"entity_id"`
}

// SortAlerts orders alerts by severity (danger, warning, info) while keeping
// the original generation order within each severity.
func SortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity.rank() < alerts[j].Severity.rank()
	})
}
