package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortAlerts_SeverityThenGenerationOrder(t *testing.T) {
	alerts := []Alert{
		{Severity: AlertInfo, Message: "info-1"},
		{Severity: AlertInfo, Message: "info-2"},
		{Severity: AlertWarning, Message: "warning-1"},
		{Severity: AlertDanger, Message: "danger-1"},
	}

	SortAlerts(alerts)

	got := make([]string, len(alerts))
	for i, a := range alerts {
		got[i] = a.Message
	}
	assert.Equal(t, []string{"danger-1", "warning-1", "info-1", "info-2"}, got)
}

func TestSortAlerts_StableWithinSeverity(t *testing.T) {
	alerts := []Alert{
		{Severity: AlertWarning, Message: "w1"},
		{Severity: AlertDanger, Message: "d1"},
		{Severity: AlertWarning, Message: "w2"},
		{Severity: AlertDanger, Message: "d2"},
		{Severity: AlertWarning, Message: "w3"},
	}

	SortAlerts(alerts)

	got := make([]string, len(alerts))
	for i, a := range alerts {
		got[i] = a.Message
	}
	assert.Equal(t, []string{"d1", "d2", "w1", "w2", "w3"}, got)
}

func TestSortAlerts_Empty(t *testing.T) {
	var alerts []Alert
	SortAlerts(alerts)
	assert.Empty(t, alerts)
}
