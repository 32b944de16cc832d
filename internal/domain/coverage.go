package domain

// ReportingMode selects which principles participate in coverage reporting.
type ReportingMode string

const (
	// ReportActiveOnly excludes deprecated and not-yet-effective principles.
	// Used by dashboards.
	ReportActiveOnly ReportingMode = "active_only"
	// ReportAll includes every principle. Used by historical exports.
	ReportAll ReportingMode = "all"
)

// Valid reports whether m is a known reporting mode.
func (m ReportingMode) Valid() bool {
	return m == ReportActiveOnly || m == ReportAll
}

// PrincipleCoverage is the per-principle risk count.
type PrincipleCoverage struct {
	PrincipleID int64  `json:"principle_id"`
	Code        string `json:"code"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	RiskCount   int    `json:"risk_count"`
	Covered     bool   `json:"covered"`
	Deprecated  bool   `json:"deprecated"`
}

// CategoryCompliance is the per-category rollup of mapping statuses. A
// principle with zero mappings counts entirely as not_assessed.
type CategoryCompliance struct {
	Category     string `json:"category"`
	Principles   int    `json:"principles"`
	Compliant    int    `json:"compliant"`
	Partial      int    `json:"partial"`
	NonCompliant int    `json:"non_compliant"`
	NotAssessed  int    `json:"not_assessed"`
}

// ComplianceGap is an active principle with zero risk mappings, with enough
// descriptor fields to render a remediation worklist.
type ComplianceGap struct {
	PrincipleID int64   `json:"principle_id"`
	Code        string  `json:"code"`
	FullCode    string  `json:"full_code"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Description *string `json:"description"`
}

// CoverageSummary is the framework-level compliance picture.
type CoverageSummary struct {
	Framework          Framework     `json:"framework"`
	Mode               ReportingMode `json:"mode"`
	TotalPrinciples    int           `json:"total_principles"`
	CoveredPrinciples  int           `json:"covered_principles"`
	RisksWithMapping   int           `json:"risks_with_mapping"`
	Compliant          int           `json:"compliant"`
	Partial            int           `json:"partial"`
	NonCompliant       int           `json:"non_compliant"`
	NotAssessed        int           `json:"not_assessed"`
	CoveragePercentage float64       `json:"coverage_percentage"`
}
