package config

import "time"

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultScanSchedule is the cron spec for the overdue scanner inside serve.
	DefaultScanSchedule = "@every 15m"

	// DefaultRenotifyInterval is the minimum gap between two alerts of the same kind on one task.
	DefaultRenotifyInterval = 24 * time.Hour

	// DefaultApprovalSLAHours applies when an approval column has no sla_hours.
	DefaultApprovalSLAHours = 48

	// DefaultMinChangeRequestComment is the minimum length of a request-changes comment.
	DefaultMinChangeRequestComment = 10

	// DefaultRiskTopN is how many tasks board insights list by risk.
	DefaultRiskTopN = 5

	// DefaultScanBatchSize is how many candidates one scanner page reads.
	DefaultScanBatchSize = 500

	// DefaultOpenAIModel is used for reminder bodies when an API key is configured.
	DefaultOpenAIModel = "gpt-4o-mini"
)

// Engine holds the tunables shared by the workflow services.
type Engine struct {
	RenotifyInterval        time.Duration
	DefaultApprovalSLA      time.Duration
	MinChangeRequestComment int
	RiskTopN                int
	ScanBatchSize           int
}

// DefaultEngine returns the engine tunables with their defaults applied.
func DefaultEngine() Engine {
	return Engine{
		RenotifyInterval:        DefaultRenotifyInterval,
		DefaultApprovalSLA:      DefaultApprovalSLAHours * time.Hour,
		MinChangeRequestComment: DefaultMinChangeRequestComment,
		RiskTopN:                DefaultRiskTopN,
		ScanBatchSize:           DefaultScanBatchSize,
	}
}

// WithDefaults fills zero values from DefaultEngine.
func (e Engine) WithDefaults() Engine {
	d := DefaultEngine()
	if e.RenotifyInterval <= 0 {
		e.RenotifyInterval = d.RenotifyInterval
	}
	if e.DefaultApprovalSLA <= 0 {
		e.DefaultApprovalSLA = d.DefaultApprovalSLA
	}
	if e.MinChangeRequestComment <= 0 {
		e.MinChangeRequestComment = d.MinChangeRequestComment
	}
	if e.RiskTopN <= 0 {
		e.RiskTopN = d.RiskTopN
	}
	if e.ScanBatchSize <= 0 {
		e.ScanBatchSize = d.ScanBatchSize
	}
	return e
}
