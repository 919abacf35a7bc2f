package service

import "fmt"

type ReportLevel string

const (
	LevelInfo    ReportLevel = "info"
	LevelWarning ReportLevel = "warning"
	LevelError   ReportLevel = "error"
)

// ReportLine is one human-readable run event. BackOffice scopes the line to
// the office digest; info lines are never office-actionable.
type ReportLine struct {
	Level      ReportLevel `json:"level"`
	BackOffice string      `json:"back_office,omitempty"`
	Message    string      `json:"message"`
}

// RunReport accumulates the outcome of one sync run. Reconciliation builds
// one report per reservation; the orchestrator merges them.
type RunReport struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Cancelled int `json:"cancelled"`
	Skipped   int `json:"skipped"`

	ErrorCount   int `json:"error_count"`
	WarningCount int `json:"warning_count"`

	Lines []ReportLine `json:"lines"`
}

func (r *RunReport) Infof(format string, args ...any) {
	r.Lines = append(r.Lines, ReportLine{Level: LevelInfo, Message: fmt.Sprintf(format, args...)})
}

func (r *RunReport) Warnf(backOffice, format string, args ...any) {
	r.WarningCount++
	r.Lines = append(r.Lines, ReportLine{
		Level:      LevelWarning,
		BackOffice: backOffice,
		Message:    fmt.Sprintf(format, args...),
	})
}

func (r *RunReport) Errorf(backOffice, format string, args ...any) {
	r.ErrorCount++
	r.Lines = append(r.Lines, ReportLine{
		Level:      LevelError,
		BackOffice: backOffice,
		Message:    fmt.Sprintf(format, args...),
	})
}

func (r *RunReport) Merge(other RunReport) {
	r.Created += other.Created
	r.Updated += other.Updated
	r.Cancelled += other.Cancelled
	r.Skipped += other.Skipped
	r.ErrorCount += other.ErrorCount
	r.WarningCount += other.WarningCount
	r.Lines = append(r.Lines, other.Lines...)
}

// Clean reports whether the run finished without errors or warnings.
func (r *RunReport) Clean() bool {
	return r.ErrorCount == 0 && r.WarningCount == 0
}

// OfficeLines groups the actionable warning/error lines per back office.
// Lines without an office scope are excluded; they belong to the operator
// digest only.
func (r *RunReport) OfficeLines() map[string][]string {
	offices := make(map[string][]string)
	for _, line := range r.Lines {
		if line.Level == LevelInfo || line.BackOffice == "" {
			continue
		}
		offices[line.BackOffice] = append(offices[line.BackOffice], line.Message)
	}
	return offices
}
