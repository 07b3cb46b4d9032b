package entity

import (
	"github.com/google/uuid"

	"github.com/structeng/takeoff/constants"
)

// Severity grades a validation issue.
type Severity string

const (
	SeverityPass    Severity = "PASS"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// IssueCategory tags which rule family raised an issue.
type IssueCategory string

const (
	IssueCompleteness IssueCategory = "completeness"
	IssueRange        IssueCategory = "range"
	IssueRatio        IssueCategory = "ratio"
	IssueModulus      IssueCategory = "modulus"
	IssueVolume       IssueCategory = "volume-sanity"
)

// ValidationIssue is a single finding against one component. Issues are
// produced once and never mutated.
type ValidationIssue struct {
	Severity      Severity                `json:"severity"`
	ComponentID   uuid.UUID               `json:"component_id"`
	ComponentType constants.ComponentType `json:"component_type"`
	Category      IssueCategory           `json:"category"`
	Message       string                  `json:"message"`
	Suggestion    string                  `json:"suggestion,omitempty"`
}

// ValidationResult aggregates issues over a component set. A component
// counts once toward the worst severity any of its issues reached.
type ValidationResult struct {
	Total    int               `json:"total"`
	Passed   int               `json:"passed"`
	Warnings int               `json:"warnings"`
	Errors   int               `json:"errors"`
	Issues   []ValidationIssue `json:"issues"`
}

// Clean reports whether no component raised any issue.
func (r ValidationResult) Clean() bool {
	return len(r.Issues) == 0
}
