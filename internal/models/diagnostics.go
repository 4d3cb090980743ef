package models

// DiagnosticKind classifies a non-fatal parse anomaly.
type DiagnosticKind string

const (
	// DiagMalformed covers wrong arity, unparsable integers and empty labels.
	DiagMalformed DiagnosticKind = "malformed_declaration"
	// DiagUnresolved is a line declaration naming a label no point declared.
	DiagUnresolved DiagnosticKind = "unresolved_reference"
	// DiagCapacity is a declaration beyond the configured element limit.
	DiagCapacity DiagnosticKind = "capacity_exceeded"
	// DiagUnrecognized is a non-blank, non-comment line matching no keyword.
	DiagUnrecognized DiagnosticKind = "unrecognized_declaration"
	// DiagDuplicateLabel is a point redeclaring an existing label.
	DiagDuplicateLabel DiagnosticKind = "duplicate_label"
)

// Diagnostic records a single recoverable parse anomaly. Diagnostics are
// accumulated in emission order; parsing always runs to completion and
// returns the full list alongside whatever was successfully parsed.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Line    int            `json:"line"`
	Content string         `json:"content,omitempty"`
	Label   string         `json:"label,omitempty"`
	Reason  string         `json:"reason"`
}
