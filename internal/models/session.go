package models

// SessionStatus represents the status of a scene parse session.
type SessionStatus string

const (
	SessionStatusPending  SessionStatus = "pending"
	SessionStatusParsing  SessionStatus = "parsing"
	SessionStatusComplete SessionStatus = "complete"
	SessionStatusError    SessionStatus = "error"
)

// SceneSession represents one scene-file parsing session.
type SceneSession struct {
	ID               string        `json:"id"`
	FileID           string        `json:"fileId"`
	Status           SessionStatus `json:"status"`
	Progress         float64       `json:"progress"` // 0-100
	PointCount       int           `json:"pointCount,omitempty"`
	LineCount        int           `json:"lineCount,omitempty"`
	DiagnosticCount  int           `json:"diagnosticCount,omitempty"`
	ProcessingTimeMs int64         `json:"processingTimeMs,omitempty"`
	// Error is set only when the scene source itself could not be
	// obtained or stored; per-line anomalies are diagnostics, fetched
	// separately.
	Error string `json:"error,omitempty"`
}

// NewSceneSession creates a new SceneSession in pending status.
func NewSceneSession(id, fileID string) *SceneSession {
	return &SceneSession{
		ID:       id,
		FileID:   fileID,
		Status:   SessionStatusPending,
		Progress: 0,
	}
}
