// Package session manages scene parsing sessions: each uploaded scene
// file is parsed in the background and its resolved scene kept around
// for the viewer to query.
package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/scene-viewer/backend/internal/models"
	"github.com/scene-viewer/backend/internal/parser"
)

// MaxSessions limits concurrent sessions to bound memory and temp files.
const MaxSessions = 32

// SessionMaxAge is how long to keep completed sessions before cleanup.
const SessionMaxAge = 30 * time.Minute

// SessionKeepAliveWindow is how long an actively used session survives
// past SessionMaxAge.
const SessionKeepAliveWindow = 5 * time.Minute

// Manager handles active scene parsing sessions.
type Manager struct {
	sessions map[string]*SessionState
	mu       sync.RWMutex
	parser   *parser.VDParser
	tempDir  string
}

// SessionState holds the session metadata, the in-memory scene and the
// DuckDB-backed store used for viewport queries.
type SessionState struct {
	Session      *models.SceneSession
	Scene        *models.Scene
	Diagnostics  []models.Diagnostic
	Store        *parser.SceneStore
	LastAccessed time.Time
}

// NewManager creates a session manager with the default element limit.
// SCENE_TEMP_DIR overrides the scene store temp directory.
func NewManager() *Manager {
	tempDir := os.Getenv("SCENE_TEMP_DIR")
	if tempDir == "" {
		tempDir = "./data/temp"
	}
	os.MkdirAll(tempDir, 0755)
	return NewManagerWith(tempDir, parser.DefaultMaxElements)
}

// NewManagerWith creates a session manager with a specific temp
// directory and per-scene element limit.
func NewManagerWith(tempDir string, maxElements int) *Manager {
	return &Manager{
		sessions: make(map[string]*SessionState),
		parser:   parser.NewVDParserWithLimit(maxElements),
		tempDir:  tempDir,
	}
}

// StartSession begins parsing a scene file in the background.
func (m *Manager) StartSession(fileID, filePath string) (*models.SceneSession, error) {
	m.cleanupOldSessionsIfNeeded()

	sessionID := uuid.New().String()

	session := models.NewSceneSession(sessionID, fileID)
	session.Status = models.SessionStatusParsing

	state := &SessionState{
		Session:      session,
		LastAccessed: time.Now(),
	}

	m.mu.Lock()
	m.sessions[sessionID] = state
	m.mu.Unlock()

	go m.runParse(sessionID, filePath)

	return session, nil
}

func (m *Manager) runParse(sessionID, filePath string) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("[Parse %s] PANIC recovered: %v\n", sessionID[:8], r)
			m.updateSessionError(sessionID, fmt.Sprintf("parse panicked: %v", r))
		}
	}()

	start := time.Now()
	fmt.Printf("[Parse %s] Parsing scene %s\n", sessionID[:8], filePath)

	m.setProgress(sessionID, 10)

	// Failure to read the source is the only hard error; every per-line
	// anomaly comes back as a diagnostic.
	scene, diags, err := m.parser.ParseSceneFile(filePath)
	if err != nil {
		fmt.Printf("[Parse %s] ERROR: %v\n", sessionID[:8], err)
		m.updateSessionError(sessionID, fmt.Sprintf("scene source unavailable: %v", err))
		return
	}

	m.setProgress(sessionID, 70)

	// Load the resolved scene into a DuckDB store for viewport queries.
	// A store failure degrades to memory-only queries rather than
	// failing the session.
	store, err := parser.NewSceneStore(m.tempDir, sessionID)
	if err != nil {
		fmt.Printf("[Parse %s] Warning: scene store unavailable: %v\n", sessionID[:8], err)
		store = nil
	} else if err := store.LoadScene(scene); err != nil {
		fmt.Printf("[Parse %s] Warning: scene store load failed: %v\n", sessionID[:8], err)
		store.Close()
		store = nil
	}

	elapsed := time.Since(start).Milliseconds()
	fmt.Printf("[Parse %s] Complete: %d points, %d lines, %d diagnostics in %dms\n",
		sessionID[:8], len(scene.Points), len(scene.Lines), len(diags), elapsed)

	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[sessionID]
	if !ok {
		if store != nil {
			store.Close()
		}
		return
	}

	state.Scene = scene
	state.Diagnostics = diags
	state.Store = store
	state.Session.Status = models.SessionStatusComplete
	state.Session.Progress = 100
	state.Session.PointCount = len(scene.Points)
	state.Session.LineCount = len(scene.Lines)
	state.Session.DiagnosticCount = len(diags)
	state.Session.ProcessingTimeMs = elapsed
}

func (m *Manager) setProgress(sessionID string, progress float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.sessions[sessionID]; ok {
		state.Session.Progress = progress
	}
}

func (m *Manager) updateSessionError(sessionID, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[sessionID]
	if !ok {
		return
	}

	state.Session.Status = models.SessionStatusError
	state.Session.Error = reason
}

// cleanupOldSessionsIfNeeded evicts finished sessions when at capacity.
func (m *Manager) cleanupOldSessionsIfNeeded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) < MaxSessions {
		return
	}

	toFree := len(m.sessions) - MaxSessions + 1
	deleted := 0
	for id, state := range m.sessions {
		if deleted >= toFree {
			break
		}
		if state.Session.Status != models.SessionStatusComplete &&
			state.Session.Status != models.SessionStatusError {
			continue
		}
		if state.Store != nil {
			state.Store.Close()
		}
		delete(m.sessions, id)
		deleted++
		fmt.Printf("[Manager] Evicted session %s to free capacity\n", id[:8])
	}
}

// CleanupOldSessions removes finished sessions older than maxAge,
// keeping any accessed within SessionKeepAliveWindow.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	keepAliveCutoff := time.Now().Add(-SessionKeepAliveWindow)

	for id, state := range m.sessions {
		if state.Session.Status != models.SessionStatusComplete &&
			state.Session.Status != models.SessionStatusError {
			continue
		}
		if state.LastAccessed.After(keepAliveCutoff) {
			continue
		}
		if state.LastAccessed.Before(cutoff) {
			if state.Store != nil {
				state.Store.Close()
			}
			delete(m.sessions, id)
			fmt.Printf("[Manager] Cleaned up aged session %s\n", id[:8])
		}
	}
}

// GetSession returns a session by ID.
func (m *Manager) GetSession(id string) (*models.SceneSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return state.Session, true
}

// TouchSession updates the LastAccessed timestamp for a session.
func (m *Manager) TouchSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return false
	}
	state.LastAccessed = time.Now()
	return true
}

// DeleteSession removes a session and releases its scene store.
func (m *Manager) DeleteSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return false
	}
	if state.Store != nil {
		state.Store.Close()
	}
	delete(m.sessions, id)
	return true
}

// GetScene returns the resolved scene for a completed session.
func (m *Manager) GetScene(id string) (*models.Scene, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok || state.Scene == nil {
		return nil, false
	}
	return state.Scene, true
}

// GetDiagnostics returns the diagnostic trail for a completed session.
func (m *Manager) GetDiagnostics(id string) ([]models.Diagnostic, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok || state.Scene == nil {
		return nil, false
	}
	if state.Diagnostics == nil {
		return []models.Diagnostic{}, true
	}
	return state.Diagnostics, true
}

// QueryViewport returns the primitives intersecting a viewport box.
// Uses the DuckDB store when available, otherwise scans in memory.
func (m *Manager) QueryViewport(ctx context.Context, id string, x0, y0, x1, y1 int) (*models.Scene, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok || state.Scene == nil {
		return nil, false
	}

	if state.Store != nil {
		sub, err := state.Store.QueryViewport(ctx, x0, y0, x1, y1)
		if err == nil {
			return sub, true
		}
		fmt.Printf("[Manager] Viewport query error: %v\n", err)
	}

	return viewportScan(state.Scene, x0, y0, x1, y1), true
}

// GetPointByLabel looks up a declared point by label.
func (m *Manager) GetPointByLabel(ctx context.Context, id string, label string) (models.PointDecl, bool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok || state.Scene == nil {
		return models.PointDecl{}, false, false
	}

	if state.Store != nil {
		p, found, err := state.Store.GetPointByLabel(ctx, label)
		if err == nil {
			return p, found, true
		}
		fmt.Printf("[Manager] Label query error: %v\n", err)
	}

	for _, p := range state.Scene.Points {
		if p.Label == label {
			return p, true, true
		}
	}
	return models.PointDecl{}, false, true
}

// GetBounds returns the scene's bounding box. hasBounds is false for an
// empty scene.
func (m *Manager) GetBounds(ctx context.Context, id string) (minX, minY, maxX, maxY int, hasBounds, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, found := m.sessions[id]
	if !found || state.Scene == nil {
		return 0, 0, 0, 0, false, false
	}

	if state.Store != nil {
		x0, y0, x1, y1, has, err := state.Store.Bounds(ctx)
		if err == nil {
			return x0, y0, x1, y1, has, true
		}
		fmt.Printf("[Manager] Bounds query error: %v\n", err)
	}

	x0, y0, x1, y1, has := state.Scene.Bounds()
	return x0, y0, x1, y1, has, true
}

// viewportScan is the in-memory fallback for viewport queries.
func viewportScan(scene *models.Scene, x0, y0, x1, y1 int) *models.Scene {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}

	sub := models.NewScene()
	for _, p := range scene.Points {
		if p.X >= x0 && p.X <= x1 && p.Y >= y0 && p.Y <= y1 {
			sub.Points = append(sub.Points, p)
		}
	}
	for _, l := range scene.Lines {
		loX, hiX := l.X1, l.X2
		if hiX < loX {
			loX, hiX = hiX, loX
		}
		loY, hiY := l.Y1, l.Y2
		if hiY < loY {
			loY, hiY = hiY, loY
		}
		if loX <= x1 && hiX >= x0 && loY <= y1 && hiY >= y0 {
			sub.Lines = append(sub.Lines, l)
		}
	}
	return sub
}
