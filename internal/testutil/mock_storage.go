// mock_storage.go - Mock storage implementation for testing
package testutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/scene-viewer/backend/internal/models"
)

// MockStorage implements storage.Store for testing. File contents are
// kept in memory; GetFilePath materializes them to a temp file so the
// parser can read them like real uploads.
type MockStorage struct {
	mu       sync.RWMutex
	tempDir  string
	files    map[string]*models.FileInfo
	fileData map[string][]byte
	nextID   int
}

// NewMockStorage creates a new mock storage writing temp files to dir.
func NewMockStorage(dir string) *MockStorage {
	return &MockStorage{
		tempDir:  dir,
		files:    make(map[string]*models.FileInfo),
		fileData: make(map[string][]byte),
	}
}

func (m *MockStorage) Save(name string, r io.Reader) (*models.FileInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return m.SaveBytes(name, data)
}

func (m *MockStorage) SaveBytes(name string, data []byte) (*models.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := fmt.Sprintf("mock-file-%d", m.nextID)
	info := &models.FileInfo{
		ID:         id,
		Name:       name,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
		Status:     "uploaded",
	}

	m.files[id] = info
	m.fileData[id] = data
	return info, nil
}

func (m *MockStorage) Get(id string) (*models.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.files[id]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", id)
	}
	return info, nil
}

func (m *MockStorage) List(limit int) ([]*models.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*models.FileInfo, 0, len(m.files))
	for _, info := range m.files {
		list = append(list, info)
	}
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *MockStorage) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[id]; !ok {
		return fmt.Errorf("file not found: %s", id)
	}
	delete(m.files, id)
	delete(m.fileData, id)
	return nil
}

func (m *MockStorage) Rename(id string, newName string) (*models.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, ok := m.files[id]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", id)
	}
	info.Name = newName
	return info, nil
}

func (m *MockStorage) GetFilePath(id string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.fileData[id]
	if !ok {
		return "", fmt.Errorf("file not found: %s", id)
	}

	path := filepath.Join(m.tempDir, id)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("materializing mock file: %w", err)
	}
	return path, nil
}

// FileData returns the raw stored bytes, for assertions.
func (m *MockStorage) FileData(id string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.fileData[id]
	return data, ok
}
