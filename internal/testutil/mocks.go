// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/star/internal/domain"
)

// MockClock is a test double for domain.Clock.
// With Step set, every call advances the returned time by Step.
type MockClock struct {
	NowTime time.Time
	Step    time.Duration
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	now := m.NowTime
	m.NowTime = m.NowTime.Add(m.Step)
	return now
}

// MockIDGenerator is a test double for domain.IDGenerator.
// It returns Prefix followed by a sequence number.
type MockIDGenerator struct {
	Prefix string
	N      int
}

// Ensure MockIDGenerator implements domain.IDGenerator interface.
var _ domain.IDGenerator = (*MockIDGenerator)(nil)

// NewID returns the next identity in sequence.
func (m *MockIDGenerator) NewID() string {
	m.N++
	prefix := m.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, m.N)
}

// MockRecordRepository is a test double for domain.RecordRepository.
// Fields are ordered to minimize memory padding.
type MockRecordRepository struct {
	Records map[string]*domain.TaskRecord
	LoadErr error
	SaveErr error
	Saves   int
	Creates int
}

// NewMockRecordRepository creates a new MockRecordRepository with an initialized map.
func NewMockRecordRepository() *MockRecordRepository {
	return &MockRecordRepository{
		Records: make(map[string]*domain.TaskRecord),
	}
}

// Ensure MockRecordRepository implements domain.RecordRepository interface.
var _ domain.RecordRepository = (*MockRecordRepository)(nil)

// Load returns the stored record.
func (m *MockRecordRepository) Load(path string) (*domain.TaskRecord, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	rec, ok := m.Records[path]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return rec, nil
}

// Save stores the record.
func (m *MockRecordRepository) Save(path string, rec *domain.TaskRecord) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Records[path] = rec
	m.Saves++
	return nil
}

// Create stores the record unless one is already stored at path.
func (m *MockRecordRepository) Create(path string, rec *domain.TaskRecord) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if _, ok := m.Records[path]; ok {
		return fmt.Errorf("%s: %w", path, domain.ErrRecordExists)
	}
	m.Records[path] = rec
	m.Creates++
	return nil
}

// Update loads, mutates and saves the record.
func (m *MockRecordRepository) Update(path string, fn func(rec *domain.TaskRecord) error) (*domain.TaskRecord, error) {
	rec, err := m.Load(path)
	if err != nil {
		return nil, err
	}
	if err := fn(rec); err != nil {
		return nil, err
	}
	if err := m.Save(path, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Exists reports whether a record is stored at path.
func (m *MockRecordRepository) Exists(path string) (bool, error) {
	if m.LoadErr != nil {
		return false, m.LoadErr
	}
	_, ok := m.Records[path]
	return ok, nil
}

// MockSourceLoader is a test double for domain.SourceLoader.
type MockSourceLoader struct {
	Texts   map[string]string
	ReadErr error
}

// Ensure MockSourceLoader implements domain.SourceLoader interface.
var _ domain.SourceLoader = (*MockSourceLoader)(nil)

// Read returns the text registered for the locator.
func (m *MockSourceLoader) Read(_ context.Context, locator string) (string, domain.SourceMeta, error) {
	if m.ReadErr != nil {
		return "", domain.SourceMeta{}, m.ReadErr
	}
	text, ok := m.Texts[locator]
	if !ok {
		return "", domain.SourceMeta{}, fmt.Errorf("no such source: %s", locator)
	}
	return text, domain.SourceMeta{Locator: locator, Kind: "file", Path: locator}, nil
}

// LogEntry is a message captured by MockLogger.
type LogEntry struct {
	Level    string
	RecordID string
	Category string
	Msg      string
}

// MockLogger is a test double for domain.Logger that keeps every entry.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

// Ensure MockLogger implements domain.Logger interface.
var _ domain.Logger = (*MockLogger)(nil)

func (m *MockLogger) add(level, recordID, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, RecordID: recordID, Category: category, Msg: msg})
}

func (m *MockLogger) Info(recordID, category, msg string)  { m.add("INFO", recordID, category, msg) }
func (m *MockLogger) Debug(recordID, category, msg string) { m.add("DEBUG", recordID, category, msg) }
func (m *MockLogger) Warn(recordID, category, msg string)  { m.add("WARN", recordID, category, msg) }
func (m *MockLogger) Error(recordID, category, msg string) { m.add("ERROR", recordID, category, msg) }

// ByCategory returns the entries logged under category.
func (m *MockLogger) ByCategory(category string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for _, e := range m.Entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// MockConfigLoader is a test double for domain.ConfigLoader.
// Fields are ordered to minimize memory padding.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	LoadErr      error
	GlobalErr    error
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured config or error.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.GlobalErr != nil {
		return nil, m.GlobalErr
	}
	if m.GlobalConfig != nil {
		return m.GlobalConfig, nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitLocalErr     error
	InitGlobalErr    error
	LocalConfigInfo  domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
	InitLocalCalled  bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		LocalConfigInfo: domain.ConfigInfo{
			Path: "/work/.star/config.toml",
		},
		GlobalConfigInfo: domain.ConfigInfo{
			Path: "/home/test/.config/star/config.toml",
		},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetLocalConfigInfo returns the configured local config info.
func (m *MockConfigManager) GetLocalConfigInfo() domain.ConfigInfo {
	return m.LocalConfigInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitLocalConfig records the call and returns configured error.
func (m *MockConfigManager) InitLocalConfig(_ *domain.Config) error {
	m.InitLocalCalled = true
	return m.InitLocalErr
}

// InitGlobalConfig records the call and returns configured error.
func (m *MockConfigManager) InitGlobalConfig(_ *domain.Config) error {
	m.InitGlobalCalled = true
	return m.InitGlobalErr
}
