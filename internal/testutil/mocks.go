package testutil

import (
	"context"
	"fmt"
	"medilens/internal/persistence/interfaces"
	"medilens/internal/providers"
	"medilens/internal/structures"
	"sync"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// MockMedium is an in-memory interfaces.MediumInterface. Writes larger than
// Limit bytes fail with ErrQuotaExceeded; SetErr, when set, fails every write.
type MockMedium struct {
	mu       sync.Mutex
	Data     map[string][]byte
	Limit    int
	SetErr   error
	SetCalls int
	Sizes    []int
}

func NewMockMedium(limit int) *MockMedium {
	return &MockMedium{Data: make(map[string][]byte), Limit: limit}
}

func (m *MockMedium) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, interfaces.ErrNotFound)
	}
	return val, nil
}

func (m *MockMedium) Set(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	m.Sizes = append(m.Sizes, len(data))
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.Limit > 0 && len(data) > m.Limit {
		return fmt.Errorf("%w: %d > %d", interfaces.ErrQuotaExceeded, len(data), m.Limit)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.Data[key] = stored
	return nil
}

// MockGateway implements the analysis gateway with injectable behavior.
// Block, when non-nil, is received from before answering.
type MockGateway struct {
	mu         sync.Mutex
	ImageFn    func(ctx context.Context, dataURI string) (string, error)
	TextFn     func(ctx context.Context, text string) (string, error)
	Block      chan struct{}
	ImageCalls []string
	TextCalls  []string
}

func (m *MockGateway) AnalyzeImage(ctx context.Context, dataURI string) (string, error) {
	m.mu.Lock()
	m.ImageCalls = append(m.ImageCalls, dataURI)
	m.mu.Unlock()
	if m.Block != nil {
		<-m.Block
	}
	if m.ImageFn != nil {
		return m.ImageFn(ctx, dataURI)
	}
	return "## Image analysis", nil
}

func (m *MockGateway) AnalyzeText(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.TextCalls = append(m.TextCalls, text)
	m.mu.Unlock()
	if m.Block != nil {
		<-m.Block
	}
	if m.TextFn != nil {
		return m.TextFn(ctx, text)
	}
	return "## Text analysis", nil
}

// NoopMetrics returns the disabled metrics provider.
func NoopMetrics() providers.MetricsProviderInterface {
	return providers.NewMetricsProvider(&structures.Config{})
}
