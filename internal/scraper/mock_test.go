package scraper

import (
	"context"
	"sync"
	"time"

	"sjsage522/deliveryscraper/pkg/errors"
)

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	mu    sync.Mutex
	cache map[string][]byte
}

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		cache: make(map[string][]byte),
	}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, &mockError{message: "cache miss"}
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, key)
	return nil
}

type mockError struct {
	message string
}

func (e *mockError) Error() string {
	return e.message
}

// mockFetcher serves canned state blobs per postal code
type mockFetcher struct {
	mu     sync.Mutex
	blobs  map[string]string
	fails  map[string]error
	calls  map[string]int
	delay  time.Duration
	active int
	peak   int
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{
		blobs: make(map[string]string),
		fails: make(map[string]error),
		calls: make(map[string]int),
	}
}

func (m *mockFetcher) FetchState(ctx context.Context, postalCode string) (string, error) {
	m.mu.Lock()
	m.calls[postalCode]++
	m.active++
	if m.active > m.peak {
		m.peak = m.active
	}
	m.mu.Unlock()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.active--

	if err, ok := m.fails[postalCode]; ok {
		return "", err
	}
	if blob, ok := m.blobs[postalCode]; ok {
		return blob, nil
	}
	return "", errors.NewStateNotFound(postalCode, "no state")
}

// stateBlob wraps a literal the way the listing page does
func stateBlob(literal string) string {
	return `window["__INITIAL_STATE__"] = JSON.parse(` + jsQuote(literal) + `);`
}

func jsQuote(s string) string {
	out := []byte{'"'}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\\':
			out = append(out, '\\', s[i])
		case '\n':
			out = append(out, '\\', 'n')
		default:
			out = append(out, s[i])
		}
	}
	return string(append(out, '"'))
}

// recordingWriter captures tables instead of touching the filesystem
type recordingWriter struct {
	mu     sync.Mutex
	tables map[string][][]string
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{tables: make(map[string][][]string)}
}

func (w *recordingWriter) WriteTable(path string, header []string, rows [][]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tables[path] = append([][]string{header}, rows...)
	return nil
}

func (w *recordingWriter) paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []string
	for p := range w.tables {
		out = append(out, p)
	}
	return out
}
