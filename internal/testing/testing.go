// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/tunedex/tunedex/internal/models"
)

// MockSearcher is a configurable test double for a provider searcher.
// Results and Err control the outcome; Calls counts invocations.
type MockSearcher struct {
	ServiceName string
	Results     []models.ExternalCandidate
	Err         error

	mu    sync.Mutex
	Calls int
}

func (m *MockSearcher) Name() string {
	if m.ServiceName == "" {
		return "mock"
	}
	return m.ServiceName
}

func (m *MockSearcher) Search(ctx context.Context, q models.Query, limit int) ([]models.ExternalCandidate, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if limit > 0 && limit < len(m.Results) {
		return m.Results[:limit], nil
	}
	return m.Results, nil
}

func (m *MockSearcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// MockLyricsSource is a test double for a lyrics provider.
type MockLyricsSource struct {
	ServiceName string
	Text        string
	Err         error

	mu    sync.Mutex
	Calls int
}

func (m *MockLyricsSource) Name() string {
	if m.ServiceName == "" {
		return "mock"
	}
	return m.ServiceName
}

func (m *MockLyricsSource) FetchLyrics(ctx context.Context, title, artist, externalID string) (string, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}

func (m *MockLyricsSource) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
