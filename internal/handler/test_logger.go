package handler

import (
	"sync"

	"doc-text-converter/internal/domain"
)

// Mock logger used by handler package tests. It records messages so tests
// can assert on what was logged.
type MockHandlerLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewMockHandlerLogger() *MockHandlerLogger {
	return &MockHandlerLogger{}
}

var _ domain.Logger = (*MockHandlerLogger)(nil)

func (l *MockHandlerLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *MockHandlerLogger) Info(msg string, fields ...interface{})             { l.record(msg) }
func (l *MockHandlerLogger) Error(msg string, err error, fields ...interface{}) { l.record(msg) }
func (l *MockHandlerLogger) Debug(msg string, fields ...interface{})            { l.record(msg) }
func (l *MockHandlerLogger) Warn(msg string, fields ...interface{})             { l.record(msg) }

// Messages returns a copy of everything logged so far.
func (l *MockHandlerLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.messages...)
}
