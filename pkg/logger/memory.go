package logger

import (
	"fmt"
	"strings"
	"sync"
)

// Entry is one record captured by a MemoryLogger.
type Entry struct {
	Level   string
	Message string
	Keyvals []any
}

// MemoryLogger keeps log records in memory. Tests install it with Init to
// assert on what a component logged. Fatal is recorded but does not exit.
type MemoryLogger struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (m *MemoryLogger) record(level, message string, keyvals []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Level: level, Message: message, Keyvals: keyvals})
}

func (m *MemoryLogger) Log(message string, keyvals ...any)   { m.record("log", message, keyvals) }
func (m *MemoryLogger) Debug(message string, keyvals ...any) { m.record("debug", message, keyvals) }
func (m *MemoryLogger) Info(message string, keyvals ...any)  { m.record("info", message, keyvals) }
func (m *MemoryLogger) Warn(message string, keyvals ...any)  { m.record("warn", message, keyvals) }
func (m *MemoryLogger) Error(message string, keyvals ...any) { m.record("error", message, keyvals) }
func (m *MemoryLogger) Fatal(message string, keyvals ...any) { m.record("fatal", message, keyvals) }

// Entries returns a copy of the captured records.
func (m *MemoryLogger) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Contains reports whether a record at level has a message containing substr.
func (m *MemoryLogger) Contains(level, substr string) bool {
	for _, e := range m.Entries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func (e Entry) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", strings.ToUpper(e.Level), e.Message)
	for i := 0; i+1 < len(e.Keyvals); i += 2 {
		fmt.Fprintf(&sb, " %v=%v", e.Keyvals[i], e.Keyvals[i+1])
	}
	return sb.String()
}
