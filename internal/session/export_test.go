package session

import "time"

// SetClock replaces the store's time source in tests.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.now = now
}
