package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryLedger keeps case records for the lifetime of the process. It is
// used when no Redis URL is configured, and in tests.
type MemoryLedger struct {
	mu      sync.RWMutex
	records map[uuid.UUID]CaseRecord
	order   []uuid.UUID // oldest first
}

// Ensure MemoryLedger implements Ledger interface
var _ Ledger = (*MemoryLedger)(nil)

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{records: make(map[uuid.UUID]CaseRecord)}
}

func (m *MemoryLedger) Ping(context.Context) error { return nil }

func (m *MemoryLedger) Close() error { return nil }

func (m *MemoryLedger) Record(_ context.Context, rec CaseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.ID]; !ok {
		m.order = append(m.order, rec.ID)
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *MemoryLedger) Recent(_ context.Context, n int) ([]CaseRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []CaseRecord
	for i := len(m.order) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.records[m.order[i]])
	}
	return out, nil
}

func (m *MemoryLedger) Count(context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.order)), nil
}
