package remote

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process Store with the same merge semantics as the
// postgres backend. It backs tests and offline experimentation.
type Memory struct {
	mu   sync.Mutex
	data map[string]map[string]map[string]interface{} // uid/collection -> docID -> fields

	// SetCalls counts writes that reached the store, per collection.
	// Tests use it to verify the engine's skip rules.
	SetCalls map[string]int

	// FailCollections lists collections whose calls fail with FailErr.
	FailCollections map[string]error
}

func NewMemory() *Memory {
	return &Memory{
		data:            map[string]map[string]map[string]interface{}{},
		SetCalls:        map[string]int{},
		FailCollections: map[string]error{},
	}
}

func key(uid, collection string) string {
	return uid + "/" + collection
}

func (m *Memory) Get(ctx context.Context, uid, collection string) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.FailCollections[collection]; err != nil {
		return nil, err
	}

	docs := m.data[key(uid, collection)]
	out := make([]Document, 0, len(docs))
	for id, fields := range docs {
		copied := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			copied[k] = v
		}
		out = append(out, Document{ID: id, Fields: copied})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) Set(ctx context.Context, uid, collection, docID string, fields map[string]interface{}, merge bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.FailCollections[collection]; err != nil {
		return err
	}

	m.SetCalls[collection]++

	k := key(uid, collection)
	if m.data[k] == nil {
		m.data[k] = map[string]map[string]interface{}{}
	}

	existing := m.data[k][docID]
	if !merge || existing == nil {
		existing = map[string]interface{}{}
	}
	for name, value := range fields {
		existing[name] = value
	}
	m.data[k][docID] = existing
	return nil
}

// Document returns the stored fields for one document, or nil.
func (m *Memory) Document(uid, collection, docID string) map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key(uid, collection)][docID]
}

// TotalSetCalls sums writes across all collections.
func (m *Memory) TotalSetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.SetCalls {
		total += n
	}
	return total
}
