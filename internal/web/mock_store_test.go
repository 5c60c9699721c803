package web

import (
	"fmt"
	"sync"

	"github.com/banshee-data/pasture.report/internal/db"
)

// mockStore is an in-memory ScenarioStore. Err, when set, is returned by
// every call.
type mockStore struct {
	mu        sync.Mutex
	scenarios []*db.Scenario
	nextID    int
	Err       error
	ListLimit int
}

func (m *mockStore) SaveScenario(s *db.Scenario) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if s.ScenarioID == "" {
		m.nextID++
		s.ScenarioID = fmt.Sprintf("scenario-%d", m.nextID)
	}
	if s.CreatedUnix == 0 {
		s.CreatedUnix = 1700000000 + int64(m.nextID)
	}
	m.scenarios = append(m.scenarios, s)
	return nil
}

func (m *mockStore) GetScenario(id string) (*db.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, s := range m.scenarios {
		if s.ScenarioID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", db.ErrScenarioNotFound, id)
}

func (m *mockStore) ListScenarios(limit int) ([]*db.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListLimit = limit
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]*db.Scenario, 0, len(m.scenarios))
	for i := len(m.scenarios) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.scenarios[i])
	}
	return out, nil
}

func (m *mockStore) DeleteScenario(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i, s := range m.scenarios {
		if s.ScenarioID == id {
			m.scenarios = append(m.scenarios[:i], m.scenarios[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", db.ErrScenarioNotFound, id)
}

var _ ScenarioStore = (*mockStore)(nil)
var _ ScenarioStore = (*db.DB)(nil)
