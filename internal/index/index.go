// Package index keeps the node store's CRUD operations (internal/store) able
// to report an indexing hook without depending on a real search backend:
// full-text search over node content is outside autoresolve's scope, but
// the store layer's call sites expect a non-nil Manager at every step, so
// this stays a tiny no-op rather than threading nil checks through every
// create/move/delete path in node.go.
package index

// Manager is a no-op indexing hook. All operations succeed immediately.
type Manager struct{}

// NewManager always succeeds; there is no backing store to fail to open.
func NewManager(basePath string) (*Manager, error) {
	return &Manager{}, nil
}

func (m *Manager) Close() error { return nil }

func (m *Manager) IndexNode(node any, parentID string, depth int) error { return nil }

func (m *Manager) RemoveNode(nodeID string) error { return nil }

func (m *Manager) UpdateNodeChildCount(nodeID string, count int) error { return nil }
