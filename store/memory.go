package store

import "sync"

// MemoryBackend is an in-process backend. It stands in for the host storage in
// tests and in single-context runs; subscribers are notified synchronously
// after each write.
type MemoryBackend struct {
	mu      sync.Mutex
	data    map[string]string
	subs    map[int]func(key string)
	nextSub int
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		data: make(map[string]string),
		subs: make(map[int]func(key string)),
	}
}

func (m *MemoryBackend) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryBackend) Set(key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	subs := m.snapshotSubs()
	m.mu.Unlock()

	for _, fn := range subs {
		fn(key)
	}
	return nil
}

func (m *MemoryBackend) Delete(key string) error {
	m.mu.Lock()
	if _, ok := m.data[key]; !ok {
		m.mu.Unlock()
		return nil
	}
	delete(m.data, key)
	subs := m.snapshotSubs()
	m.mu.Unlock()

	for _, fn := range subs {
		fn(key)
	}
	return nil
}

func (m *MemoryBackend) Subscribe(fn func(key string)) (cancel func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// snapshotSubs copies the subscriber list so callbacks run outside the lock.
func (m *MemoryBackend) snapshotSubs() []func(key string) {
	subs := make([]func(key string), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	return subs
}
