package store

import "sync"

// Table names used for change notification.
const (
	TableTasks    = "tasks"
	TablePosts    = "community_posts"
	TableSessions = "focus_sessions"
)

// notifier fans out table-level change events to subscribers. Events carry no
// payload beyond "something changed"; subscribers are expected to re-fetch.
type notifier struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]func()
}

// Subscribe registers fn to run after any write to table. The returned func
// removes the subscription. fn is called synchronously on the writer's
// goroutine, so it should only hand off (e.g. send on a channel), not block.
func (s *Store) Subscribe(table string, fn func()) (unsubscribe func()) {
	s.notifier.mu.Lock()
	defer s.notifier.mu.Unlock()

	if s.notifier.subs == nil {
		s.notifier.subs = make(map[string]map[int]func())
	}
	if s.notifier.subs[table] == nil {
		s.notifier.subs[table] = make(map[int]func())
	}
	id := s.notifier.next
	s.notifier.next++
	s.notifier.subs[table][id] = fn

	return func() {
		s.notifier.mu.Lock()
		defer s.notifier.mu.Unlock()
		delete(s.notifier.subs[table], id)
	}
}

func (s *Store) notify(table string) {
	s.notifier.mu.Lock()
	fns := make([]func(), 0, len(s.notifier.subs[table]))
	for _, fn := range s.notifier.subs[table] {
		fns = append(fns, fn)
	}
	s.notifier.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
