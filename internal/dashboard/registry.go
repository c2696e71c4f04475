package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/fakhrymubarak/weather-dashboard/internal/dom"
	"github.com/google/uuid"
)

// Session is one open dashboard page.
type Session struct {
	ID        string
	Document  *dom.Document
	Dashboard *Dashboard

	mu       sync.Mutex
	lastSeen time.Time
	streams  int
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// Attach marks an open event stream. Sessions with open streams are never
// evicted. The returned func detaches.
func (s *Session) Attach() func() {
	s.mu.Lock()
	s.streams++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.streams--
			s.lastSeen = time.Now()
			s.mu.Unlock()
		})
	}
}

func (s *Session) idleSince(now time.Time) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.streams > 0 {
		return 0, false
	}
	return now.Sub(s.lastSeen), true
}

type forgetter interface {
	Forget(key string)
}

// Registry owns the sessions of a server. Each session gets its own document
// and dashboard built from the shared options.
type Registry struct {
	ctx  context.Context
	opts Options
	idle time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry. ctx bounds every session's input
// loads; idle is how long a session may go unused before cleanup removes it.
func NewRegistry(ctx context.Context, opts Options, idle time.Duration) *Registry {
	return &Registry{
		ctx:      ctx,
		opts:     opts,
		idle:     idle,
		sessions: make(map[string]*Session),
	}
}

// Create opens a new session with a fresh dashboard document.
func (r *Registry) Create() *Session {
	id := uuid.NewString()
	doc := dom.NewDashboardDocument()

	opts := r.opts
	opts.Document = doc
	opts.SessionID = id

	s := &Session{
		ID:        id,
		Document:  doc,
		Dashboard: New(r.ctx, opts),
		lastSeen:  time.Now(),
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return s
}

// Get returns the session and marks it as used.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		s.touch(time.Now())
	}
	return s, ok
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return
	}
	s.Dashboard.Close()
	if f, ok := r.opts.Sequencer.(forgetter); ok {
		f.Forget(id)
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Cleanup removes sessions idle for longer than the registry's idle timeout
// and reports how many were removed.
func (r *Registry) Cleanup(now time.Time) int {
	var expired []string
	r.mu.RLock()
	for id, s := range r.sessions {
		if idle, ok := s.idleSince(now); ok && idle > r.idle {
			expired = append(expired, id)
		}
	}
	r.mu.RUnlock()

	for _, id := range expired {
		r.Remove(id)
	}
	return len(expired)
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (r *Registry) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := r.Cleanup(now); n > 0 && r.opts.Logger != nil {
					r.opts.Logger.Infow("Evicted idle dashboard sessions", "count", n)
				}
			}
		}
	}()
}

// Close removes every session.
func (r *Registry) Close() {
	r.mu.RLock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	for _, id := range ids {
		r.Remove(id)
	}
}
