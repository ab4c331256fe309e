package grid

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrDraftNotFound  = errors.New("draft not found or expired")
	ErrDraftForbidden = errors.New("draft belongs to another user")
)

type draft struct {
	mu       sync.Mutex
	ownerID  string
	editor   *Editor
	lastUsed time.Time
}

// DraftManager keeps open editors between requests. Each draft belongs to the
// user who opened it and is dropped after ttl without use, or once saved.
type DraftManager struct {
	mu     sync.Mutex
	drafts map[string]*draft
	ttl    time.Duration
	now    func() time.Time
	log    *zap.Logger

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewDraftManager(ttl time.Duration, log *zap.Logger) *DraftManager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &DraftManager{
		drafts: make(map[string]*draft),
		ttl:    ttl,
		now:    time.Now,
		log:    log,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go m.janitor()
	return m
}

func (m *DraftManager) janitor() {
	defer close(m.done)

	interval := m.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.log.Debug("expired drafts dropped", zap.Int("count", n))
			}
		}
	}
}

// Create registers an editor and returns its draft id.
func (m *DraftManager) Create(ownerID string, e *Editor) string {
	id := uuid.NewString()
	m.mu.Lock()
	m.drafts[id] = &draft{ownerID: ownerID, editor: e, lastUsed: m.now()}
	m.mu.Unlock()
	return id
}

// With runs fn against the draft's editor while holding the draft lock. A draft
// whose editor ends up saved is released.
func (m *DraftManager) With(id, ownerID string, fn func(*Editor) error) error {
	m.mu.Lock()
	d, ok := m.drafts[id]
	if ok && m.expired(d) {
		delete(m.drafts, id)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return ErrDraftNotFound
	}
	if d.ownerID != ownerID {
		return ErrDraftForbidden
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	err := fn(d.editor)

	m.mu.Lock()
	if d.editor.State() == StateSaved {
		delete(m.drafts, id)
	} else {
		d.lastUsed = m.now()
	}
	m.mu.Unlock()
	return err
}

func (m *DraftManager) Discard(id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok {
		return ErrDraftNotFound
	}
	if d.ownerID != ownerID {
		return ErrDraftForbidden
	}
	delete(m.drafts, id)
	return nil
}

func (m *DraftManager) expired(d *draft) bool {
	return m.ttl > 0 && m.now().Sub(d.lastUsed) > m.ttl
}

// Sweep drops expired drafts and returns how many went.
func (m *DraftManager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, d := range m.drafts {
		if m.expired(d) {
			delete(m.drafts, id)
			n++
		}
	}
	return n
}

func (m *DraftManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.drafts)
}

// Close stops the janitor. It is safe to call more than once.
func (m *DraftManager) Close() {
	m.once.Do(func() {
		close(m.stop)
		<-m.done
	})
}
