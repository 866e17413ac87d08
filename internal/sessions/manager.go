package sessions

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/HendryAvila/eudoxa/internal/errors"
	"github.com/HendryAvila/eudoxa/internal/eudoxa"
)

// Manager caches loaded models and serializes access per session. A model
// is only touched while its session lock is held.
type Manager struct {
	store *Store
	log   *zap.SugaredLogger

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu    sync.Mutex
	model *eudoxa.Model
}

// NewManager creates a Manager over store.
func NewManager(store *Store, log *zap.SugaredLogger) *Manager {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Manager{store: store, log: log, entries: make(map[string]*entry)}
}

// Store returns the underlying store.
func (m *Manager) Store() *Store { return m.store }

// Create starts a session. rec may be nil for an empty model; otherwise it
// is validated by rebuilding the model before anything is stored.
func (m *Manager) Create(ctx context.Context, name string, rec *eudoxa.Record) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	model := eudoxa.New()
	if rec != nil {
		var err error
		if model, err = eudoxa.FromRecord(rec); err != nil {
			return nil, err
		}
	}
	sess, err := m.store.CreateSession(name, model.Record())
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.entries[sess.ID] = &entry{model: model}
	m.mu.Unlock()

	m.log.Infow("session created", "session", sess.ID, "name", sess.Name,
		"aspects", len(model.Aspects()))
	return sess, nil
}

// View runs fn with the session's model under its lock. fn must not keep
// the model past its return.
func (m *Manager) View(ctx context.Context, id string, fn func(*eudoxa.Model) error) error {
	e, err := m.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()
	return fn(e.model)
}

// Mutation is a change to a model. It returns the outcome of its writes;
// a returned error with no writes leaves the model untouched.
type Mutation func(*eudoxa.Model) (eudoxa.Outcome, error)

// Update runs fn under the session lock, then persists the model when its
// revision moved and logs the derivation trail. Contradictions are not
// rolled back: the facts written before the first collision stay.
func (m *Manager) Update(ctx context.Context, id string, fn Mutation) (eudoxa.Outcome, error) {
	e, err := m.acquire(ctx, id)
	if err != nil {
		return eudoxa.Outcome{}, err
	}
	defer e.mu.Unlock()

	before := e.model.Revision()
	out, fnErr := fn(e.model)
	changed := e.model.Revision() != before

	if changed {
		if err := m.store.SaveModel(id, e.model.Record()); err != nil {
			m.evict(id)
			return out, errors.Wrap(err, "persist model")
		}
	}
	if trail := out.Trail(); len(trail) > 0 {
		if err := m.store.LogDerivations(id, trail); err != nil {
			return out, errors.Wrap(err, "log derivations")
		}
	}
	m.log.Debugw("session updated", "session", id, "changed", changed,
		"adds", len(out.Adds), "collisions", len(out.Collisions))
	if !out.Consistent() {
		m.log.Warnw("contradiction", "session", id, "collisions", len(out.Collisions))
	}
	return out, fnErr
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := m.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := m.store.DeleteSession(id); err != nil {
		m.evict(id)
		return err
	}
	m.evict(id)
	m.log.Infow("session deleted", "session", id)
	return nil
}

// List returns the stored sessions.
func (m *Manager) List(ctx context.Context) ([]Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.store.ListSessions()
}

// Get returns a session's metadata.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.store.GetSession(id)
}

// Derivations returns the session's latest logged derivations.
func (m *Manager) Derivations(ctx context.Context, id string, limit int) ([]LoggedDerivation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.store.Derivations(id, limit)
}

// acquire returns the locked entry of id, loading the model if needed.
func (m *Manager) acquire(ctx context.Context, id string) (*entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e := m.entry(id)
	e.mu.Lock()
	if e.model != nil {
		return e, nil
	}

	rec, err := m.store.LoadRecord(id)
	if err == nil {
		e.model, err = eudoxa.FromRecord(rec)
	}
	if err != nil {
		e.mu.Unlock()
		m.evict(id)
		return nil, err
	}
	m.log.Debugw("session loaded", "session", id)
	return e, nil
}

func (m *Manager) entry(id string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		e = &entry{}
		m.entries[id] = e
	}
	return e
}

func (m *Manager) evict(id string) {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
}
