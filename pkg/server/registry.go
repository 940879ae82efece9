package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomoemon/emil/pkg/automaton"
	"github.com/tomoemon/emil/pkg/rule"
)

// ruleRegistry holds parsed rule packs keyed by a UUID assigned at
// upload time.
type ruleRegistry struct {
	mu    sync.RWMutex
	rules map[string]*rule.Rule
}

func newRuleRegistry() *ruleRegistry {
	return &ruleRegistry{rules: make(map[string]*rule.Rule)}
}

func (reg *ruleRegistry) put(r *rule.Rule) string {
	id := uuid.NewString()
	reg.mu.Lock()
	reg.rules[id] = r
	reg.mu.Unlock()
	return id
}

func (reg *ruleRegistry) get(id string) (*rule.Rule, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rules[id]
	return r, ok
}

// automatonEntry pairs a built automaton with its last-touched time for
// TTL eviction.
type automatonEntry struct {
	automaton *automaton.Automaton
	lastTouch time.Time
}

// automatonRegistry holds built automatons keyed by a UUID, evicting
// entries that have not been touched within ttl.
type automatonRegistry struct {
	mu         sync.RWMutex
	automatons map[string]*automatonEntry
	ttl        time.Duration
}

func newAutomatonRegistry(ttl time.Duration) *automatonRegistry {
	return &automatonRegistry{
		automatons: make(map[string]*automatonEntry),
		ttl:        ttl,
	}
}

func (reg *automatonRegistry) put(a *automaton.Automaton) string {
	id := uuid.NewString()
	reg.mu.Lock()
	reg.automatons[id] = &automatonEntry{automaton: a, lastTouch: time.Now()}
	reg.mu.Unlock()
	return id
}

func (reg *automatonRegistry) get(id string) (*automaton.Automaton, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	entry, ok := reg.automatons[id]
	if !ok {
		return nil, false
	}
	entry.lastTouch = time.Now()
	return entry.automaton, true
}

// evictExpired removes every entry untouched for longer than ttl. It is
// intended to run periodically from a background goroutine.
func (reg *automatonRegistry) evictExpired(now time.Time) int {
	if reg.ttl <= 0 {
		return 0
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	evicted := 0
	for id, entry := range reg.automatons {
		if now.Sub(entry.lastTouch) > reg.ttl {
			delete(reg.automatons, id)
			evicted++
		}
	}
	return evicted
}
