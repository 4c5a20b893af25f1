package global

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/bitfun/appstate/internal/logging"
	"github.com/bitfun/appstate/internal/storage"
)

// ContextKey is the storage key for the persisted context snapshot.
const ContextKey = "bitfun-context-storage"

// contextSchemaVersion identifies the snapshot layout. Snapshots with a
// different version are discarded on load.
const contextSchemaVersion = 1

// contextSnapshot is the persisted form of a ContextStore. Maps and sets
// are encoded as explicit ordered-pair and element sequences so the JSON
// layout is stable and versioned.
type contextSnapshot struct {
	Version int                    `json:"version"`
	Values  map[string]string      `json:"values"`
	Maps    map[string][][2]string `json:"maps"`
	Sets    map[string][]string    `json:"sets"`
}

// ContextStore holds named values, maps, and sets shared across the
// application, persisted as a single versioned snapshot.
type ContextStore struct {
	mu      sync.Mutex
	backend storage.Backend
	logger  logging.Logger
	values  map[string]string
	maps    map[string]map[string]string
	sets    map[string]map[string]struct{}
}

// NewContextStore creates a context store and loads any persisted
// snapshot. Load failures are logged and leave the store empty.
func NewContextStore(backend storage.Backend, logger logging.Logger) *ContextStore {
	if logger == nil {
		logger = logging.Noop()
	}
	c := &ContextStore{
		backend: backend,
		logger:  logger,
		values:  make(map[string]string),
		maps:    make(map[string]map[string]string),
		sets:    make(map[string]map[string]struct{}),
	}
	c.load()
	return c
}

func (c *ContextStore) load() {
	if c.backend == nil {
		return
	}
	raw, err := c.backend.Load(ContextKey)
	if err != nil {
		if !storage.IsNotFound(err) {
			c.logger.Error("context load failed", "key", ContextKey, "error", err)
		}
		return
	}
	var snapshot contextSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		c.logger.Error("context decode failed", "key", ContextKey, "error", err)
		return
	}
	if snapshot.Version != contextSchemaVersion {
		c.logger.Warn("context snapshot version mismatch, starting fresh",
			"stored", snapshot.Version, "expected", contextSchemaVersion)
		return
	}
	for k, v := range snapshot.Values {
		c.values[k] = v
	}
	for name, pairs := range snapshot.Maps {
		m := make(map[string]string, len(pairs))
		for _, pair := range pairs {
			m[pair[0]] = pair[1]
		}
		c.maps[name] = m
	}
	for name, elems := range snapshot.Sets {
		set := make(map[string]struct{}, len(elems))
		for _, elem := range elems {
			set[elem] = struct{}{}
		}
		c.sets[name] = set
	}
}

// Save persists the current snapshot.
func (c *ContextStore) Save() error {
	c.mu.Lock()
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	if c.backend == nil {
		return nil
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("context store: serialize snapshot: %w", err)
	}
	if err := c.backend.Store(ContextKey, raw); err != nil {
		return fmt.Errorf("context store: write snapshot: %w", err)
	}
	return nil
}

// snapshotLocked flattens maps and sets into sorted sequences.
// Caller holds c.mu.
func (c *ContextStore) snapshotLocked() contextSnapshot {
	snapshot := contextSnapshot{
		Version: contextSchemaVersion,
		Values:  make(map[string]string, len(c.values)),
		Maps:    make(map[string][][2]string, len(c.maps)),
		Sets:    make(map[string][]string, len(c.sets)),
	}
	for k, v := range c.values {
		snapshot.Values[k] = v
	}
	for name, m := range c.maps {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([][2]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, [2]string{k, m[k]})
		}
		snapshot.Maps[name] = pairs
	}
	for name, set := range c.sets {
		elems := make([]string, 0, len(set))
		for elem := range set {
			elems = append(elems, elem)
		}
		sort.Strings(elems)
		snapshot.Sets[name] = elems
	}
	return snapshot
}

// Get returns a plain value.
func (c *ContextStore) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.values[key]
	return value, ok
}

// Set stores a plain value.
func (c *ContextStore) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

// Delete removes a plain value.
func (c *ContextStore) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
}

// MapGet returns an entry of a named map.
func (c *ContextStore) MapGet(name, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.maps[name][key]
	return value, ok
}

// MapSet stores an entry in a named map.
func (c *ContextStore) MapSet(name, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.maps[name]
	if !ok {
		m = make(map[string]string)
		c.maps[name] = m
	}
	m[key] = value
}

// MapDelete removes an entry of a named map.
func (c *ContextStore) MapDelete(name, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.maps[name], key)
}

// MapLen returns the size of a named map.
func (c *ContextStore) MapLen(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.maps[name])
}

// SetAdd adds an element to a named set.
func (c *ContextStore) SetAdd(name, elem string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.sets[name]
	if !ok {
		set = make(map[string]struct{})
		c.sets[name] = set
	}
	set[elem] = struct{}{}
}

// SetHas reports whether a named set contains elem.
func (c *ContextStore) SetHas(name, elem string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sets[name][elem]
	return ok
}

// SetRemove removes an element of a named set.
func (c *ContextStore) SetRemove(name, elem string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sets[name], elem)
}

// SetLen returns the size of a named set.
func (c *ContextStore) SetLen(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sets[name])
}
