package store

import (
	"encoding/json"
	"fmt"

	"github.com/bitfun/appstate/internal/logging"
	"github.com/bitfun/appstate/internal/storage"
)

// Persistence configures how a store snapshot reaches a storage backend.
// Whitelist and Blacklist filter which top-level JSON keys are written;
// when both are set the whitelist wins. Marshal and Unmarshal default
// to encoding/json.
type Persistence struct {
	Backend   storage.Backend
	Key       string
	Whitelist []string
	Blacklist []string
	Marshal   func(v any) ([]byte, error)
	Unmarshal func(data []byte, v any) error
}

func (p *Persistence) marshal(v any) ([]byte, error) {
	if p.Marshal != nil {
		return p.Marshal(v)
	}
	return json.Marshal(v)
}

func (p *Persistence) unmarshal(data []byte, v any) error {
	if p.Unmarshal != nil {
		return p.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

// filterKeys drops map entries excluded by the whitelist or blacklist.
func (p *Persistence) filterKeys(m map[string]json.RawMessage) map[string]json.RawMessage {
	if len(p.Whitelist) > 0 {
		filtered := make(map[string]json.RawMessage, len(p.Whitelist))
		for _, key := range p.Whitelist {
			if value, ok := m[key]; ok {
				filtered[key] = value
			}
		}
		return filtered
	}
	if len(p.Blacklist) > 0 {
		filtered := make(map[string]json.RawMessage, len(m))
		for key, value := range m {
			filtered[key] = value
		}
		for _, key := range p.Blacklist {
			delete(filtered, key)
		}
		return filtered
	}
	return m
}

// saveSnapshot writes the filtered top-level keys of state under p.Key.
func saveSnapshot[T any](p *Persistence, state T) error {
	if p.Backend == nil || p.Key == "" {
		return fmt.Errorf("persistence: backend and key must be set")
	}
	raw, err := p.marshal(state)
	if err != nil {
		return fmt.Errorf("persistence: serialize state: %w", err)
	}

	if len(p.Whitelist) > 0 || len(p.Blacklist) > 0 {
		var asMap map[string]json.RawMessage
		if err := json.Unmarshal(raw, &asMap); err != nil {
			return fmt.Errorf("persistence: state is not a JSON object, cannot filter keys: %w", err)
		}
		raw, err = json.Marshal(p.filterKeys(asMap))
		if err != nil {
			return fmt.Errorf("persistence: serialize filtered state: %w", err)
		}
	}

	if err := p.Backend.Store(p.Key, raw); err != nil {
		return fmt.Errorf("persistence: write state: %w", err)
	}
	return nil
}

// loadSnapshot reads a persisted snapshot and merges its filtered keys
// over initial. Returns initial and false when nothing usable is stored;
// read or decode failures are logged, never fatal.
func loadSnapshot[T any](p *Persistence, initial T, logger logging.Logger) (T, bool) {
	if p.Backend == nil || p.Key == "" {
		return initial, false
	}
	raw, err := p.Backend.Load(p.Key)
	if err != nil {
		if !storage.IsNotFound(err) {
			logger.Error("state load failed", "key", p.Key, "error", err)
		}
		return initial, false
	}

	base, err := p.marshal(initial)
	if err != nil {
		logger.Error("state load failed", "key", p.Key, "error", err)
		return initial, false
	}

	var baseMap, storedMap map[string]json.RawMessage
	if err := json.Unmarshal(base, &baseMap); err != nil {
		// Non-object state: replace wholesale.
		var loaded T
		if err := p.unmarshal(raw, &loaded); err != nil {
			logger.Error("state decode failed", "key", p.Key, "error", err)
			return initial, false
		}
		return loaded, true
	}
	if err := json.Unmarshal(raw, &storedMap); err != nil {
		logger.Error("state decode failed", "key", p.Key, "error", err)
		return initial, false
	}

	for key, value := range p.filterKeys(storedMap) {
		baseMap[key] = value
	}
	merged, err := json.Marshal(baseMap)
	if err != nil {
		logger.Error("state load failed", "key", p.Key, "error", err)
		return initial, false
	}

	var loaded T
	if err := p.unmarshal(merged, &loaded); err != nil {
		logger.Error("state decode failed", "key", p.Key, "error", err)
		return initial, false
	}
	return loaded, true
}
