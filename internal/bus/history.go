package bus

import "time"

// Metadata records a single emit.
type Metadata struct {
	Name      string
	Timestamp time.Time
	Sender    string
	Data      any
}

// recordLocked appends an entry to the history, evicting the oldest
// entry once the configured limit is reached. Caller holds b.mu.
func (b *Bus) recordLocked(entry Metadata) {
	if b.opts.HistoryLimit <= 0 {
		return
	}
	b.history = append(b.history, entry)
	if len(b.history) > b.opts.HistoryLimit {
		b.history = b.history[len(b.history)-b.opts.HistoryLimit:]
	}
}

// History returns recorded emits, oldest first. When name is non-empty only
// entries for that event are returned; limit > 0 caps the result to the most
// recent entries.
func (b *Bus) History(name string, limit int) []Metadata {
	b.mu.Lock()
	defer b.mu.Unlock()

	var entries []Metadata
	if name == "" {
		entries = append(entries, b.history...)
	} else {
		for _, entry := range b.history {
			if entry.Name == name {
				entries = append(entries, entry)
			}
		}
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries
}

// ClearHistory discards all recorded emits.
func (b *Bus) ClearHistory() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = nil
}
