package ledger

import (
	"bytes"
	"time"

	"github.com/google/uuid"

	"regnet/pkg/platform/sentinel"
)

// KV is one staged write.
type KV struct {
	Key   string
	Value []byte
}

// WriteSet buffers the writes and events of one transaction so backends can
// apply them in a single commit step. It is not safe for concurrent use; a
// transaction function runs on one goroutine.
type WriteSet struct {
	txID     string
	readOnly bool
	writes   map[string][]byte
	order    []string
	events   []stagedEvent
}

type stagedEvent struct {
	name    string
	payload []byte
}

// NewWriteSet creates an empty write set for txID.
func NewWriteSet(txID string, readOnly bool) *WriteSet {
	return &WriteSet{
		txID:     txID,
		readOnly: readOnly,
		writes:   make(map[string][]byte),
	}
}

func (w *WriteSet) TxID() string {
	return w.txID
}

// Lookup returns a copy of the staged value for key, if any.
func (w *WriteSet) Lookup(key string) ([]byte, bool) {
	v, ok := w.writes[key]
	if !ok {
		return nil, false
	}
	return bytes.Clone(v), true
}

// Put stages value under key; the last write to a key wins.
func (w *WriteSet) Put(key string, value []byte) error {
	if w.readOnly {
		return sentinel.ErrReadOnly
	}
	if value == nil {
		value = []byte{}
	}
	if _, seen := w.writes[key]; !seen {
		w.order = append(w.order, key)
	}
	w.writes[key] = bytes.Clone(value)
	return nil
}

// AddEvent stages a commit event.
func (w *WriteSet) AddEvent(name string, payload []byte) error {
	if w.readOnly {
		return sentinel.ErrReadOnly
	}
	w.events = append(w.events, stagedEvent{name: name, payload: bytes.Clone(payload)})
	return nil
}

// Empty reports whether nothing was staged.
func (w *WriteSet) Empty() bool {
	return len(w.order) == 0 && len(w.events) == 0
}

// Writes returns staged writes in first-write order.
func (w *WriteSet) Writes() []KV {
	out := make([]KV, 0, len(w.order))
	for _, key := range w.order {
		out = append(out, KV{Key: key, Value: w.writes[key]})
	}
	return out
}

// Events stamps staged events with the commit time.
func (w *WriteSet) Events(committedAt time.Time) []Event {
	out := make([]Event, 0, len(w.events))
	for _, e := range w.events {
		out = append(out, Event{
			ID:          uuid.NewString(),
			TxID:        w.txID,
			Name:        e.name,
			Payload:     e.payload,
			CommittedAt: committedAt,
		})
	}
	return out
}
