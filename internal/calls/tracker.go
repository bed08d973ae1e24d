// Package calls tracks the phone calls that are currently being engaged.
package calls

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"
)

// Field length limits applied on the way in.
const (
	MaxIDLength       = 100
	MaxPhoneLength    = 20
	MaxScamTypeLength = 50
)

// ErrInvalidID is returned when a call id is empty after sanitizing.
var ErrInvalidID = errors.New("calls: invalid call id")

// Call is one active call.
type Call struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	ScamType    string    `json:"scamType"`
	StartedAt   time.Time `json:"startedAt"`
}

// Duration is how long the call has been running at now.
func (c Call) Duration(now time.Time) time.Duration {
	if c.StartedAt.IsZero() || now.Before(c.StartedAt) {
		return 0
	}
	return now.Sub(c.StartedAt)
}

// Tracker records call start/end.
type Tracker interface {
	Start(ctx context.Context, call Call) error
	End(ctx context.Context, id string) (bool, error)
	Active(ctx context.Context) ([]Call, error)
}

// Sanitize drops non-printable runes and markup characters, then cuts s to
// max runes.
func Sanitize(s string, max int) string {
	var b strings.Builder
	n := 0
	for _, r := range s {
		if max > 0 && n >= max {
			break
		}
		if !unicode.IsPrint(r) || strings.ContainsRune(`<>&"'`, r) {
			continue
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

func normalize(call Call, now time.Time) Call {
	call.ID = Sanitize(call.ID, MaxIDLength)
	call.PhoneNumber = Sanitize(call.PhoneNumber, MaxPhoneLength)
	call.ScamType = Sanitize(call.ScamType, MaxScamTypeLength)
	if call.PhoneNumber == "" {
		call.PhoneNumber = "Unknown"
	}
	if call.ScamType == "" {
		call.ScamType = "Unknown"
	}
	if call.StartedAt.IsZero() {
		call.StartedAt = now
	}
	return call
}

func sortCalls(calls []Call) {
	sort.Slice(calls, func(i, j int) bool {
		if calls[i].StartedAt.Equal(calls[j].StartedAt) {
			return calls[i].ID < calls[j].ID
		}
		return calls[i].StartedAt.Before(calls[j].StartedAt)
	})
}

// MemoryTracker keeps active calls in process memory.
type MemoryTracker struct {
	mu    sync.Mutex
	calls map[string]Call
	now   func() time.Time
}

func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{calls: make(map[string]Call), now: time.Now}
}

// Start records a call. Starting an id that is already active keeps the
// original start time.
func (t *MemoryTracker) Start(_ context.Context, call Call) error {
	call = normalize(call, t.now())
	if call.ID == "" {
		return ErrInvalidID
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.calls[call.ID]; ok {
		return nil
	}
	t.calls[call.ID] = call
	return nil
}

func (t *MemoryTracker) End(_ context.Context, id string) (bool, error) {
	id = Sanitize(id, MaxIDLength)
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.calls[id]; !ok {
		return false, nil
	}
	delete(t.calls, id)
	return true, nil
}

// Active returns calls oldest first.
func (t *MemoryTracker) Active(_ context.Context) ([]Call, error) {
	t.mu.Lock()
	out := make([]Call, 0, len(t.calls))
	for _, c := range t.calls {
		out = append(out, c)
	}
	t.mu.Unlock()
	sortCalls(out)
	return out, nil
}
