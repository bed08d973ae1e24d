package analytics

import (
	"context"
	"errors"
	"fmt"
)

// Sink receives one record per processed turn. Appends must be safe for
// concurrent callers and must never interleave partial records.
type Sink interface {
	Append(ctx context.Context, rec Record) error
}

// Nop discards records.
type Nop struct{}

func (Nop) Append(context.Context, Record) error { return nil }

// Named pairs a sink with the label used in logs and metrics.
type Named struct {
	Name string
	Sink Sink
}

// SinkError reports which sink failed.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string { return fmt.Sprintf("analytics: %s sink: %v", e.Sink, e.Err) }

func (e *SinkError) Unwrap() error { return e.Err }

// Fanout appends to every sink in order. One failing sink does not stop
// the others; all failures are joined into the returned error.
type Fanout struct {
	sinks []Named
}

func NewFanout(sinks ...Named) *Fanout {
	out := make([]Named, 0, len(sinks))
	for _, s := range sinks {
		if s.Sink != nil {
			out = append(out, s)
		}
	}
	return &Fanout{sinks: out}
}

func (f *Fanout) Append(ctx context.Context, rec Record) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Sink.Append(ctx, rec); err != nil {
			errs = append(errs, &SinkError{Sink: s.Name, Err: err})
		}
	}
	return errors.Join(errs...)
}

// Names lists the configured sinks.
func (f *Fanout) Names() []string {
	names := make([]string, len(f.sinks))
	for i, s := range f.sinks {
		names[i] = s.Name
	}
	return names
}

// FailedSinks extracts sink names from an error returned by Append.
func FailedSinks(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var names []string
		for _, e := range joined.Unwrap() {
			names = append(names, FailedSinks(e)...)
		}
		return names
	}
	var se *SinkError
	if errors.As(err, &se) {
		return []string{se.Sink}
	}
	return nil
}
