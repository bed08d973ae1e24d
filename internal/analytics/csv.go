package analytics

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"
)

const csvDayLayout = "20060102"

var csvFilePattern = regexp.MustCompile(`^scammer_analysis_(\d{8})\.csv$`)

// FileName is the daily CSV file name for day.
func FileName(day time.Time) string {
	return fmt.Sprintf("scammer_analysis_%s.csv", day.UTC().Format(csvDayLayout))
}

// ParseFileName returns the day encoded in a daily CSV file name.
func ParseFileName(name string) (time.Time, bool) {
	m := csvFilePattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}
	day, err := time.Parse(csvDayLayout, m[1])
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// CSVSink appends records to one CSV file per UTC day. The header is
// written when a file is created.
type CSVSink struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

// NewCSVSink creates dir if needed.
func NewCSVSink(dir string) (*CSVSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("analytics: csv directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("analytics: create csv dir: %w", err)
	}
	return &CSVSink{dir: dir, now: time.Now}, nil
}

// Dir is the directory the sink writes into.
func (s *CSVSink) Dir() string { return s.dir }

// Path is the file a record stamped at ts lands in.
func (s *CSVSink) Path(ts time.Time) string {
	return filepath.Join(s.dir, FileName(ts))
}

func (s *CSVSink) Append(_ context.Context, rec Record) error {
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.Path(ts), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("analytics: open csv: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("analytics: stat csv: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("analytics: write csv header: %w", err)
		}
	}
	if err := w.Write(rec.Row()); err != nil {
		return fmt.Errorf("analytics: write csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("analytics: flush csv: %w", err)
	}
	return nil
}
