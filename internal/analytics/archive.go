package analytics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wolfman30/scambait/pkg/logging"
)

// S3API is the subset of the S3 client used by Archiver.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver copies finished daily CSV files to S3. Today's file is still
// being written and is left alone.
type Archiver struct {
	client S3API
	bucket string
	dir    string
	logger *logging.Logger
	now    func() time.Time

	mu       sync.Mutex
	uploaded map[string]bool
}

// NewArchiver returns an archiver. If bucket is empty, all operations are no-ops.
func NewArchiver(client S3API, bucket, dir string, logger *logging.Logger) *Archiver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Archiver{
		client:   client,
		bucket:   bucket,
		dir:      dir,
		logger:   logger,
		now:      time.Now,
		uploaded: make(map[string]bool),
	}
}

// Enabled returns true if archival is configured.
func (a *Archiver) Enabled() bool {
	return a != nil && a.bucket != "" && a.client != nil && a.dir != ""
}

// ObjectKey is the S3 key a daily file is stored under.
func ObjectKey(name string, day time.Time) string {
	return fmt.Sprintf("analytics/%d/%02d/%02d/%s", day.Year(), day.Month(), day.Day(), name)
}

// ArchiveOnce uploads every finished file not yet uploaded by this process
// and returns how many were sent.
func (a *Archiver) ArchiveOnce(ctx context.Context) (int, error) {
	if !a.Enabled() {
		return 0, nil
	}
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return 0, fmt.Errorf("analytics: list csv dir: %w", err)
	}
	today := FileName(a.now())

	var names []string
	for _, e := range entries {
		if e.IsDir() || e.Name() == today {
			continue
		}
		if _, ok := ParseFileName(e.Name()); ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	sent := 0
	for _, name := range names {
		if a.isUploaded(name) {
			continue
		}
		if err := a.upload(ctx, name); err != nil {
			return sent, err
		}
		a.markUploaded(name)
		sent++
	}
	return sent, nil
}

func (a *Archiver) upload(ctx context.Context, name string) error {
	day, _ := ParseFileName(name)
	f, err := os.Open(filepath.Join(a.dir, name))
	if err != nil {
		return fmt.Errorf("analytics: open %s: %w", name, err)
	}
	defer f.Close()

	key := ObjectKey(name, day)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("analytics: s3 put %s: %w", key, err)
	}
	a.logger.Info("archived analytics file to S3", "file", name, "s3_key", key)
	return nil
}

func (a *Archiver) isUploaded(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.uploaded[name]
}

func (a *Archiver) markUploaded(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.uploaded[name] = true
}

// Run archives on every tick until ctx is done.
func (a *Archiver) Run(ctx context.Context, interval time.Duration) {
	if !a.Enabled() || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.ArchiveOnce(ctx); err != nil {
				a.logger.Error("analytics archive failed", "error", err)
			}
		}
	}
}
