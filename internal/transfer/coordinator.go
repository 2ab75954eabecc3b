package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/beanbocchi/portage/internal/client/objectstore"
	"github.com/beanbocchi/portage/internal/source"
	"github.com/beanbocchi/portage/internal/utils/blake3"
	"github.com/beanbocchi/portage/internal/utils/ioutil"
	"github.com/beanbocchi/portage/internal/utils/progressr"
)

type Status string

const (
	StatusPending      Status = "pending"
	StatusDownloading  Status = "downloading"
	StatusStrategizing Status = "strategizing"
	StatusUploading    Status = "uploading"
	StatusFinalizing   Status = "finalizing"
	StatusDone         Status = "done"
	StatusFailed       Status = "failed"
)

// Transfer identifies one object move. It is owned exclusively by the
// coordinator for its lifetime.
type Transfer struct {
	ID         string
	Owner      string
	ObjectName string
	Namespace  string
	SourceRef  string
	Size       int64
	Strategy   string
	Status     Status
	Error      string
}

// Request describes one relay to perform.
type Request struct {
	Owner     string
	SourceRef string
	Namespace string
	// ObjectName overrides the name derived from the source ref.
	ObjectName string
	// ID carries a caller-assigned transfer id. Callers that pre-register the
	// owner in the registry pass the same id here. Empty means generate one.
	ID string
}

// Result reports a finished transfer.
type Result struct {
	Transfer  Transfer
	PartCount int
	// Manifest is nil for single-part transfers.
	Manifest *Manifest
}

// Journal persists transfer and part state as it changes, so partial state
// survives a crash for diagnostics. Journal failures are logged, never fatal.
type Journal interface {
	TransferStarted(ctx context.Context, t Transfer) error
	TransferUpdated(ctx context.Context, t Transfer) error
	PartUploaded(ctx context.Context, transferID string, d PartDescriptor) error
}

// Counters is the injected, thread-safe counter service keyed by size bucket.
type Counters interface {
	TransferDone(size int64)
	TransferFailed(size int64)
	PartUploaded(objectSize, partSize int64)
	StrategyFallback(objectSize int64)
}

type nopJournal struct{}

func (nopJournal) TransferStarted(context.Context, Transfer) error { return nil }

func (nopJournal) TransferUpdated(context.Context, Transfer) error { return nil }

func (nopJournal) PartUploaded(context.Context, string, PartDescriptor) error { return nil }

type nopCounters struct{}

func (nopCounters) TransferDone(int64)        {}
func (nopCounters) TransferFailed(int64)      {}
func (nopCounters) PartUploaded(int64, int64) {}
func (nopCounters) StrategyFallback(int64)    {}

// Coordinator drives end-to-end transfers: spool from source, select a
// strategy, chunk and upload, emit the manifest, clean up. One logical worker
// per transfer; transfers for different owners run concurrently.
type Coordinator struct {
	store    objectstore.Client
	source   source.Provider
	registry *Registry
	notifier Notifier
	classify Classifier
	journal  Journal
	counters Counters
	log      *slog.Logger

	ladder           Ladder
	stagingRoot      string
	hardCeiling      int64
	progressInterval time.Duration
	retryAttempts    int
	retryBaseDelay   time.Duration
}

type CoordinatorConfig struct {
	Store    objectstore.Client
	Source   source.Provider
	Registry *Registry
	Notifier Notifier

	Classifier Classifier
	Journal    Journal
	Counters   Counters
	Logger     *slog.Logger

	// Ladder is the strategy table (default DefaultLadder).
	Ladder Ladder

	// StagingRoot is the directory for transfer-scoped scratch space.
	StagingRoot string
	// HardCeiling is the absolute object size limit in bytes. Zero disables it.
	HardCeiling int64
	// ProgressInterval throttles notifications to the sink (default 2s).
	ProgressInterval time.Duration
	// RetryAttempts and RetryBaseDelay configure the per-part upload attempter.
	RetryAttempts  int
	RetryBaseDelay time.Duration
}

func NewCoordinator(cfg CoordinatorConfig) (*Coordinator, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Source == nil {
		return nil, fmt.Errorf("source provider is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.StagingRoot == "" {
		return nil, fmt.Errorf("staging root is required")
	}
	if cfg.Classifier == nil {
		cfg.Classifier = DefaultClassifier
	}
	if cfg.Journal == nil {
		cfg.Journal = nopJournal{}
	}
	if cfg.Counters == nil {
		cfg.Counters = nopCounters{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if len(cfg.Ladder) == 0 {
		cfg.Ladder = DefaultLadder
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = 2 * time.Second
	}
	if err := os.MkdirAll(cfg.StagingRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create staging root: %w", err)
	}
	return &Coordinator{
		store:            cfg.Store,
		source:           cfg.Source,
		registry:         cfg.Registry,
		notifier:         cfg.Notifier,
		classify:         cfg.Classifier,
		journal:          cfg.Journal,
		counters:         cfg.Counters,
		log:              cfg.Logger,
		ladder:           cfg.Ladder,
		stagingRoot:      cfg.StagingRoot,
		hardCeiling:      cfg.HardCeiling,
		progressInterval: cfg.ProgressInterval,
		retryAttempts:    cfg.RetryAttempts,
		retryBaseDelay:   cfg.RetryBaseDelay,
	}, nil
}

// Run performs one transfer. A second call for the same owner while one is in
// flight fails immediately with ErrOwnerBusy. All staged bytes are removed
// and the owner deregistered on every exit path.
func (c *Coordinator) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Owner == "" {
		return nil, fmt.Errorf("owner is required")
	}
	if req.Namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}
	if err := c.registry.Acquire(req.Owner, id); err != nil {
		return nil, err
	}
	defer c.registry.Release(req.Owner)

	dir := filepath.Join(c.stagingRoot, id)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			c.log.Error("failed to remove staging dir", "transfer", id, "error", err)
		}
	}()

	objectName := req.ObjectName
	if objectName == "" {
		objectName = path.Base(req.SourceRef)
	}

	t := Transfer{
		ID:         id,
		Owner:      req.Owner,
		ObjectName: objectName,
		Namespace:  req.Namespace,
		SourceRef:  req.SourceRef,
		Size:       source.SizeUnknown,
		Status:     StatusPending,
	}
	c.journalStarted(ctx, t)

	// A consumer always runs, even without a sink: the final-event sends below
	// block, and an unconsumed buffer would wedge Run and leave the owner
	// registered forever.
	events := make(chan Event, 64)
	throttlerDone := make(chan struct{})
	go func() {
		defer close(throttlerDone)
		if c.notifier != nil {
			RunThrottler(ctx, events, c.notifier, c.progressInterval, c.log)
			return
		}
		for range events {
		}
	}()
	defer func() {
		close(events)
		<-throttlerDone
	}()

	res, err := c.run(ctx, &t, req, dir, events)
	if err != nil {
		t.Status = StatusFailed
		t.Error = truncate(err.Error(), 300)
		c.journalUpdated(ctx, t)
		c.counters.TransferFailed(t.Size)
		events <- Event{TransferID: id, Stage: string(StatusFailed), Final: true,
			Message: fmt.Sprintf("failed: %s", userFacing(err))}
		return nil, err
	}

	t.Status = StatusDone
	res.Transfer = t
	c.journalUpdated(ctx, t)
	c.counters.TransferDone(t.Size)
	events <- Event{TransferID: id, Stage: string(StatusDone), Done: t.Size, Total: t.Size, Final: true,
		Message: fmt.Sprintf("done: %s relayed as %d part(s) (%s)", objectName, res.PartCount, FormatBytes(t.Size))}
	return res, nil
}

func (c *Coordinator) run(ctx context.Context, t *Transfer, req Request, dir string, events chan<- Event) (*Result, error) {
	// Downloading: spool the source stream to local storage. A failure here is
	// fatal; no partial-object upload is ever attempted.
	t.Status = StatusDownloading
	c.journalUpdated(ctx, *t)

	body, reported, err := c.source.Fetch(ctx, req.SourceRef)
	if err != nil {
		return nil, &SourceReadError{Err: err}
	}
	if c.hardCeiling > 0 && reported > c.hardCeiling {
		body.Close()
		return nil, &SizeLimitError{Size: reported, Ceiling: c.hardCeiling}
	}

	objectPath := filepath.Join(dir, "object")
	actual, err := c.spool(ctx, t.ID, body, objectPath, reported, events)
	body.Close()
	if err != nil {
		return nil, err
	}
	t.Size = actual

	// Strategizing: the chunk-size decision uses the size reported up front;
	// when the source could not report one, the conservative default stands
	// and only the hard ceiling is validated against the actual size.
	t.Status = StatusStrategizing
	strategy := c.ladder.Select(reported)
	t.Strategy = strategy.Name
	c.journalUpdated(ctx, *t)

	attempter, err := NewAttempter(AttempterConfig{
		Store:       c.store,
		Classifier:  c.classify,
		Logger:      c.log,
		Ladder:      c.ladder,
		MaxAttempts: c.retryAttempts,
		BaseDelay:   c.retryBaseDelay,
	})
	if err != nil {
		return nil, err
	}

	t.Status = StatusUploading
	c.journalUpdated(ctx, *t)

	base := path.Join(req.Namespace, t.ObjectName)
	builder, finalStrategy, err := c.uploadParts(ctx, t, strategy, attempter, dir, objectPath, base, events)
	if err != nil {
		return nil, err
	}

	res := &Result{PartCount: builder.PartCount()}

	// Finalizing: multi-part transfers get a manifest, uploaded as one final,
	// never-split part.
	if builder.PartCount() > 1 {
		t.Status = StatusFinalizing
		c.journalUpdated(ctx, *t)

		manifest, err := c.uploadManifest(ctx, builder, finalStrategy, attempter, dir, objectPath, base)
		if err != nil {
			return nil, err
		}
		res.Manifest = manifest
	}

	res.Transfer = *t
	return res, nil
}

// spool copies the source stream to a staging file, enforcing the hard size
// ceiling and reporting download progress. Returns the actual byte size.
func (c *Coordinator) spool(ctx context.Context, id string, body io.Reader, dst string, reported int64, events chan<- Event) (int64, error) {
	f, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("create staging file: %w", err)
	}

	var src io.Reader = body
	if c.hardCeiling > 0 {
		src = ioutil.NewCeilingReader(src, c.hardCeiling)
	}
	progress := progressr.NewReader(src, reported)

	copyDone := make(chan struct{})
	reporterDone := make(chan struct{})
	go func() {
		defer close(reporterDone)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-copyDone:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case events <- Event{TransferID: id, Stage: string(StatusDownloading),
					Done: progress.Current(), Total: reported}:
				default:
				}
			}
		}
	}()

	written, err := io.Copy(f, progress)
	close(copyDone)
	// Join the reporter so no send can outlive the events channel.
	<-reporterDone
	if cerr := f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		if errors.Is(err, ioutil.ErrCeilingExceeded) {
			return 0, &SizeLimitError{Size: progress.Current(), Ceiling: c.hardCeiling}
		}
		return 0, &SourceReadError{Err: err}
	}
	return written, nil
}

// uploadParts runs the chunk+upload loop, walking the strategy ladder down on
// quota rejections. Already-uploaded parts are kept; only the unsent
// remainder is re-chunked, restarting from the last committed offset (the
// rejected in-flight part's staged bytes are discarded).
func (c *Coordinator) uploadParts(ctx context.Context, t *Transfer, strategy Strategy, attempter *Attempter, dir, objectPath, base string, events chan<- Event) (*ManifestBuilder, Strategy, error) {
	builder := NewManifestBuilder(t.ObjectName, t.Owner)
	offset := int64(0)
	ordinal := 1

	for {
		chunkSize := strategy.ChunkSize
		if ceiling := attempter.Ceiling(); ceiling < chunkSize {
			chunkSize = ceiling
		}

		// Whole object still fits in one part: upload it under its own name,
		// no chunk copies, no manifest.
		if builder.PartCount() == 0 && t.Size <= chunkSize {
			part := Part{Ordinal: 1, Size: t.Size, Path: objectPath}
			err := attempter.Attempt(ctx, part, base, strategy)
			if err == nil {
				if aerr := builder.AddPart(base, t.Size, 1); aerr != nil {
					return nil, strategy, aerr
				}
				c.commitPart(ctx, t, PartDescriptor{Name: base, Size: t.Size, Ordinal: 1})
				return builder, strategy, nil
			}
			var quota *QuotaError
			if !errors.As(err, &quota) {
				return nil, strategy, err
			}
			next, ok := c.fallback(t, strategy)
			if !ok {
				return nil, strategy, ErrLadderExhausted
			}
			strategy = next
			continue
		}

		f, err := os.Open(objectPath)
		if err != nil {
			return nil, strategy, fmt.Errorf("open staged object: %w", err)
		}
		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			f.Close()
			return nil, strategy, fmt.Errorf("seek staged object: %w", err)
		}

		chunker, err := NewChunker(f, dir, chunkSize, ordinal)
		if err != nil {
			f.Close()
			return nil, strategy, err
		}

		rejected := false
		for {
			part, err := chunker.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				f.Close()
				return nil, strategy, err
			}

			name := part.RemoteName(base)
			uploadErr := attempter.Attempt(ctx, part, name, strategy)
			if uploadErr != nil {
				// Scoped staging release also applies on give-up.
				if rerr := part.Release(); rerr != nil {
					c.log.Error("failed to release staged part", "part", part.Ordinal, "error", rerr)
				}
				var quota *QuotaError
				if errors.As(uploadErr, &quota) {
					rejected = true
					break
				}
				f.Close()
				return nil, strategy, uploadErr
			}

			if err := builder.AddPart(name, part.Size, part.Ordinal); err != nil {
				f.Close()
				return nil, strategy, err
			}
			offset += part.Size
			ordinal = part.Ordinal + 1
			if rerr := part.Release(); rerr != nil {
				c.log.Error("failed to release staged part", "part", part.Ordinal, "error", rerr)
			}
			c.commitPart(ctx, t, PartDescriptor{Name: name, Size: part.Size, Ordinal: part.Ordinal})

			select {
			case events <- Event{TransferID: t.ID, Stage: string(StatusUploading), Done: offset, Total: t.Size}:
			default:
			}
		}
		f.Close()

		if !rejected {
			return builder, strategy, nil
		}

		next, ok := c.fallback(t, strategy)
		if !ok {
			return nil, strategy, ErrLadderExhausted
		}
		strategy = next
	}
}

func (c *Coordinator) fallback(t *Transfer, cur Strategy) (Strategy, bool) {
	next, ok := c.ladder.NextSmaller(cur)
	if !ok {
		return Strategy{}, false
	}
	c.counters.StrategyFallback(t.Size)
	c.log.Info("falling back to smaller chunk strategy",
		"transfer", t.ID, "from", cur.Name, "to", next.Name)
	t.Strategy = next.Name
	return next, true
}

func (c *Coordinator) uploadManifest(ctx context.Context, builder *ManifestBuilder, strategy Strategy, attempter *Attempter, dir, objectPath, base string) (*Manifest, error) {
	digest, err := blake3.ComputeFile(objectPath)
	if err != nil {
		return nil, fmt.Errorf("compute object digest: %w", err)
	}

	manifest := builder.Build(strategy.ChunkSize, digest)
	data, err := manifest.Encode()
	if err != nil {
		return nil, err
	}

	manifestPath := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("stage manifest: %w", err)
	}

	part := Part{Ordinal: manifest.PartCount + 1, Size: int64(len(data)), Path: manifestPath}
	if err := attempter.Attempt(ctx, part, ManifestName(base), strategy); err != nil {
		return nil, fmt.Errorf("upload manifest: %w", err)
	}
	return &manifest, nil
}

func (c *Coordinator) commitPart(ctx context.Context, t *Transfer, d PartDescriptor) {
	c.counters.PartUploaded(t.Size, d.Size)
	if err := c.journal.PartUploaded(ctx, t.ID, d); err != nil {
		c.log.Error("failed to journal part", "transfer", t.ID, "part", d.Ordinal, "error", err)
	}
}

func (c *Coordinator) journalStarted(ctx context.Context, t Transfer) {
	if err := c.journal.TransferStarted(ctx, t); err != nil {
		c.log.Error("failed to journal transfer start", "transfer", t.ID, "error", err)
	}
}

func (c *Coordinator) journalUpdated(ctx context.Context, t Transfer) {
	if err := c.journal.TransferUpdated(ctx, t); err != nil {
		c.log.Error("failed to journal transfer update", "transfer", t.ID, "error", err)
	}
}

// userFacing classifies a terminal error for the notification sink.
func userFacing(err error) string {
	var quotaErr *QuotaError
	var sizeErr *SizeLimitError
	var srcErr *SourceReadError
	switch {
	case errors.Is(err, ErrLadderExhausted):
		return "the backend rejected every chunk size (size limit or quota); reduce the object size or use a different namespace class"
	case errors.As(err, &quotaErr):
		return "the backend rejected the upload (size limit or quota); reduce the object size or use a different namespace class"
	case errors.As(err, &sizeErr):
		return sizeErr.Error()
	case errors.As(err, &srcErr):
		return "could not read the object from its source"
	default:
		return "network trouble while uploading; try again later"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
