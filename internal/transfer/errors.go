package transfer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a backend upload failure.
type ErrorKind int

const (
	// KindTransient covers network/timeout class failures, retryable in place.
	KindTransient ErrorKind = iota
	// KindQuota covers object-size or storage-class rejections. Not retryable
	// at the current chunk size; triggers strategy fallback instead.
	KindQuota
)

func (k ErrorKind) String() string {
	if k == KindQuota {
		return "quota"
	}
	return "transient"
}

// Classifier maps a backend error to an ErrorKind. The backend does not
// expose a structured taxonomy over this transport, so deployments may
// substitute their own classifier for DefaultClassifier.
type Classifier func(err error) ErrorKind

// quotaMarkers is a heuristic default, not a contract: substrings observed in
// size-limit and quota rejections from the supported backends.
var quotaMarkers = []string{
	"403",
	"quota",
	"lfs",
	"storage limit",
	"too large",
	"exceeds",
}

// DefaultClassifier treats errors mentioning any known quota/limit marker as
// KindQuota and everything else as KindTransient.
func DefaultClassifier(err error) ErrorKind {
	if err == nil {
		return KindTransient
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range quotaMarkers {
		if strings.Contains(msg, marker) {
			return KindQuota
		}
	}
	return KindTransient
}

var (
	// ErrOwnerBusy rejects a second transfer for an owner that already has one
	// in flight.
	ErrOwnerBusy = errors.New("owner already has an active transfer")

	// ErrLadderExhausted means the smallest strategy was also rejected.
	ErrLadderExhausted = errors.New("strategy ladder exhausted")
)

// SourceReadError is fatal: the download is atomic-or-fail, no partial-object
// upload is attempted.
type SourceReadError struct {
	Err error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("source read failed: %v", e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// QuotaError carries a backend quota/limit rejection up to the fallback logic.
type QuotaError struct {
	Strategy string
	Err      error
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("backend rejected chunk size of strategy %q: %v", e.Strategy, e.Err)
}

func (e *QuotaError) Unwrap() error { return e.Err }

// RetriesExhaustedError is returned when transient retries are used up.
type RetriesExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("upload failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetriesExhaustedError) Unwrap() error { return e.Err }

// SizeLimitError rejects objects beyond the configured hard ceiling before
// (or during) spooling.
type SizeLimitError struct {
	Size    int64
	Ceiling int64
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("object size %s exceeds hard ceiling %s", FormatBytes(e.Size), FormatBytes(e.Ceiling))
}
