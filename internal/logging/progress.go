package logging

import "time"

// ProgressSampler throttles progress callbacks so tight loops do not flood
// the log or the UI. An update passes when enough wall-clock time elapsed
// since the last emitted one, or when the percentage crossed a bucket
// boundary; terminal updates (100%) always pass.
type ProgressSampler struct {
	bucketSize  float64
	minInterval time.Duration
	now         func() time.Time

	lastEmit   time.Time
	lastBucket int
}

// NewProgressSampler constructs a sampler emitting on bucket crossings
// (default 5%) or after minInterval of wall-clock time (default 50ms).
func NewProgressSampler(bucketSize float64, minInterval time.Duration) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 5
	}
	if minInterval <= 0 {
		minInterval = 50 * time.Millisecond
	}
	return &ProgressSampler{
		bucketSize:  bucketSize,
		minInterval: minInterval,
		now:         time.Now,
		lastBucket:  -1,
	}
}

// ShouldEmit reports whether a progress update at the given percentage should
// be surfaced. A nil sampler emits everything.
func (s *ProgressSampler) ShouldEmit(percent float64) bool {
	if s == nil {
		return true
	}

	now := s.now()
	emit := false

	if s.lastEmit.IsZero() || now.Sub(s.lastEmit) >= s.minInterval {
		emit = true
	}

	if percent >= 0 {
		bucket := int(percent / s.bucketSize)
		if percent >= 100 {
			bucket = int(100 / s.bucketSize)
			emit = true
		}
		if bucket > s.lastBucket {
			s.lastBucket = bucket
			emit = true
		}
	}

	if emit {
		s.lastEmit = now
	}
	return emit
}

// Reset clears the sampler state for a new run.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastEmit = time.Time{}
	s.lastBucket = -1
}
