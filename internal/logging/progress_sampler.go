package logging

import "strings"

// ProgressSampler suppresses repetitive encode progress logs. It emits when
// the tracked file changes or the percentage crosses into a new bucket.
type ProgressSampler struct {
	bucketSize float64
	lastFile   string
	lastBucket int
}

// NewProgressSampler constructs a sampler with the given bucket size in
// percent (default 10).
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether a progress event for file at percent should be
// logged. A negative percent means unknown and never opens a new bucket.
func (s *ProgressSampler) ShouldLog(file string, percent float64) bool {
	if s == nil {
		return true
	}
	emit := false
	if file = strings.TrimSpace(file); file != s.lastFile {
		s.lastFile = file
		s.lastBucket = -1
		emit = true
	}
	if percent < 0 {
		return emit
	}
	if percent > 100 {
		percent = 100
	}
	if bucket := int(percent / s.bucketSize); bucket > s.lastBucket {
		s.lastBucket = bucket
		emit = true
	}
	return emit
}
