package events

import (
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	retryBase = 500 * time.Millisecond
	retryCap  = 30 * time.Second
)

// retrySchedule is a capped exponential backoff that never gives up.
type retrySchedule struct {
	base, cap time.Duration
}

func (r retrySchedule) backoff() retry.Backoff {
	if r.base <= 0 {
		r = defaultRetry
	}
	return retry.WithCappedDuration(r.cap, retry.WithJitterPercent(10, retry.NewExponential(r.base)))
}

var defaultRetry = retrySchedule{base: retryBase, cap: retryCap}
