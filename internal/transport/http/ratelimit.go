package http

import "golang.org/x/time/rate"

// chatLimiter throttles chat messages per connection so one participant
// cannot flood a room. Playback sync events are deliberately not limited:
// seeking produces legitimate bursts.
type chatLimiter struct {
	limiter *rate.Limiter
}

func newChatLimiter(perSec float64, burst int) *chatLimiter {
	if perSec <= 0 {
		return &chatLimiter{}
	}
	if burst <= 0 {
		burst = 1
	}
	return &chatLimiter{limiter: rate.NewLimiter(rate.Limit(perSec), burst)}
}

func (l *chatLimiter) allow() bool {
	if l == nil || l.limiter == nil {
		return true
	}
	return l.limiter.Allow()
}
