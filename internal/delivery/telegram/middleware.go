package telegram

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := fn(ctx, chatID); err != nil {
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
			return nil
		}
		return nil
	}
}

const (
	limiterCleanupInterval = time.Minute
	limiterIdleTTL         = 10 * time.Minute
)

type visitor struct {
	limiter   *rate.Limiter
	lastSeen  time.Time
	throttled bool
}

// chatLimiter throttles updates per chat. A nil limiter allows everything.
type chatLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	visitors map[int64]*visitor
}

func newChatLimiter(perSecond float64, burst int) *chatLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &chatLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		visitors: make(map[int64]*visitor),
	}
}

// Allow reports whether an update from chatID may be handled.
// notify is true only for the first rejected update after an allowed one,
// so a flood gets a single notice.
func (l *chatLimiter) Allow(chatID int64, now time.Time) (allowed, notify bool) {
	if l == nil {
		return true, false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[chatID]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[chatID] = v
	}
	v.lastSeen = now

	if v.limiter.AllowN(now, 1) {
		v.throttled = false
		return true, false
	}

	notify = !v.throttled
	v.throttled = true
	return false, notify
}

// cleanup drops chats that have been idle for longer than limiterIdleTTL.
func (l *chatLimiter) cleanup(now time.Time) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for chatID, v := range l.visitors {
		if now.Sub(v.lastSeen) > limiterIdleTTL {
			delete(l.visitors, chatID)
		}
	}
}

func (l *chatLimiter) size() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}
