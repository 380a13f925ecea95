package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-SharingService/internal/api/handlers"
)

const (
	defaultBurst       = 5
	msgTooManyRequests = "слишком много запросов"

	// DefaultCleanupInterval период очистки неактивных лимитеров
	DefaultCleanupInterval = time.Minute
	// DefaultIdleTTL время без запросов, после которого лимитер удаляется
	DefaultIdleTTL = 10 * time.Minute
)

// RateLimiter ограничивает частоту запросов для каждого пользователя.
// Запросы без ID пользователя ограничиваются по IP адресу.
// Лимитеры неактивных вызывающих удаляются Cleanup, поэтому память ограничена числом активных ключей.
type RateLimiter struct {
	limiters sync.Map
	rps      rate.Limit
	burst    int
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nano
}

// NewRateLimiter создает ограничитель на rps запросов в секунду с запасом burst
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = defaultBurst
	}
	return &RateLimiter{
		rps:   rate.Limit(rps),
		burst: burst,
		now:   time.Now,
	}
}

func (l *RateLimiter) getLimiter(key string) *rate.Limiter {
	entry := l.getEntry(key)
	entry.lastSeen.Store(l.now().UnixNano())
	return entry.limiter
}

func (l *RateLimiter) getEntry(key string) *limiterEntry {
	if v, ok := l.limiters.Load(key); ok {
		if entry, ok := v.(*limiterEntry); ok {
			return entry
		}
	}

	entry := &limiterEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
	entry.lastSeen.Store(l.now().UnixNano())
	actual, loaded := l.limiters.LoadOrStore(key, entry)
	if loaded {
		if actualEntry, ok := actual.(*limiterEntry); ok {
			return actualEntry
		}
	}
	return entry
}

// Cleanup удаляет лимитеры, к которым не обращались дольше idleTTL. Возвращает число удаленных.
func (l *RateLimiter) Cleanup(idleTTL time.Duration) int {
	deadline := l.now().Add(-idleTTL).UnixNano()
	removed := 0

	l.limiters.Range(func(key, value interface{}) bool {
		entry, ok := value.(*limiterEntry)
		if !ok || entry.lastSeen.Load() < deadline {
			l.limiters.Delete(key)
			removed++
		}
		return true
	})

	return removed
}

// StartCleanup периодически очищает неактивные лимитеры до закрытия stopCh
func (l *RateLimiter) StartCleanup(interval, idleTTL time.Duration, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				l.Cleanup(idleTTL)
			case <-stopCh:
				return
			}
		}
	}()
}

// Middleware отклоняет запрос с 429, если лимит вызывающего исчерпан
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.getLimiter(limiterKey(r)).Allow() {
			handlers.RespondTooManyRequests(w, msgTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func limiterKey(r *http.Request) string {
	if userID, ok := GetUserID(r.Context()); ok {
		return "user:" + strconv.FormatInt(userID, 10)
	}
	if raw := r.Header.Get(UserIDHeader); raw != "" {
		return "user:" + raw
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
