package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/dirchart/pkg/errors"
	"github.com/matzehuels/dirchart/pkg/observability"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

// RequestIDFromContext returns the id assigned by the request-id middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// requestID reuses a well-formed incoming X-Request-ID or assigns a new UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.Server().OnRequest(r.Context(), RequestIDFromContext(r.Context()), r.Method, r.URL.Path, status, time.Since(start))
	})
}

// Limiter decides whether a client may make another request.
type Limiter interface {
	Allow(ctx context.Context, client string) (bool, error)
}

// RedisLimiter is a fixed-window counter per client kept in Redis.
type RedisLimiter struct {
	client      *redis.Client
	maxRequests int64
	window      time.Duration
}

// NewRedisLimiter allows maxRequests per client in each window.
func NewRedisLimiter(client *redis.Client, maxRequests int, window time.Duration) (*RedisLimiter, error) {
	if client == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "rate limiter needs a redis client")
	}
	if maxRequests <= 0 || window <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "rate limit must be positive, got %d per %s", maxRequests, window)
	}
	return &RedisLimiter{client: client, maxRequests: int64(maxRequests), window: window}, nil
}

// rateLimitKeyPrefix namespaces limiter counters in Redis.
const rateLimitKeyPrefix = "dirchart:ratelimit:"

// fixedWindow increments a counter and starts its expiry only on the first
// hit, so later requests in the window do not push the reset back.
var fixedWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// Allow counts the request against the client's current window.
func (l *RedisLimiter) Allow(ctx context.Context, client string) (bool, error) {
	n, err := fixedWindow.Run(ctx, l.client, []string{rateLimitKeyPrefix + client}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return n <= l.maxRequests, nil
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, err := s.limiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			// Fail open: a limiter outage should not take previews down.
			s.logger.Warn("rate limiter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			s.writeError(w, r, errors.New(errors.ErrCodeRateLimited, "too many requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
