package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderRequestAt      = "X-Request-At"
	HeaderReplayed       = "Idempotent-Replayed"

	// How long a claim lives if the handler never finishes.
	claimTTL = 60 * time.Second
	// Allowed client/server clock skew for X-Request-At (in UTC).
	maxClockSkew = 10 * time.Minute
	storeTimeout = 2 * time.Second
)

// lowercase UUID v1-v5, or 32 lowercase hex chars
var idempotencyKeyPattern = regexp.MustCompile(
	`^(?:[a-f0-9]{8}-[a-f0-9]{4}-[1-5][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}|[a-f0-9]{32})$`)

// replay is what the store keeps per key: a claim while the request runs,
// then the final response.
type replay struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	Key         string    `json:"key"`
	RequestAtMS int64     `json:"request_at_ms,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// replayStore keeps replays in Redis under idemp:<method>:<route>:<user>:<key>.
type replayStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func (s replayStore) key(method, route, userID, idemKey string) string {
	return "idemp:" + strings.ToLower(method) + ":" + route + ":" + userID + ":" + idemKey
}

// claim stores r only if nothing is stored under key yet.
func (s replayStore) claim(ctx context.Context, key string, r replay) (bool, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, claimTTL).Result()
}

func (s replayStore) load(ctx context.Context, key string) (replay, error) {
	var r replay
	v, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return r, err
	}
	err = json.Unmarshal(v, &r)
	return r, err
}

func (s replayStore) finish(ctx context.Context, key string, r replay) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, s.ttl).Err()
}

func (s replayStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

type respRecorder struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }
func (r *respRecorder) Write(b []byte) (int, error) {
	if r.buf != nil {
		r.buf.Write(b)
	}
	return r.w.Write(b)
}
func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

// Idempotency replays the stored response when a mutating request is
// retried with the same Idempotency-Key. Keys are scoped by method, route
// and the authenticated user, so it must run after Auth. X-Request-At is
// optional; when present it must be within maxClockSkew.
// 5xx responses are not stored so the client can retry them.
func Idempotency(rdb *redis.Client, ttl time.Duration, log *slog.Logger) echo.MiddlewareFunc {
	store := replayStore{rdb: rdb, ttl: ttl}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			method := req.Method

			switch method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			idemKey := strings.ToLower(strings.TrimSpace(req.Header.Get(HeaderIdempotencyKey)))
			if idemKey == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing Idempotency-Key"})
			}
			if !idempotencyKeyPattern.MatchString(idemKey) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid Idempotency-Key format"})
			}

			var reqAtMS int64
			if raw := req.Header.Get(HeaderRequestAt); strings.TrimSpace(raw) != "" {
				reqAt, err := parseRequestAt(raw)
				if err != nil {
					return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
				}
				if skew := time.Since(reqAt); skew > maxClockSkew || skew < -maxClockSkew {
					return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Request-At too skewed"})
				}
				reqAtMS = reqAt.UnixMilli()
			}

			scope := "anonymous"
			if p, ok := PrincipalFrom(c); ok {
				scope = p.UserID
			}

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewBuffer(body))
			digest := sha256Hex(body)

			key := store.key(method, c.Path(), scope, idemKey)
			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()

			claimed, err := store.claim(ctx, key, replay{
				InProgress:  true,
				BodySHA256:  digest,
				Key:         idemKey,
				RequestAtMS: reqAtMS,
				CreatedAt:   time.Now().UTC(),
			})
			if err != nil {
				log.Error("idempotency store unavailable", "key", key, "err", err)
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !claimed {
				cur, errLoad := store.load(ctx, key)
				if errLoad != nil {
					log.Warn("idempotency entry unreadable", "key", key, "err", errLoad)
				}
				if cur.BodySHA256 != "" && cur.BodySHA256 != digest {
					return c.JSON(http.StatusConflict, map[string]string{"error": "Idempotency-Key reused with different body"})
				}
				if !cur.InProgress && cur.Code != 0 && len(cur.Body) > 0 {
					c.Response().Header().Set(HeaderReplayed, "true")
					return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
				}
				return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
			}

			rec := &respRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			// request context may be done by now
			done := context.WithoutCancel(req.Context())
			if rec.code >= http.StatusInternalServerError {
				if err := store.release(done, key); err != nil {
					log.Warn("idempotency release failed", "key", key, "err", err)
				}
				return nil
			}
			err = store.finish(done, key, replay{
				Code:        rec.code,
				Body:        rec.buf.Bytes(),
				BodySHA256:  digest,
				Key:         idemKey,
				RequestAtMS: reqAtMS,
				CreatedAt:   time.Now().UTC(),
			})
			if err != nil {
				log.Warn("idempotency save failed", "key", key, "err", err)
			}
			return nil
		}
	}
}
