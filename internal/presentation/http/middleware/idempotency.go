package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/domain/entity"
	"github.com/marumbi/kahawa-api/internal/domain/repository"
)

const (
	// IdempotencyKeyHeader carries the client-chosen replay key.
	IdempotencyKeyHeader = "Idempotency-Key"

	// ReplayedHeader marks a response served from the replay store.
	ReplayedHeader = "X-Idempotency-Replayed"

	// DefaultIdempotencyTTL bounds how long a stored response can be replayed.
	DefaultIdempotencyTTL = 24 * time.Hour
)

// IdempotencyConfig wires the middleware to its replay store.
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	TTL  time.Duration
}

func (cfg IdempotencyConfig) ttl() time.Duration {
	if cfg.TTL > 0 {
		return cfg.TTL
	}
	return DefaultIdempotencyTTL
}

// bodyRecorder tees the response body so it can be stored for replay.
type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func idempotentUser(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func replayStored(c *gin.Context, record *entity.IdempotencyKey) {
	c.Header(ReplayedHeader, "true")
	c.Data(record.ResponseCode, "application/json", []byte(record.ResponseBody))
	c.Abort()
}

func storeResponse(c *gin.Context, cfg IdempotencyConfig, key string, userID uuid.UUID, rec *bodyRecorder) {
	_ = cfg.Repo.Save(c.Request.Context(), &entity.IdempotencyKey{
		Key:          key,
		UserID:       userID,
		Endpoint:     c.Request.Method + " " + c.FullPath(),
		ResponseCode: c.Writer.Status(),
		ResponseBody: rec.buf.String(),
		ExpiresAt:    time.Now().Add(cfg.ttl()),
	})
}

func abortWith(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// Idempotency replays the stored response when a mutating request carries a
// key that was already seen. The key is optional here; requests without one
// pass straight through.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		userID, ok := idempotentUser(c)
		if !ok {
			c.Next()
			return
		}

		existing, err := cfg.Repo.Find(c.Request.Context(), key, userID)
		if err != nil {
			// replay store trouble must not block the till
			c.Next()
			return
		}
		if existing != nil && !existing.IsExpired() {
			replayStored(c, existing)
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec

		c.Next()

		storeResponse(c, cfg, key, userID, rec)
	}
}

// IdempotencyRequired refuses POSTs that arrive without a key. Settlement
// routes go through this so a double submit from the till replays the
// original outcome instead of settling twice. Only 2xx responses are
// stored; a failed attempt may be retried under the same key.
func IdempotencyRequired(cfg IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			abortWith(c, http.StatusBadRequest, "Idempotency-Key header is required for this request")
			return
		}

		userID, ok := idempotentUser(c)
		if !ok {
			abortWith(c, http.StatusUnauthorized, "User not authenticated")
			return
		}

		existing, err := cfg.Repo.Find(c.Request.Context(), key, userID)
		if err != nil {
			abortWith(c, http.StatusInternalServerError, "Could not consult the replay store")
			return
		}
		if existing != nil && !existing.IsExpired() {
			replayStored(c, existing)
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec

		c.Next()

		if status := c.Writer.Status(); status >= 200 && status < 300 {
			storeResponse(c, cfg, key, userID, rec)
		}
	}
}
