package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Mostafa-SAID7/paytrack-app/internal/shared/apperror"
	"github.com/Mostafa-SAID7/paytrack-app/internal/shared/contextutil"
	"github.com/Mostafa-SAID7/paytrack-app/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	IdempotencyReplayHeader  = "Idempotent-Replayed"
	idempotencyLockTTL       = 30 * time.Second
	idempotencyResponseTTL   = 24 * time.Hour
	idempotencyCacheKeyScope = "idemp"
)

type cachedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func IdempotencyCacheKey(path, key string) string {
	return fmt.Sprintf("%s:%s:%s", idempotencyCacheKeyScope, path, key)
}

// Idempotency replays the stored response of a POST that was already served
// with the same Idempotency-Key and rejects a duplicate that arrives while the
// first one is still running.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(IdempotencyKeyHeader)
		if rdb == nil || idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		logger := contextutil.GetLogger(ctx, zap.L().Named("middleware.idempotency"))
		cacheKey := IdempotencyCacheKey(c.FullPath(), idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached cachedResponse
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				c.Header(IdempotencyReplayHeader, "true")
				c.Data(cached.Status, "application/json; charset=utf-8", cached.Body)
				c.Abort()
				return
			}
		}

		acquired, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			logger.Warn("idempotency lock unavailable, serving without it", zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			response.FromError(c, apperror.ErrRequestInProgress)
			c.Abort()
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder

		c.Next()

		status := recorder.Status()
		if status < http.StatusInternalServerError {
			payload, err := json.Marshal(cachedResponse{Status: status, Body: recorder.body.Bytes()})
			if err == nil {
				if err := rdb.Set(ctx, cacheKey, payload, idempotencyResponseTTL).Err(); err != nil {
					logger.Warn("idempotency store response failed", zap.Error(err))
				}
			}
		}
		if err := rdb.Del(ctx, lockKey).Err(); err != nil {
			logger.Warn("idempotency release lock failed", zap.Error(err))
		}
	}
}
