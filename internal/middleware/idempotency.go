package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hrms-lite/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Idempotency melindungi POST (terutama bulk marking) dari double submit.
// Hasil sukses di-cache per Idempotency-Key; request ganda yang masih
// berjalan ditolak dengan 409 lewat lock SetNX.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")

		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), c.ClientIP(), idempKey)
		lockKey := cacheKey + ":lock"

		// 1. CEK CACHE
		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			var cachedRes any
			json.Unmarshal([]byte(val), &cachedRes)
			response.Success(c, http.StatusOK, cachedRes, nil)
			c.Abort()
			return
		}

		// 2. ATOMIC LOCK (SetNX)
		// Set expiry pendek agar jika server crash, lock otomatis hilang.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()

		if !isNew {
			// Request ganda terdeteksi saat proses masih berlangsung
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "Request with this idempotency key is still being processed",
			})
			return
		}

		// Lock dan cache key disimpan di context agar handler bisa
		// menulis hasilnya setelah selesai.
		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}

// StoreIdempotentResult dipanggil handler setelah operasi sukses
func StoreIdempotentResult(c *gin.Context, rdb *redis.Client, result any) {
	cacheKey := c.GetString("idempotency_cache_key")
	lockKey := c.GetString("idempotency_lock_key")
	if rdb == nil || cacheKey == "" {
		return
	}

	if payload, err := json.Marshal(result); err == nil {
		rdb.Set(c.Request.Context(), cacheKey, payload, 10*time.Minute)
	}
	if lockKey != "" {
		rdb.Del(c.Request.Context(), lockKey)
	}
}
