package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/marumbi/kahawa-api/internal/config"
)

var (
	devOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

	defaultMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}

	defaultHeaders = []string{
		"Accept",
		"Authorization",
		"Content-Type",
		"Origin",
		"X-Request-ID",
		"Idempotency-Key",
	}
)

// CORSMiddleware builds the CORS policy from config, falling back to
// development defaults for any section left empty.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = devOrigins
	}

	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = defaultMethods
	}

	headers := cfg.AllowedHeaders
	if len(headers) == 0 {
		headers = defaultHeaders
	} else if !containsFold(headers, IdempotencyKeyHeader) {
		// settlement routes refuse requests without the key
		headers = append(headers, IdempotencyKeyHeader)
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     methods,
		AllowHeaders:     headers,
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", ReplayedHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func containsFold(list []string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
