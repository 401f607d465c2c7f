// cors.go configures Cross-Origin Resource Sharing (CORS).
//
// The HTML page is served same-origin, so CORS only matters for scripts on
// other origins calling /api/v1 (for example a locally opened page).
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns configured CORS middleware.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Disposition", "Content-Length"},
		AllowCredentials: true, // the visitor cookie must travel with API calls
		MaxAge:           12 * time.Hour,
	})
}
