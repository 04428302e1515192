package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lironatar/TasksList/pkg/response"
)

const healthPingTimeout = 2 * time.Second

// Health reports readiness, including a database ping when db is set.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		checks := gin.H{}

		if db != nil {
			ctx, cancel := context.WithTimeout(requestContext(c), healthPingTimeout)
			defer cancel()

			checks["database"] = "ok"
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				checks["database"] = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}

		state := "ok"
		if status != http.StatusOK {
			state = "degraded"
		}
		response.Success(c, status, gin.H{
			"status":     state,
			"checks":     checks,
			"checked_at": time.Now().UTC(),
		})
	}
}
