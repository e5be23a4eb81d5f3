package controller

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

func pauseFlagFile() string {
	if path := os.Getenv("SCRIBA_PAUSE_FILE"); path != "" {
		return path
	}
	return ".scriba_paused"
}

// IsPaused reports whether the service is in maintenance mode: the env flag
// is set or the pause flag file exists in the working dir. Both are checked
// per request, so flipping either takes effect without a restart.
func IsPaused() bool {
	if strings.ToLower(os.Getenv("SCRIBA_PAUSED")) == "true" {
		return true
	}

	_, err := os.Stat(pauseFlagFile())
	return err == nil
}

// Pause short-circuits every request while the service is paused. The health
// endpoint stays reachable and reports the paused state itself.
func Pause() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !IsPaused() || ctx.Request.URL.Path == "/health" {
			ctx.Next()
			return
		}

		ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"status":  "paused",
			"message": "Service temporarily paused",
		})
	}
}

func Health(ctx *gin.Context) {
	if IsPaused() {
		ctx.JSON(http.StatusOK, gin.H{"status": "paused", "service": "scriba"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "service": "scriba"})
}
