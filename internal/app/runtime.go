package app

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"webappmanager/internal/config"
	applog "webappmanager/internal/log"
)

var configureOnce sync.Once

// Configure applies the process-wide settings derived from the environment.
// Only the first call has any effect.
func Configure(cfg *config.AppConfig) {
	configureOnce.Do(func() {
		zerolog.SetGlobalLevel(applog.ParseLevel(cfg.Logging.Level, cfg.Environment))
		if cfg.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
			gin.DebugPrintRouteFunc = func(string, string, string, int) {}
			gin.DisableConsoleColor()
			return
		}
		gin.SetMode(gin.DebugMode)
	})
}
