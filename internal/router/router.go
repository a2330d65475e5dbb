package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"grokimg/internal/handler"
	"grokimg/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	log zerolog.Logger,
	allowedOrigins []string,
	imageH *handler.ImageHandler,
	healthH *handler.HealthHandler,
	metricsHandler http.Handler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	// Locally stored images, addressable as /images/upload-<id>.<ext>
	r.GET("/images/:name", imageH.Serve)

	v1 := r.Group("/api/v1")

	images := v1.Group("/images")
	images.POST("", imageH.Store)
	images.POST("/upload", imageH.Upload)

	return r
}
