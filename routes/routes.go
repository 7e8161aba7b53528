package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hostel-analytics/handlers"
)

// NewRouter builds the gin engine with middleware and every route registered.
func NewRouter(hb *handlers.HandlerBundle, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), handlers.ErrorHandler(hb.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterIngestRoutes(r, hb)
	RegisterSeriesRoutes(r, hb)
	RegisterAnalysisRoutes(r, hb)
	return r
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterIngestRoutes registers the batch ingestion endpoints.
func RegisterIngestRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/uploads", hb.UploadHandler)
		api.POST("/paste", hb.PasteHandler)
	}
}

// RegisterSeriesRoutes registers the read-only dashboard endpoints.
func RegisterSeriesRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/series", hb.SeriesHandler)
		api.GET("/warnings", hb.WarningsHandler)
		api.GET("/trends", hb.TrendsHandler)
		api.GET("/properties", hb.PropertiesHandler)
	}
}

// RegisterAnalysisRoutes registers the AI analysis endpoints.
func RegisterAnalysisRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/analysis")
	{
		api.POST("", hb.AnalyzeHandler)
		api.GET("", hb.ReportHandler)
	}
}
