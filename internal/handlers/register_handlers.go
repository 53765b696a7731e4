package handlers

import (
	"net/http"

	"github.com/corebooks/corebooks_backend/cmd/docs"
	"github.com/corebooks/corebooks_backend/internal/core/services"
	"github.com/corebooks/corebooks_backend/internal/middleware"
	"github.com/corebooks/corebooks_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	svcs *services.Container,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Setup API v1 routes with tenant context middleware
	setupAPIV1Routes(r, cfg, svcs)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	svcs *services.Container,
) {
	// Every v1 route runs under a company and actor supplied by headers.
	v1 := r.Group("/api/v1", middleware.RateLimit(cfg.APIRateLimit), middleware.TenantContextMiddleware())

	registerAccountRoutes(v1, svcs.Account)
	registerFiscalRoutes(v1, svcs.Fiscal)
	registerJournalRoutes(v1, svcs.Journal)
	registerBalanceRoutes(v1, svcs.Balance)
	registerInventoryRoutes(v1, svcs.Inventory)
	registerDocumentRoutes(v1, svcs.DocumentBridge)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// tenantFromContext pulls the company and actor set by the tenant middleware.
// Writes the error response itself when either is missing.
func tenantFromContext(c *gin.Context) (companyID string, actorID string, ok bool) {
	companyID, ok = middleware.GetCompanyIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Company context missing"})
		return "", "", false
	}
	actorID, ok = middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Actor context missing"})
		return "", "", false
	}
	return companyID, actorID, true
}
