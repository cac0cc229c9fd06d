package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/atlasfield/fieldops/internal/audit"
	"github.com/atlasfield/fieldops/internal/config"
	internalhttp "github.com/atlasfield/fieldops/internal/http"
	"github.com/atlasfield/fieldops/internal/http/api/admin/handlers"
	"github.com/atlasfield/fieldops/internal/quota"
	"github.com/atlasfield/fieldops/internal/tenant"
	"github.com/atlasfield/fieldops/internal/user"
)

// Services bundles the components the admin API exposes.
type Services struct {
	Tenants    *tenant.Service
	Users      *user.Service
	Store      *quota.Store
	Guard      *quota.Guard
	Reconciler *quota.Reconciler
	Auditor    *audit.Recorder
}

// RegisterAdminRoutes wires the admin API onto the engine.
func RegisterAdminRoutes(engine *gin.Engine, conn *gorm.DB, jwtCfg config.JWTConfig, services Services) {
	engine.GET("/healthz", func(c *gin.Context) {
		status := http.StatusOK
		if conn == nil {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": http.StatusText(status)})
	})

	tenantHandler := handlers.NewTenantHandler(services.Tenants, services.Auditor)
	userHandler := handlers.NewUserHandler(services.Users, services.Auditor)
	quotaHandler := handlers.NewQuotaHandler(services.Store, services.Guard, services.Auditor)
	reconcileHandler := handlers.NewReconcileHandler(services.Reconciler, services.Auditor)

	api := engine.Group("/api", internalhttp.AdminAuthMiddleware(jwtCfg.Secret))
	{
		api.POST("/tenants", tenantHandler.Create)
		api.GET("/tenants", tenantHandler.List)
		api.GET("/tenants/:id", tenantHandler.Get)
		api.DELETE("/tenants/:id", tenantHandler.Delete)

		api.POST("/tenants/:id/users", userHandler.Create)
		api.DELETE("/tenants/:id/users/:userId", userHandler.Deactivate)

		api.GET("/tenants/:id/quotas", quotaHandler.List)
		api.GET("/tenants/:id/quotas/:type", quotaHandler.Get)
		api.PUT("/tenants/:id/quotas/:type", quotaHandler.Update)
		api.POST("/tenants/:id/quotas/:type/check", quotaHandler.Check)

		api.POST("/quotas/reconcile", reconcileHandler.Run)
	}
}
