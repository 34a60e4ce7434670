package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sakaylink/config"
	"sakaylink/internal/auth"
	"sakaylink/internal/domain"
	"sakaylink/internal/geo"
	"sakaylink/internal/handler"
	"sakaylink/internal/middleware"
	"sakaylink/internal/presence"
	"sakaylink/internal/repository"
	"sakaylink/internal/service"
	"sakaylink/internal/ws"
	"sakaylink/pkg/cloudinary"
)

func Setup(cfg *config.Config, db *gorm.DB, rdb *redis.Client, cloud cloudinary.Client, log *zap.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	driverRepo := repository.NewDriverRepository(db)
	locRepo := repository.NewLocationRepository(db)
	geoIndex := geo.NewIndex(rdb)

	store := presence.NewStore(locRepo, userRepo, geoIndex, auth.ContextProvider{},
		presence.WithSnapshotBuffer(cfg.Presence.SnapshotBuffer),
		presence.WithLogger(log.Named("presence")),
	)

	documents := service.NewDocumentService(driverRepo, cloud, cfg.Cloudinary.Folder, log.Named("documents"))

	// Handlers
	locationHandler := handler.NewLocationHandler(store)
	presenceHandler := handler.NewPresenceHandler(store)
	driverHandler := handler.NewDriverHandler(store, geoIndex)
	documentHandler := handler.NewDocumentHandler(documents)

	authMw := middleware.AuthRequired(&cfg.JWT)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		me := api.Group("/me")
		me.Use(authMw)
		{
			me.PATCH("/location", locationHandler.UpdateLocation)
			me.GET("/location", locationHandler.GetMyLocation)
			me.DELETE("/location", locationHandler.DeleteLocation)
			me.PATCH("/discoverable", presenceHandler.SetDiscoverable)
			me.GET("/status", presenceHandler.GetStatus)
			me.POST("/offline", presenceHandler.SetOffline)
			me.POST("/documents", middleware.RequireRole(domain.RoleDriver), documentHandler.UploadDocuments)
		}
		drivers := api.Group("/drivers")
		drivers.Use(authMw)
		{
			drivers.GET("/nearby", driverHandler.Nearby)
			drivers.GET("/:uid", driverHandler.GetDriver)
		}
	}

	r.GET("/ws/peers", ws.PeerStream(cfg, store, log.Named("ws")))

	return r
}
