package routes

import (
	"context"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"campusquery/internal/assistant"
	"campusquery/internal/auth"
	"campusquery/internal/campusevent"
	"campusquery/internal/config"
	"campusquery/internal/events"
	"campusquery/internal/marketplace"
	"campusquery/internal/moderation"
	"campusquery/internal/notice"
	"campusquery/pkg/middleware"
)

var AppModules = fx.Module("campusquery",
	fx.Provide(
		NewEchoServer,
		config.NewLogger,
		config.NewMongoDBConfig,
		config.NewMongoDBClient,
		config.NewRedisConfig,
		config.NewRedisClient,
		config.NewResendConfig,
		config.NewEmailService,
		events.NewBus,
		fx.Annotate(auth.NewUserRepository, fx.As(new(auth.UserStore))),
		auth.NewUserService,
		auth.NewAuthHandler,
		fx.Annotate(marketplace.NewListingRepository, fx.As(new(marketplace.ListingStore))),
		marketplace.NewService,
		marketplace.NewHandler,
		fx.Annotate(notice.NewNoticeRepository, fx.As(new(notice.NoticeStore))),
		notice.NewService,
		notice.NewHandler,
		fx.Annotate(campusevent.NewEventRepository, fx.As(new(campusevent.EventStore))),
		campusevent.NewService,
		campusevent.NewHandler,
		assistant.NewConfig,
		assistant.NewService,
		assistant.NewHandler,
	),
	fx.Invoke(config.EnsureIndexes),
	fx.Invoke(RegisterModeration),
	fx.Invoke(RegisterRoutes),
)

func NewEchoServer(lc fx.Lifecycle, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{origin},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Server starting", zap.String("addr", addr))
			go func() {
				if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
					logger.Fatal("Failed to start the server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down the server ...")
			return e.Shutdown(ctx)
		},
	})
	return e
}

// RegisterModeration wires the moderation hook onto the record-created bus.
func RegisterModeration(bus *events.Bus, listings marketplace.ListingStore, notices notice.NoticeStore, market *marketplace.Service, logger *zap.Logger) {
	moderator := moderation.NewModerator(listings, notices, market, logger)
	moderator.Register(bus)
}

func RegisterRoutes(
	e *echo.Echo,
	authHandler *auth.AuthHandler,
	marketHandler *marketplace.Handler,
	noticeHandler *notice.Handler,
	eventHandler *campusevent.Handler,
	assistantHandler *assistant.Handler,
) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "message": "CampusQuery Backend Running"})
	})

	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	e.GET("/listings", marketHandler.List)
	e.GET("/listings/:id", marketHandler.Get)
	e.POST("/listings", marketHandler.Create, middleware.JWTMiddleware)
	e.POST("/listings/:id/sold", marketHandler.MarkSold, middleware.JWTMiddleware)
	e.POST("/listings/:id/enquiries", marketHandler.Enquire, middleware.JWTMiddleware)
	e.DELETE("/listings/:id", marketHandler.Delete, middleware.JWTMiddleware)

	e.GET("/notices", noticeHandler.List)
	e.POST("/notices", noticeHandler.Create, middleware.JWTMiddleware, middleware.CasbinMiddleware)

	e.GET("/events", eventHandler.List)
	e.POST("/events", eventHandler.Create, middleware.JWTMiddleware, middleware.CasbinMiddleware)

	e.POST("/assistant/chat", assistantHandler.Chat)
}
