package router

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"neighborconnect/internal/auth"
	"neighborconnect/internal/config"
	apperrors "neighborconnect/internal/errors"
	"neighborconnect/internal/handler"
	"neighborconnect/internal/metrics"
)

const bodyLimit = "6M"

// Handlers groups everything Register mounts.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Post    *handler.PostHandler
	Event   *handler.EventHandler
	Comment *handler.CommentHandler
	Admin   *handler.AdminHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, log *zap.Logger, mw *auth.Middleware, h Handlers) {
	e.HTTPErrorHandler = apperrors.NewHTTPErrorHandler(log)
	e.Validator = NewValidator()

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Recover())
	e.Use(requestLogger(log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, auth.CSRFHeader},
		ExposeHeaders:    []string{echo.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           int((24 * time.Hour).Seconds()),
	}))
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(metrics.Middleware())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/signup", h.Auth.Signup)
	api.POST("/login", h.Auth.Login)
	api.POST("/admin/login", h.Auth.AdminLogin)

	// Every other route needs a session cookie and the matching CSRF header.
	// A rejected logout still drops the cookie.
	api.POST("/logout", h.Auth.Logout, h.Auth.ClearStaleSession, mw.Authenticate(), auth.RequireCSRF)

	secured := api.Group("", mw.Authenticate(), auth.RequireCSRF)

	users := secured.Group("/users")
	users.GET("/currentUser", h.User.CurrentUser)
	users.GET("/user/:id", h.User.GetUser)
	users.GET("/zip/:postalCode", h.User.ListByPostalCode)
	users.POST("/upload-avatar", h.User.UploadAvatar)
	users.POST("/upload-cover", h.User.UploadCover)
	users.PUT("/:id", h.User.UpdateProfile)
	users.DELETE("/:id", h.User.DeleteAccount)

	posts := secured.Group("/posts")
	posts.GET("/all/posts", h.Post.List)
	posts.GET("/zip", h.Post.Nearby)
	posts.POST("/post", h.Post.Create)
	posts.GET("/user/:id", h.Post.ByUser)
	posts.GET("/:id", h.Post.Get)
	posts.DELETE("/:id", h.Post.Delete)
	posts.POST("/:id/like", h.Post.Like)
	posts.GET("/:postId/comments", h.Comment.List)
	posts.POST("/:postId/comments", h.Comment.Create)
	posts.DELETE("/:postId/comments/:id", h.Comment.Delete)

	events := secured.Group("/events")
	events.GET("/all/events", h.Event.List)
	events.GET("/zip", h.Event.Nearby)
	events.POST("/event", h.Event.Create)
	events.GET("/user/:id", h.Event.ByUser)
	events.GET("/:id", h.Event.Get)
	events.DELETE("/:id", h.Event.Delete)
	events.POST("/:id/like", h.Event.Like)
	events.POST("/:id/rsvp", h.Event.RSVP)

	admin := secured.Group("/admin", auth.RequireAdmin)
	admin.GET("/all/users", h.Admin.ListUsers)
	admin.POST("/users/create", h.Admin.CreateUser)
	admin.PUT("/users/:id", h.Admin.UpdateUser)
	admin.DELETE("/users/:id", h.Admin.DeleteUser)
	admin.GET("/all/posts", h.Admin.ListPosts)
	admin.PUT("/posts/:id", h.Admin.UpdatePost)
	admin.DELETE("/posts/:id", h.Admin.DeletePost)
	admin.GET("/all/events", h.Admin.ListEvents)
	admin.PUT("/events/:id", h.Admin.UpdateEvent)
	admin.DELETE("/events/:id", h.Admin.DeleteEvent)
	admin.GET("/all/comments", h.Admin.ListComments)
	admin.DELETE("/comments/:id", h.Admin.DeleteComment)
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
				zap.String("remote_ip", v.RemoteIP),
			}
			if id, ok := auth.IdentityFrom(c); ok {
				fields = append(fields, zap.String("user_id", id.ID))
			}
			if v.Error != nil {
				fields = append(fields, zap.String("error", v.Error.Error()))
			}
			log.Info("request", fields...)
			return nil
		},
	})
}
