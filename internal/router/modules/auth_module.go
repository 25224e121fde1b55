package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/notekeeper/internal/application"
	"github.com/oksasatya/notekeeper/internal/container"
	handlers "github.com/oksasatya/notekeeper/internal/interface/http"
	"github.com/oksasatya/notekeeper/internal/interface/middleware"
	"github.com/oksasatya/notekeeper/pkg/helpers"
)

// AuthModule wires the account endpoints under /api/auth.
type AuthModule struct {
	Handler     *handlers.AuthHandler
	JWT         *helpers.JWTManager
	Revocations application.RevocationStore
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, rev application.RevocationStore) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, Revocations: rev}
}

func (m *AuthModule) Name() string { return "auth" }

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	// Public endpoints with IP-based rate limits
	signupLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	forgotLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	tokenLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	g := rg.Group("/auth")
	g.POST("/signup", signupLimiter, m.Handler.Signup)
	g.GET("/verify-email", tokenLimiter, m.Handler.VerifyEmail)
	g.POST("/login", loginLimiter, m.Handler.Login)
	g.POST("/forgot-password", forgotLimiter, m.Handler.ForgotPassword)
	g.POST("/reset-password", tokenLimiter, m.Handler.ResetPassword)

	auth := g.Group("/")
	auth.Use(middleware.Auth(m.JWT, m.Revocations))
	auth.Use(middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
	}
}
