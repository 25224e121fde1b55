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

// NoteModule wires the authenticated note endpoints under /api/notes.
type NoteModule struct {
	Handler     *handlers.NoteHandler
	JWT         *helpers.JWTManager
	Revocations application.RevocationStore
}

func NewNoteModule(h *handlers.NoteHandler, jwt *helpers.JWTManager, rev application.RevocationStore) *NoteModule {
	return &NoteModule{Handler: h, JWT: jwt, Revocations: rev}
}

func (m *NoteModule) Name() string { return "notes" }

func (m *NoteModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	notes := rg.Group("/notes")
	notes.Use(middleware.Auth(m.JWT, m.Revocations))
	notes.Use(
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		notes.GET("", m.Handler.List)
		notes.GET("/search", m.Handler.Search)
		notes.POST("", m.Handler.Create)
		notes.POST("/export", middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByUserID(), nil), m.Handler.Export)
		notes.GET("/:id", m.Handler.Get)
		notes.PUT("/:id", m.Handler.Update)
		notes.DELETE("/:id", m.Handler.Delete)
	}
}
