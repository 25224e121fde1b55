package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/notekeeper/internal/application"
	"github.com/oksasatya/notekeeper/internal/domain/entity"
	"github.com/oksasatya/notekeeper/internal/interface/middleware"
	"github.com/oksasatya/notekeeper/pkg/response"
	"github.com/oksasatya/notekeeper/pkg/validation"
)

type NoteHandler struct {
	Svc    *application.NoteService
	Logger *logrus.Logger
}

func NewNoteHandler(svc *application.NoteService, logger *logrus.Logger) *NoteHandler {
	return &NoteHandler{Svc: svc, Logger: logger}
}

type noteRequest struct {
	Title   string `json:"title" binding:"max=200"`
	Content string `json:"content" binding:"max=100000"`
	Color   string `json:"color" binding:"omitempty,notecolor"`
	Pinned  bool   `json:"pinned"`
}

func (r noteRequest) input() application.NoteInput {
	return application.NoteInput{Title: r.Title, Content: r.Content, Color: r.Color, Pinned: r.Pinned}
}

type searchQuery struct {
	Q string `form:"q" binding:"max=200"`
}

// NoteView is the public shape of a note.
type NoteView struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     string    `json:"color"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toNoteView(n *entity.Note) NoteView {
	return NoteView{
		ID: n.ID, OwnerID: n.OwnerID, Title: n.Title, Content: n.Content,
		Color: n.Color, Pinned: n.Pinned, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt,
	}
}

func toNoteViews(notes []*entity.Note) []NoteView {
	out := make([]NoteView, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteView(n))
	}
	return out
}

// List GET /api/notes
func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.Svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toNoteViews(notes), "notes", map[string]any{"count": len(notes)})
}

// Search GET /api/notes/search?q=
func (h *NoteHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	notes, err := h.Svc.Search(c.Request.Context(), middleware.UserID(c), q.Q)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toNoteViews(notes), "notes", map[string]any{"count": len(notes)})
}

// Get GET /api/notes/:id
func (h *NoteHandler) Get(c *gin.Context) {
	n, err := h.Svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toNoteView(n), "note", nil)
}

// Create POST /api/notes {title?, content?, color?, pinned?}; an empty body creates an untitled note
func (h *NoteHandler) Create(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	n, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toNoteView(n), "note created", nil)
}

// Update PUT /api/notes/:id {title, content, color, pinned}
func (h *NoteHandler) Update(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	n, err := h.Svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toNoteView(n), "note updated", nil)
}

// Delete DELETE /api/notes/:id
func (h *NoteHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Note deleted", nil)
}

// Export POST /api/notes/export
func (h *NoteHandler) Export(c *gin.Context) {
	url, err := h.Svc.Export(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"url": url}, "notes exported", nil)
}
