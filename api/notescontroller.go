package api

import (
	"errors"
	"io"
	"net/http"

	"newsnotes/types"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// RegisterNoteRoutes registers note endpoints
func (s *Server) RegisterNoteRoutes(r *gin.Engine) {
	r.POST("/api/articles/:id/notes", s.handleCreateNote)
	r.GET("/api/articles/:id/notes", s.handleArticleNotes)
	r.DELETE("/api/notes/:id", s.handleDeleteNote)
}

// handleCreateNote stores the request body as a note and attaches it to the
// article. The body is kept as sent, empty included. The article must exist
// before the note is created.
func (s *Server) handleCreateNote(c *gin.Context) {
	body, err := bindNoteBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := s.deps.Store.FindArticleByID(ctx, id); err != nil {
		respondError(c, err)
		return
	}

	note, err := s.deps.Store.CreateNote(ctx, body)
	if err != nil {
		respondError(c, err)
		return
	}
	article, err := s.deps.Store.AttachNoteToArticle(ctx, id, note.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"note": note, "article": article})
}

// bindNoteBody accepts a JSON object or a url-encoded form. Form fields
// become string values.
func bindNoteBody(c *gin.Context) (types.NoteBody, error) {
	if c.ContentType() == binding.MIMEPOSTForm {
		form := map[string]string{}
		if err := c.ShouldBindWith(&form, binding.FormPost); err != nil {
			return nil, err
		}
		body := make(types.NoteBody, len(form))
		for k, v := range form {
			body[k] = v
		}
		return body, nil
	}

	body := types.NoteBody{}
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if body == nil {
		body = types.NoteBody{}
	}
	return body, nil
}

func (s *Server) handleArticleNotes(c *gin.Context) {
	a, err := s.deps.Store.FindArticleWithNotes(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// handleDeleteNote removes the note. Articles keep the dangling reference.
func (s *Server) handleDeleteNote(c *gin.Context) {
	if err := s.deps.Store.DeleteNote(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": c.Param("id")})
}
