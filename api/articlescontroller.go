package api

import (
	"net/http"
	"strconv"

	"newsnotes/store"
	"newsnotes/types"

	"github.com/gin-gonic/gin"
)

// RegisterArticleRoutes registers article endpoints
func (s *Server) RegisterArticleRoutes(r *gin.Engine) {
	g := r.Group("/api/articles")
	g.GET("", s.handleListArticles)
	g.DELETE("", s.handleDeleteAllArticles)
	g.GET("/:id", s.handleGetArticle)
	g.PUT("/:id", s.handleUpdateArticle)
	g.DELETE("/:id", s.handleDeleteArticle)
	g.GET("/:id/content", s.handleArticleContent)
}

// handleListArticles lists the inbox by default.
// Query params: saved (true, false or all)
func (s *Server) handleListArticles(c *gin.Context) {
	filter := store.SavedFilter(false)
	switch v := c.Query("saved"); v {
	case "", "false":
	case "all":
		filter = store.ArticleFilter{}
	default:
		saved, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "saved must be true, false or all"})
			return
		}
		filter = store.SavedFilter(saved)
	}

	articles, err := s.deps.Store.FindArticles(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles, "count": len(articles)})
}

func (s *Server) handleGetArticle(c *gin.Context) {
	a, err := s.deps.Store.FindArticleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// handleUpdateArticle applies a partial update; saving and unsaving go through here
func (s *Server) handleUpdateArticle(c *gin.Context) {
	var patch types.ArticlePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	a, err := s.deps.Store.UpdateArticle(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// handleDeleteArticle removes the article. Its notes stay in the store.
func (s *Server) handleDeleteArticle(c *gin.Context) {
	if err := s.deps.Store.DeleteArticle(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": c.Param("id")})
}

func (s *Server) handleDeleteAllArticles(c *gin.Context) {
	n, err := s.deps.Store.DeleteAllArticles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared", "deleted": n})
}

// handleArticleContent returns a reader view of the page the article links to
func (s *Server) handleArticleContent(c *gin.Context) {
	if s.deps.Reader == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "reader view not configured"})
		return
	}
	a, err := s.deps.Store.FindArticleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := s.deps.Reader.Read(c.Request.Context(), a.Link)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
