package api

import (
	"errors"
	"net/http"

	"newsnotes/archive"
	"newsnotes/scraper"
	"newsnotes/store"

	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto status codes
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var fetchErr *scraper.FetchError
	var parseErr *scraper.ParseError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, archive.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.As(err, &fetchErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.As(err, &parseErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
