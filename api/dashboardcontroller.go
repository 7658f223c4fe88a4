package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shortsmaker/downloads"
)

// registerDashboardRoutes wires the listing surfaces: downloaded sources,
// the combined project dashboard and topic suggestions.
func (s *Server) registerDashboardRoutes(r *gin.Engine) {
	r.GET("/api/downloads", s.handleListDownloads)
	r.GET("/api/dashboard", s.handleDashboard)
	r.GET("/api/topics/suggest", s.handleSuggestTopics)
}

func (s *Server) handleListDownloads(c *gin.Context) {
	entries, err := downloads.List(s.DownloadDir)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleDashboard(c *gin.Context) {
	shorts, err := s.Store.List()
	if err != nil {
		respondError(c, err)
		return
	}
	cards, err := s.Translator.Store.Dashboard(shorts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (s *Server) handleSuggestTopics(c *gin.Context) {
	feed := c.Query("feed")
	count := 0
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(c, "count must be an integer")
			return
		}
		count = parsed
	}

	suggestions, err := s.Topics.Suggest(c.Request.Context(), feed, count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestions)
}
