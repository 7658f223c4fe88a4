package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shortsmaker/types"
)

// registerTranslatorRoutes wires the translator workflow surface.
func (s *Server) registerTranslatorRoutes(r *gin.Engine) {
	g := r.Group("/api/translator")
	g.POST("", s.handleCreateTranslatorProject)
	g.GET("", s.handleListTranslatorProjects)
	g.GET("/:id", s.handleGetTranslatorProject)
	g.PATCH("/:id", s.handleUpdateTranslatorProject)
	g.DELETE("/:id", s.handleDeleteTranslatorProject)
	g.POST("/:id/segments/populate", s.handlePopulateSegments)
	g.POST("/:id/translate", s.handleTranslateProject)
	g.POST("/:id/voice", s.handleSynthesizeVoice)
	g.POST("/:id/render", s.handleRenderTranslation)
}

func (s *Server) handleCreateTranslatorProject(c *gin.Context) {
	var payload types.TranslatorProjectCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	project, err := s.Translator.Store.Create(payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (s *Server) handleListTranslatorProjects(c *gin.Context) {
	projects, err := s.Translator.Store.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (s *Server) handleGetTranslatorProject(c *gin.Context) {
	project, err := s.Translator.Store.Load(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleUpdateTranslatorProject(c *gin.Context) {
	var payload types.TranslatorProjectUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	project, err := s.Translator.Store.Update(c.Param("id"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleDeleteTranslatorProject(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.Translator.Store.Load(id); err != nil {
		respondError(c, err)
		return
	}
	s.Translator.Store.Delete(id)
	c.Status(http.StatusNoContent)
}

// handlePopulateSegments re-derives segment source text from the subtitle
// sidecar without translating.
func (s *Server) handlePopulateSegments(c *gin.Context) {
	project, err := s.Translator.Store.Load(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := s.Translator.PopulateFromSubtitles(project); err != nil {
		respondError(c, err)
		return
	}
	if project.Status != types.TranslatorFailed {
		if err := s.Translator.Store.Save(project); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleTranslateProject(c *gin.Context) {
	project, err := s.Translator.Translate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleSynthesizeVoice(c *gin.Context) {
	project, err := s.Translator.SynthesizeVoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleRenderTranslation(c *gin.Context) {
	project, err := s.Translator.Render(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}
