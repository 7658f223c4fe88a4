package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shortsmaker/types"
)

// registerProjectRoutes wires the project CRUD surface.
func (s *Server) registerProjectRoutes(r *gin.Engine) {
	g := r.Group("/api/projects")
	g.GET("", s.handleListProjects)
	g.GET("/:base", s.handleGetProject)
	g.DELETE("/:base", s.handleDeleteProject)
	g.POST("/:base/subtitles", s.handleAddSubtitle)
	g.PATCH("/:base/subtitles/:id", s.handleUpdateSubtitle)
	g.DELETE("/:base/subtitles/:id", s.handleDeleteSubtitle)
	g.PATCH("/:base/timeline", s.handleReplaceTimeline)
	g.PATCH("/:base/audio", s.handleUpdateAudio)
	g.PATCH("/:base/style", s.handleUpdateStyle)
	g.POST("/:base/render", s.handleRenderProject)
	g.GET("/:base/versions", s.handleListVersions)
	g.POST("/:base/versions/:version/restore", s.handleRestoreVersion)
}

func (s *Server) handleListProjects(c *gin.Context) {
	summaries, err := s.Store.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (s *Server) handleGetProject(c *gin.Context) {
	meta, err := s.Store.Load(c.Param("base"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.Projects.Delete(c.Param("base")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAddSubtitle(c *gin.Context) {
	var payload types.CaptionCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if msg := validateCaptionBounds(&payload.Start, &payload.End); msg != "" {
		respondBadRequest(c, msg)
		return
	}

	meta, err := s.Projects.AddCaption(c.Param("base"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (s *Server) handleUpdateSubtitle(c *gin.Context) {
	var payload types.CaptionPatch
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if msg := validateCaptionBounds(payload.Start, payload.End); msg != "" {
		respondBadRequest(c, msg)
		return
	}

	meta, err := s.Projects.UpdateCaption(c.Param("base"), c.Param("id"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (s *Server) handleDeleteSubtitle(c *gin.Context) {
	meta, err := s.Projects.DeleteCaption(c.Param("base"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (s *Server) handleReplaceTimeline(c *gin.Context) {
	var payload types.TimelineUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	meta, err := s.Projects.ReplaceTimeline(c.Param("base"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (s *Server) handleUpdateAudio(c *gin.Context) {
	var payload types.AudioPatch
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	meta, err := s.Projects.UpdateAudioSettings(c.Param("base"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (s *Server) handleUpdateStyle(c *gin.Context) {
	var payload types.StylePatch
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	meta, err := s.Projects.UpdateSubtitleStyle(c.Param("base"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

type renderRequest struct {
	BurnSubs bool `json:"burn_subs"`
}

// handleRenderProject starts an asynchronous render. The body is optional;
// an empty one renders without burned-in subtitles.
func (s *Server) handleRenderProject(c *gin.Context) {
	base := c.Param("base")

	var req renderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err.Error())
			return
		}
	}

	// Reject unknown projects before claiming the slot.
	if _, err := s.Store.Load(base); err != nil {
		respondError(c, err)
		return
	}

	job, err := s.Runner.Begin("render", base)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"detail": err.Error()})
		return
	}

	go func() {
		job.Logf("Rendering project %s (burn_subs=%v)", base, req.BurnSubs)
		meta, renderErr := s.Projects.Render(base, req.BurnSubs)
		if renderErr != nil {
			job.Finish(nil, renderErr)
			return
		}
		job.Finish(gin.H{
			"base_name":  meta.BaseName,
			"video_path": meta.VideoPath,
			"version":    meta.Version,
		}, nil)
	}()

	c.JSON(http.StatusAccepted, s.Runner.Status())
}

func (s *Server) handleListVersions(c *gin.Context) {
	versions, err := s.Store.ListVersions(c.Param("base"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

func (s *Server) handleRestoreVersion(c *gin.Context) {
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		respondBadRequest(c, "version must be an integer")
		return
	}

	meta, err := s.Projects.RestoreVersion(c.Param("base"), version)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

// validateCaptionBounds applies the payload range rules shared by create
// and patch.
func validateCaptionBounds(start, end *float64) string {
	if start != nil && *start < 0 {
		return "start must be >= 0"
	}
	if end != nil && *end <= 0 {
		return "end must be > 0"
	}
	return ""
}
