package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shortsmaker/generator"
)

// registerGenerateRoutes wires generation kickoff and job polling.
func (s *Server) registerGenerateRoutes(r *gin.Engine) {
	r.POST("/api/generate", s.handleGenerate)
	r.GET("/api/jobs/status", s.handleJobStatus)
}

// handleGenerate starts an asynchronous generation run and returns the job
// snapshot. The slot being held reports 409.
func (s *Server) handleGenerate(c *gin.Context) {
	var req generator.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		respondBadRequest(c, "topic is required")
		return
	}

	job, err := s.Runner.Begin("generate", req.Topic)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"detail": err.Error()})
		return
	}

	opts := req.Options()
	// Keep the finished run loadable through the projects API.
	opts.SaveJSON = true

	go func() {
		job.Logf("Generating short for topic: %s", opts.Topic)
		result, genErr := s.Generator.Generate(context.Background(), opts)
		if genErr != nil {
			job.Finish(nil, genErr)
			return
		}

		payload := gin.H{
			"base_name":   result.BaseName,
			"script_path": result.ScriptPath,
			"video_path":  result.VideoPath,
		}
		if meta, loadErr := s.Store.Load(result.BaseName); loadErr == nil {
			payload["metadata"] = meta
		}
		job.Finish(payload, nil)
	}()

	c.JSON(http.StatusAccepted, s.Runner.Status())
}

func (s *Server) handleJobStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.Runner.Status())
}
