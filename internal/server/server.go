// Package server exposes the transcription pipeline over HTTP: upload an
// audio file, poll the job, export the transcript.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"exactscribe/internal/core/audio"
	"exactscribe/internal/core/backend"
	"exactscribe/internal/core/config"
	"exactscribe/internal/core/engine"
	"exactscribe/internal/core/transcript"
	"exactscribe/internal/core/version"
)

var errQueueFull = errors.New("job queue is full")

// Response is the standard API response structure
type Response struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

// ExportRequest is the request body for POST /api/export
type ExportRequest struct {
	Transcript string `json:"transcript" binding:"required"`
	Format     string `json:"format" binding:"required"`
}

// Server is the exactscribe HTTP server
type Server struct {
	port         int
	password     string
	maxFileSize  float64
	cfg          *config.Config
	orchestrator *engine.Orchestrator
	jobQueue     *JobQueue
	server       *http.Server
	engine       *gin.Engine
}

// NewServer wires the orchestrator and job queue from config. The API key
// must already be resolved (and unsealed) by the caller.
func NewServer(cfg *config.Config, apiKey string) (*Server, error) {
	b, err := backend.New(cfg.Backend.Provider, apiKey, cfg.Backend.BaseURL)
	if err != nil {
		return nil, err
	}

	orch := engine.New(b, engine.Options{
		ChunkDuration:        cfg.ChunkDuration(),
		Workers:              cfg.Chunking.Workers,
		MinSuccessRatio:      cfg.Chunking.MinSuccessRatio,
		LargeFileThresholdMB: cfg.Chunking.LargeFileThresholdMB,
		Model:                cfg.Backend.Model,
	})

	s := &Server{
		port:         cfg.Server.Port,
		password:     cfg.Server.Password,
		maxFileSize:  cfg.Limits.MaxFileSizeMB,
		cfg:          cfg,
		orchestrator: orch,
	}
	if s.port <= 0 {
		s.port = 8080
	}
	if s.maxFileSize <= 0 {
		s.maxFileSize = 500
	}

	s.jobQueue = NewJobQueue(cfg.Server.MaxConcurrent, orch.Transcribe)

	return s, nil
}

// setupRouter builds the gin engine with middleware and routes.
func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(s.loggingMiddleware())
	if s.password != "" {
		engine.Use(s.authMiddleware())
	}

	api := engine.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/models", s.handleModels)
	api.POST("/transcribe", s.handleTranscribe)
	api.GET("/jobs", s.handleGetJobs)
	api.GET("/jobs/:id", s.handleGetJob)
	api.DELETE("/jobs", s.handleClearJobs)
	api.DELETE("/jobs/:id", s.handleDeleteJob)
	api.POST("/export", s.handleExport)

	// Uploads can exceed gin's 32 MB default multipart memory threshold.
	engine.MaxMultipartMemory = 64 << 20

	return engine
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.jobQueue.Start()
	s.engine = s.setupRouter()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.engine,
		ReadTimeout:  10 * time.Minute, // large uploads
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting exactscribe server on port %d", s.port)
	if s.password != "" {
		log.Printf("Password authentication enabled")
	}

	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	s.jobQueue.Stop()
	return s.server.Shutdown(ctx)
}

// Middleware

func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Health endpoint doesn't require auth
		if c.Request.URL.Path == "/api/health" {
			c.Next()
			return
		}

		if requestPassword(c) != s.password {
			c.JSON(http.StatusUnauthorized, Response{
				Code:    401,
				Message: "invalid or missing password",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// requestPassword accepts either a bearer token or the X-API-Key header.
func requestPassword(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return c.GetHeader("X-API-Key")
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// Handlers

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Code: 200,
		Data: gin.H{
			"status":   "ok",
			"version":  version.Version,
			"provider": s.cfg.Backend.Provider,
		},
		Message: "everything is good",
	})
}

func (s *Server) handleModels(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Code: 200,
		Data: gin.H{
			"models":  config.Models,
			"default": s.cfg.Backend.Model,
		},
		Message: "ok",
	})
}

// handleTranscribe accepts a multipart upload plus metadata form fields
// and queues a transcription job.
func (s *Server) handleTranscribe(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "missing file upload")
		return
	}

	format, err := audio.ParseFormat(filepath.Ext(fileHeader.Filename))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	sizeMB := float64(fileHeader.Size) / (1024 * 1024)
	if sizeMB > s.maxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, Response{
			Code:    413,
			Message: fmt.Sprintf("file is %.1f MB, the limit is %.0f MB", sizeMB, s.maxFileSize),
		})
		return
	}

	model := c.PostForm("model")
	if model != "" {
		if _, ok := config.FindModel(model); !ok {
			badRequest(c, fmt.Sprintf("unknown model %q", model))
			return
		}
	}

	speakers := 1
	if v := c.PostForm("speakers"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			badRequest(c, "speakers must be a positive integer")
			return
		}
		speakers = n
	}

	f, err := fileHeader.Open()
	if err != nil {
		serverError(c, "failed to read upload")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		serverError(c, "failed to read upload")
		return
	}

	req := engine.Request{
		Audio:    data,
		Format:   format,
		SizeMB:   sizeMB,
		Speakers: speakers,
		Model:    model,
		Metadata: engine.Metadata{
			ContentType: c.PostForm("content_type"),
			Topic:       c.PostForm("topic"),
			Description: c.PostForm("description"),
			Language:    c.PostForm("language"),
		},
	}

	job, err := s.jobQueue.AddJob(fileHeader.Filename, req)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, Response{
			Code:    503,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Code: 200,
		Data: gin.H{
			"id":     job.ID,
			"status": job.Status,
		},
		Message: "transcription queued",
	})
}

func (s *Server) handleGetJob(c *gin.Context) {
	job := s.jobQueue.GetJob(c.Param("id"))
	if job == nil {
		c.JSON(http.StatusNotFound, Response{
			Code:    404,
			Message: "job not found",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Code:    200,
		Data:    job,
		Message: string(job.Status),
	})
}

func (s *Server) handleGetJobs(c *gin.Context) {
	jobs := s.jobQueue.GetAllJobs()

	// Job listings omit transcripts, which can run to megabytes.
	for _, j := range jobs {
		j.Transcript = ""
	}

	c.JSON(http.StatusOK, Response{
		Code:    200,
		Data:    gin.H{"jobs": jobs},
		Message: "ok",
	})
}

func (s *Server) handleClearJobs(c *gin.Context) {
	count := s.jobQueue.ClearHistory()
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Data:    gin.H{"removed": count},
		Message: "history cleared",
	})
}

// handleDeleteJob cancels an active job, or removes a finished one.
func (s *Server) handleDeleteJob(c *gin.Context) {
	id := c.Param("id")

	if s.jobQueue.CancelJob(id) {
		c.JSON(http.StatusOK, Response{
			Code:    200,
			Message: "job cancelled",
		})
		return
	}
	if s.jobQueue.RemoveJob(id) {
		c.JSON(http.StatusOK, Response{
			Code:    200,
			Message: "job removed",
		})
		return
	}

	c.JSON(http.StatusNotFound, Response{
		Code:    404,
		Message: "job not found",
	})
}

func (s *Server) handleExport(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "transcript and format are required")
		return
	}

	format, err := transcript.ParseFormat(req.Format)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	content, err := transcript.Export(req.Transcript, format)
	if err != nil {
		serverError(c, backend.Sanitize(err.Error()))
		return
	}

	info := transcript.Formats[format]
	c.JSON(http.StatusOK, Response{
		Code: 200,
		Data: gin.H{
			"content":   content,
			"mime_type": info.MIMEType,
			"extension": info.Extension,
		},
		Message: "ok",
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: 400, Message: msg})
}

func serverError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, Response{Code: 500, Message: msg})
}
