// Package server exposes the metadata loader over a small REST API. Each
// load runs in the background; clients poll its progress and fetch the
// projected entries once it finishes.
package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/FerrisMind/inspector-gguf/internal/humanize"
	"github.com/FerrisMind/inspector-gguf/internal/loader"
)

type loadRecord struct {
	load   *loader.Load
	result *loader.Result
}

// Server tracks in-flight and finished loads by ID.
type Server struct {
	mu    sync.Mutex
	loads map[string]*loadRecord

	// start is swapped in tests.
	start func(ctx context.Context, path string) *loader.Load
}

func NewServer() *Server {
	return &Server{
		loads: make(map[string]*loadRecord),
		start: loader.Start,
	}
}

// Register mounts the load routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/loads", s.handleCreateLoad)
	e.GET("/v1/loads/:id", s.handleGetLoad)
	e.GET("/v1/loads/:id/entries", s.handleGetEntries)
	e.DELETE("/v1/loads/:id", s.handleDeleteLoad)
}

type createLoadRequest struct {
	Path string `json:"path"`
}

type loadStatus struct {
	ID       string  `json:"id"`
	Object   string  `json:"object"`
	Path     string  `json:"path"`
	State    string  `json:"state"`
	Progress float32 `json:"progress"`
}

type loadEntries struct {
	ID      string           `json:"id"`
	Object  string           `json:"object"`
	Entries []humanize.Entry `json:"entries"`
}

type deleteLoadResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

func (s *Server) handleCreateLoad(c *echo.Context) error {
	req, err := decodeJSON[createLoadRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, "invalid request body")
	}
	if req.Path == "" {
		return writeBadRequest(c, "path is required")
	}

	id := "load_" + uuid.NewString()
	rec := &loadRecord{load: s.start(context.Background(), req.Path)}

	s.mu.Lock()
	s.loads[id] = rec
	s.mu.Unlock()

	return c.JSON(http.StatusAccepted, s.statusOf(id, rec))
}

func (s *Server) handleGetLoad(c *echo.Context) error {
	id := c.Param("id")
	rec, ok := s.get(id)
	if !ok {
		return writeNotFound(c, "load not found")
	}
	return c.JSON(http.StatusOK, s.statusOf(id, rec))
}

func (s *Server) handleGetEntries(c *echo.Context) error {
	id := c.Param("id")
	rec, ok := s.get(id)
	if !ok {
		return writeNotFound(c, "load not found")
	}

	s.mu.Lock()
	if rec.result == nil {
		if res, done := rec.load.Poll(); done {
			rec.result = res
		}
	}
	res := rec.result
	s.mu.Unlock()

	if res == nil {
		return writeConflict(c, "load has not finished")
	}
	if res.Err != nil {
		return writeError(c, http.StatusUnprocessableEntity, "load_error", res.Err.Error())
	}
	return c.JSON(http.StatusOK, loadEntries{
		ID:      id,
		Object:  "load.entries",
		Entries: res.Entries,
	})
}

func (s *Server) handleDeleteLoad(c *echo.Context) error {
	id := c.Param("id")

	s.mu.Lock()
	rec, ok := s.loads[id]
	if ok {
		rec.load.Cancel()
		delete(s.loads, id)
	}
	s.mu.Unlock()

	if !ok {
		return writeNotFound(c, "load not found")
	}
	return c.JSON(http.StatusOK, deleteLoadResponse{
		ID:      id,
		Object:  "load",
		Deleted: true,
	})
}

func (s *Server) get(id string) (*loadRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.loads[id]
	return rec, ok
}

func (s *Server) statusOf(id string, rec *loadRecord) loadStatus {
	progress, state := rec.load.Status()
	return loadStatus{
		ID:       id,
		Object:   "load",
		Path:     rec.load.Path(),
		State:    state.String(),
		Progress: progress,
	}
}
