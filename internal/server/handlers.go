package server

import (
	"errors"
	"net/http"
	"strings"

	"srcpath/internal/pathconv"

	"github.com/gin-gonic/gin"
)

type resolveResponse struct {
	Found bool   `json:"found"`
	Path  string `json:"path"`
	Name  string `json:"name"`
}

type normalizeResponse struct {
	Path string `json:"path"`
}

type codingRequest struct {
	Coding string `json:"coding" binding:"required"`
}

type codingResponse struct {
	Coding string `json:"coding"`
}

func (s *Server) handleResolve(c *gin.Context) {
	source, ok := c.GetQuery("source")
	if !ok || source == "" {
		s.respondError(c, errMissingSource)
		return
	}

	path, found := s.resolver.Resolve(source)
	resp := resolveResponse{Found: found, Path: path}
	if found {
		resp.Name = pathconv.FileName(path)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleNormalize(c *gin.Context) {
	path := strings.TrimSpace(c.Query("path"))
	if path == "" {
		s.respondError(c, errMissingPath)
		return
	}
	c.JSON(http.StatusOK, normalizeResponse{Path: s.resolver.Normalize(path)})
}

func (s *Server) handleListSourcemaps(c *gin.Context) {
	c.JSON(http.StatusOK, s.resolver.Sourcemaps())
}

func (s *Server) handleAddSourcemap(c *gin.Context) {
	var rule pathconv.Rule
	if err := c.ShouldBindJSON(&rule); err != nil {
		s.respondError(c, badRequest(err))
		return
	}
	if rule.Server == "" {
		s.respondError(c, errInvalidRule)
		return
	}

	s.resolver.AddSourcemap(rule.Server, rule.Client)
	s.changed()
	c.JSON(http.StatusCreated, s.resolver.Sourcemaps())
}

func (s *Server) handleClearSourcemaps(c *gin.Context) {
	s.resolver.ClearSourcemap()
	s.changed()
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetCoding(c *gin.Context) {
	c.JSON(http.StatusOK, codingResponse{Coding: s.resolver.Coding().String()})
}

func (s *Server) handleSetCoding(c *gin.Context) {
	var req codingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, badRequest(err))
		return
	}
	coding, err := pathconv.ParseCoding(req.Coding)
	if err != nil {
		s.respondError(c, badRequest(err))
		return
	}

	s.resolver.SetCoding(coding)
	s.changed()
	c.JSON(http.StatusOK, codingResponse{Coding: coding.String()})
}

func (s *Server) respondError(c *gin.Context, err error) {
	var httpErr *httpError
	if errors.As(err, &httpErr) {
		c.AbortWithStatusJSON(httpErr.Status, httpErr)
		return
	}

	logger.Error("Request %s failed: %v", c.Request.URL.Path, err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, &httpError{Message: "internal error"})
}
