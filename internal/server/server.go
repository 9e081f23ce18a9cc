// Package server exposes a resolver over HTTP for editors and tools that
// cannot embed it.
package server

import (
	"srcpath/internal/logging"
	"srcpath/internal/pathconv"

	"github.com/gin-gonic/gin"
)

var (
	logger = logging.GetLogger().WithPrefix("http")
)

// Resolver is the resolver surface served over HTTP.
type Resolver interface {
	Resolve(raw string) (string, bool)
	Normalize(path string) string
	AddSourcemap(server, client string)
	ClearSourcemap()
	Sourcemaps() []pathconv.Rule
	SetCoding(c pathconv.Coding)
	Coding() pathconv.Coding
}

// OnChange is called after the sourcemap or coding was changed over HTTP.
type OnChange func()

type Server struct {
	engine   *gin.Engine
	resolver Resolver
	onChange OnChange
}

// New builds the router. r must be safe for concurrent use.
func New(r Resolver, onChange OnChange) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())

	srv := &Server{
		engine:   engine,
		resolver: r,
		onChange: onChange,
	}

	engine.GET("/resolve", srv.handleResolve)
	engine.GET("/normalize", srv.handleNormalize)
	engine.GET("/sourcemaps", srv.handleListSourcemaps)
	engine.POST("/sourcemaps", srv.handleAddSourcemap)
	engine.DELETE("/sourcemaps", srv.handleClearSourcemaps)
	engine.GET("/coding", srv.handleGetCoding)
	engine.PUT("/coding", srv.handleSetCoding)

	return srv
}

// Handler returns the HTTP handler.
func (s *Server) Handler() *gin.Engine {
	return s.engine
}

func (s *Server) Run(addr string) error {
	logger.Info("Listening on %s", addr)
	return s.engine.Run(addr)
}

func (s *Server) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}
