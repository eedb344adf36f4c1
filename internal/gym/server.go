// Package gym exposes snake environments over a JSON HTTP API so that an
// external training loop can drive many independent games.
package gym

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/snakesim/internal/games/snake"
)

// ErrTooManyEnvs is returned when the environment limit is reached.
var ErrTooManyEnvs = errors.New("gym: too many environments")

// Options configure a Server.
type Options struct {
	MaxEnvs int
	Logger  *log.Logger
	// Seeds returns a seed for environments created without one.
	Seeds func() uint64
}

// Server owns a set of environments keyed by id.
type Server struct {
	mu      sync.RWMutex
	envs    map[string]*env
	maxEnvs int
	seeds   func() uint64
	logger  *log.Logger
	engine  *gin.Engine
}

// env is one game guarded by its own lock.
type env struct {
	mu      sync.Mutex
	id      string
	seed    uint64
	game    *snake.Game
	created time.Time
}

// NewServer creates a server with its routes installed.
func NewServer(opts Options) *Server {
	if opts.MaxEnvs <= 0 {
		opts.MaxEnvs = 64
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Seeds == nil {
		opts.Seeds = func() uint64 { return uint64(time.Now().UnixNano()) }
	}

	s := &Server{
		envs:    make(map[string]*env),
		maxEnvs: opts.MaxEnvs,
		seeds:   opts.Seeds,
		logger:  opts.Logger,
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "envs": s.Len()})
	})

	v1 := r.Group("/v1")
	v1.POST("/envs", s.handleCreate)
	v1.GET("/envs/:id", s.withEnv(s.handleGet))
	v1.DELETE("/envs/:id", s.handleDelete)
	v1.POST("/envs/:id/start", s.withEnv(s.handleStart))
	v1.POST("/envs/:id/turn", s.withEnv(s.handleTurn))
	v1.POST("/envs/:id/heading", s.withEnv(s.handleHeading))
	v1.POST("/envs/:id/step", s.withEnv(s.handleStep))

	s.engine = r
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Len returns the number of live environments.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.envs)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting gym server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Stopping gym server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"took", time.Since(start))
	}
}

// add registers a new environment, enforcing the limit.
func (s *Server) add(e *env) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.envs) >= s.maxEnvs {
		return ErrTooManyEnvs
	}
	s.envs[e.id] = e
	return nil
}

func (s *Server) get(id string) (*env, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.envs[id]
	return e, ok
}

func (s *Server) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.envs[id]; !ok {
		return false
	}
	delete(s.envs, id)
	return true
}

// withEnv resolves :id and runs h with the environment locked.
func (s *Server) withEnv(h func(*gin.Context, *env)) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, ok := s.get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown environment " + c.Param("id")})
			return
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		h(c, e)
	}
}

// statusFor maps simulation errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, snake.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, snake.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrTooManyEnvs):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
