package gym

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vovakirdan/snakesim/internal/games/snake"
)

// CreateRequest is the body of POST /v1/envs.
type CreateRequest struct {
	Width  int     `json:"width" binding:"required"`
	Height int     `json:"height" binding:"required"`
	Seed   *uint64 `json:"seed"`
}

// CreateResponse describes a new environment.
type CreateResponse struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Seed   uint64 `json:"seed"`
}

// TurnRequest is the body of POST /v1/envs/:id/turn.
type TurnRequest struct {
	Turn string `json:"turn" binding:"required"`
}

// HeadingRequest is the body of POST /v1/envs/:id/heading.
type HeadingRequest struct {
	Heading string `json:"heading" binding:"required"`
}

// StepResponse is the result of POST /v1/envs/:id/step.
type StepResponse struct {
	snake.StepResult
	Death       string    `json:"death"`
	Observation []float64 `json:"observation"`
}

// StateResponse is the full environment state.
type StateResponse struct {
	ID          string         `json:"id"`
	Seed        uint64         `json:"seed"`
	CreatedAt   time.Time      `json:"created_at"`
	Snapshot    snake.Snapshot `json:"snapshot"`
	Observation []float64      `json:"observation,omitempty"`
}

func (s *Server) handleCreate(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seed := s.seeds()
	if req.Seed != nil {
		seed = *req.Seed
	}
	game, err := snake.NewSeeded(req.Width, req.Height, seed)
	if err != nil {
		fail(c, err)
		return
	}

	e := &env{id: uuid.NewString(), seed: seed, game: game, created: time.Now()}
	if err := s.add(e); err != nil {
		fail(c, err)
		return
	}

	s.logger.Info("environment created", "id", e.id, "width", req.Width, "height", req.Height, "seed", seed)
	c.JSON(http.StatusCreated, CreateResponse{ID: e.id, Width: req.Width, Height: req.Height, Seed: seed})
}

func (s *Server) handleDelete(c *gin.Context) {
	id := c.Param("id")
	if !s.remove(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown environment " + id})
		return
	}
	s.logger.Info("environment deleted", "id", id)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGet(c *gin.Context, e *env) {
	c.JSON(http.StatusOK, stateOf(e))
}

func (s *Server) handleStart(c *gin.Context, e *env) {
	if err := e.game.Start(); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stateOf(e))
}

func (s *Server) handleTurn(c *gin.Context, e *env) {
	var req TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	turn, err := snake.ParseTurn(req.Turn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if e.game.State() != snake.StateRunning {
		c.JSON(http.StatusConflict, gin.H{"error": "environment is " + e.game.State().String()})
		return
	}
	e.game.SetRelativeTurn(turn)
	c.JSON(http.StatusOK, stateOf(e))
}

func (s *Server) handleHeading(c *gin.Context, e *env) {
	var req HeadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h, err := snake.ParseHeading(req.Heading)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if e.game.State() != snake.StateRunning {
		c.JSON(http.StatusConflict, gin.H{"error": "environment is " + e.game.State().String()})
		return
	}
	e.game.SetAbsoluteHeading(h)
	c.JSON(http.StatusOK, stateOf(e))
}

func (s *Server) handleStep(c *gin.Context, e *env) {
	res, err := e.game.Step()
	if err != nil {
		fail(c, err)
		return
	}
	obs, err := e.game.Observation()
	if err != nil {
		fail(c, err)
		return
	}
	if res.Terminal {
		s.logger.Debug("episode finished", "id", e.id, "score", res.Score, "death", e.game.Death())
	}
	c.JSON(http.StatusOK, StepResponse{
		StepResult:  res,
		Death:       e.game.Death().String(),
		Observation: obs.Slice(),
	})
}

func stateOf(e *env) StateResponse {
	resp := StateResponse{ID: e.id, Seed: e.seed, CreatedAt: e.created, Snapshot: e.game.Snapshot()}
	if obs, err := e.game.Observation(); err == nil {
		resp.Observation = obs.Slice()
	}
	return resp
}
