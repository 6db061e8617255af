package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/reqctx"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/services"
)

type MatchHandler struct {
	matches *services.MatchService
}

func NewMatchHandler(matches *services.MatchService) *MatchHandler {
	return &MatchHandler{matches: matches}
}

type matchFlow func(ctx context.Context, rc reqctx.Context) (services.MatchOutcome, error)

func (h *MatchHandler) respond(c *gin.Context, flow matchFlow) {
	outcome, err := flow(c.Request.Context(), requestContext(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// Instructors GET /match/instructors
func (h *MatchHandler) Instructors(c *gin.Context) {
	h.respond(c, h.matches.InstructorsForClient)
}

// Dieticians GET /match/dieticians
func (h *MatchHandler) Dieticians(c *gin.Context) {
	h.respond(c, h.matches.DieticiansForClient)
}

// Clients GET /match/clients
func (h *MatchHandler) Clients(c *gin.Context) {
	h.respond(c, h.matches.ClientsForInstructor)
}
