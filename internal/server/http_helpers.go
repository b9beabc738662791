package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type bindMessages map[string]map[string]string

// bindJSON decodes and validates the request body, translating validator
// failures to the configured per-field messages.
func bindJSON(c *gin.Context, req any, messages bindMessages, fallback string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": resolveBindError(err, messages, fallback)})
		return false
	}
	return true
}

func resolveBindError(err error, messages bindMessages, fallback string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			if fieldMsgs, ok := messages[verr.Field()]; ok {
				if msg, ok := fieldMsgs[verr.Tag()]; ok {
					return msg
				}
			}
		}
	}
	if fallback != "" {
		return fallback
	}
	return "invalid request"
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

// respondError maps the error taxonomy onto HTTP statuses: missing records
// are 404, bad input 400, state and turn conflicts 409, exhausted code
// generation and unexpected storage failures 500. Turn violations and bulk
// rejections carry their diagnostics in the body.
func respondError(c *gin.Context, err error) {
	var (
		validation *ValidationError
		state      *InvalidStateError
		precond    *PreconditionError
		turn       *TurnViolationError
		revealed   *AlreadyRevealedError
	)
	switch {
	case errors.Is(err, ErrGameNotFound), errors.Is(err, ErrPlayerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Reason})
	case errors.As(err, &turn):
		c.JSON(http.StatusConflict, gin.H{
			"error":          "not your turn",
			"current_player": turn.ExpectedPlayerID,
			"current_index":  turn.CurrentIndex,
		})
	case errors.As(err, &revealed):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "card has already been revealed",
			"card_id": revealed.CardID,
		})
	case errors.As(err, &state):
		body := gin.H{"error": state.Reason}
		if len(state.GameIDs) > 0 {
			body["active_game_ids"] = state.GameIDs
		}
		c.JSON(http.StatusConflict, body)
	case errors.As(err, &precond):
		c.JSON(http.StatusConflict, gin.H{"error": precond.Reason})
	case errors.Is(err, ErrCodeExhausted):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
