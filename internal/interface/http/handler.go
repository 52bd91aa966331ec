package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paybench/salary-advisor/internal/domain/recommendation"
	apperrors "github.com/paybench/salary-advisor/pkg/errors"
)

// Handler wires the HTTP transport to the recommendation engine.
type Handler struct {
	engine recommendation.Recommender
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(engine recommendation.Recommender, logger *slog.Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger.With("component", "http.handler"),
	}
}

type recommendRequest struct {
	JobTitle       string `json:"jobTitle" binding:"required"`
	JobDescription string `json:"jobDescription"`
	Location       string `json:"location"`
	JobFamily      string `json:"jobFamily"`
	TopK           int    `json:"topK"`
}

// Recommend produces a salary recommendation for a job description.
func (h *Handler) Recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	rec, err := h.engine.Recommend(c.Request.Context(), recommendation.Request{
		JobTitle:       req.JobTitle,
		JobDescription: req.JobDescription,
		Location:       req.Location,
		JobFamily:      req.JobFamily,
		TopK:           req.TopK,
	})
	if err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}

	c.JSON(http.StatusOK, rec)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// toHTTPError maps engine error codes onto transport statuses. Not-found
// style outcomes keep their code so callers can tell "unknown role" apart
// from "role known, no pricing data".
func toHTTPError(err error) *HTTPError {
	code := apperrors.Code(err)
	status := http.StatusInternalServerError
	switch code {
	case "invalid_query":
		status = http.StatusBadRequest
	case "no_match_found", "no_market_data":
		status = http.StatusNotFound
	case "embedding_unavailable":
		status = http.StatusServiceUnavailable
	case "timeout":
		status = http.StatusGatewayTimeout
	case "dependency_failure":
		status = http.StatusBadGateway
	default:
		code = "recommendation_failed"
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
