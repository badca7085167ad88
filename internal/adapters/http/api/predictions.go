// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/matchday/internal/domain/scoring"
)

// PredictionDependencies defines the interface for prediction submission.
type PredictionDependencies interface {
	SubmitPrediction(ctx context.Context, userID, matchID string, guess int) error
}

// PredictionsHandler handles prediction submissions.
type PredictionsHandler struct {
	deps PredictionDependencies
}

// NewPredictionsHandler creates a new predictions handler.
func NewPredictionsHandler(deps PredictionDependencies) *PredictionsHandler {
	return &PredictionsHandler{deps: deps}
}

// predictionRequest is the POST /predictions body. Guess is the probability
// (0-100) the user assigns to team two winning.
type predictionRequest struct {
	UserID  string `json:"user_id"`
	MatchID string `json:"match_id"`
	Guess   *int   `json:"guess"`
}

func (p predictionRequest) validate() error {
	switch {
	case strings.TrimSpace(p.UserID) == "":
		return errors.New("missing user_id")
	case strings.TrimSpace(p.MatchID) == "":
		return errors.New("missing match_id")
	case p.Guess == nil:
		return errors.New("missing guess")
	}
	if !scoring.ValidProbability(*p.Guess) {
		return errors.New("guess must be between 0 and 100")
	}
	return nil
}

type ackResponse struct {
	Status string `json:"status"`
}

// HandlePostPrediction handles POST /predictions requests.
func (h *PredictionsHandler) HandlePostPrediction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req predictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	if err := h.deps.SubmitPrediction(r.Context(), req.UserID, req.MatchID, *req.Guess); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}
