package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/mizan/internal/domain/scoring"
)

// LeaderboardDependencies defines the interface for leaderboard operations
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, year, limit int) ([]scoring.Entry, error)
}

// LeaderboardHandler handles leaderboard requests
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	years    *yearParser
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(deps LeaderboardDependencies, years *yearParser, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		years:    years,
		maxLimit: maxLimit,
	}
}

// HandleGetLeaderboard handles GET /years/{year}/leaderboard?limit=N requests.
// Without limit it returns up to the configured maximum.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	year, err := h.years.parse(r)
	if err != nil {
		writeError(w, err)
		return
	}

	n := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, WrapKind(op, ErrBadRequest, errLimitExceeded(h.maxLimit)))
			return
		}
	}

	entries, err := h.deps.Leaderboard(r.Context(), year, n)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	if entries == nil {
		entries = []scoring.Entry{}
	}
	writeResponse(w, r, http.StatusOK, entries)
}

type errLimitExceeded int

func (e errLimitExceeded) Error() string {
	return "limit exceeds maximum of " + strconv.Itoa(int(e))
}
