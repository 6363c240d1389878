package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/mizan/internal/adapters/csvio"
	"github.com/okian/mizan/internal/domain/model"
)

// ActivityDependencies defines the interface for recording new activities.
type ActivityDependencies interface {
	AddActivity(ctx context.Context, a csvio.NewActivity) (model.Participation, error)
}

// ActivityHandler handles manual activity entry.
type ActivityHandler struct {
	deps  ActivityDependencies
	years *yearParser
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(deps ActivityDependencies, years *yearParser) *ActivityHandler {
	return &ActivityHandler{deps: deps, years: years}
}

// activityRequest is the POST /years/{year}/activities body.
type activityRequest struct {
	Category          string   `json:"category"`
	ParticipationType string   `json:"participation_type"`
	Title             string   `json:"title"`
	Location          string   `json:"location"`
	Date              string   `json:"date"`
	ParticipantIDs    []string `json:"participant_ids"`
	GrantingBody      string   `json:"granting_body"`
	Journal           string   `json:"journal"`
	CitationsRange    string   `json:"citations_range"`
	StudentAuthor     bool     `json:"student_author"`
}

const maxActivityBody = 64 << 10

// HandlePostActivity handles POST /years/{year}/activities requests.
func (h *ActivityHandler) HandlePostActivity(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_activity"
	year, err := h.years.parse(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if year == model.YearAll {
		writeError(w, NewKind(op, ErrBadRequest))
		return
	}

	var req activityRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxActivityBody)).Decode(&req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	p, err := h.deps.AddActivity(r.Context(), csvio.NewActivity{
		Year:              year,
		Category:          req.Category,
		ParticipationType: req.ParticipationType,
		Title:             req.Title,
		Location:          req.Location,
		Date:              req.Date,
		ParticipantIDs:    req.ParticipantIDs,
		GrantingBody:      req.GrantingBody,
		Journal:           req.Journal,
		CitationsRange:    req.CitationsRange,
		StudentAuthor:     req.StudentAuthor,
	})
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeResponse(w, r, http.StatusCreated, p)
}
