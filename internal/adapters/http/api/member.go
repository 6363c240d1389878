package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okian/mizan/internal/domain/report"
)

// MemberDependencies defines the interface for member detail lookups.
type MemberDependencies interface {
	Member(ctx context.Context, year int, id string) (*report.MemberDetail, error)
}

// MemberHandler handles member detail requests.
type MemberHandler struct {
	deps  MemberDependencies
	years *yearParser
}

// NewMemberHandler creates a new member handler.
func NewMemberHandler(deps MemberDependencies, years *yearParser) *MemberHandler {
	return &MemberHandler{deps: deps, years: years}
}

// HandleGetMember handles GET /years/{year}/members/{id} requests.
func (h *MemberHandler) HandleGetMember(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_member"
	year, err := h.years.parse(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, NewKind(op, ErrBadRequest))
		return
	}
	detail, err := h.deps.Member(r.Context(), year, id)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeResponse(w, r, http.StatusOK, detail)
}
