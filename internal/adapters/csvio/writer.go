package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/okian/mizan/internal/domain/category"
	"github.com/okian/mizan/internal/domain/model"
)

// participationHeader is the column order written to participations.csv.
var participationHeader = []string{
	"id", "year", "category", "participation_type", "title", "location", "date",
	"participant_ids", "granting_body", "journal", "citations_range", "student_author",
}

// NewActivity is a manually entered participation.
type NewActivity struct {
	Year              int      `validate:"required,gt=0"`
	Category          string   `validate:"required"`
	ParticipationType string   `validate:"omitempty"`
	Title             string   `validate:"required"`
	Location          string   `validate:"omitempty"`
	Date              string   `validate:"omitempty"`
	ParticipantIDs    []string `validate:"required,min=1,dive,required"`
	GrantingBody      string   `validate:"omitempty"`
	Journal           string   `validate:"omitempty"`
	CitationsRange    string   `validate:"omitempty"`
	StudentAuthor     bool
}

// Writer appends activities to <dir>/<year>/participations.csv.
type Writer struct {
	dir      string
	validate *validator.Validate
	newID    func() string

	mu sync.Mutex
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{
		dir:      dir,
		validate: validator.New(),
		newID:    func() string { return uuid.NewString() },
	}
}

// Append validates a and writes it as one participation row, creating the
// year directory and the header when needed.
func (w *Writer) Append(a NewActivity) (model.Participation, error) {
	if err := w.validate.Struct(a); err != nil {
		return model.Participation{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if category.KindOf(a.Category) == category.KindUnknown {
		return model.Participation{}, fmt.Errorf("%w: unknown category %q", ErrInvalidRecord, a.Category)
	}

	p := model.Participation{
		ID:                w.newID(),
		Year:              a.Year,
		Category:          strings.TrimSpace(a.Category),
		ParticipationType: strings.TrimSpace(a.ParticipationType),
		Title:             strings.TrimSpace(a.Title),
		Location:          strings.TrimSpace(a.Location),
		Date:              strings.TrimSpace(a.Date),
		ParticipantIDs:    model.ParseIDList(strings.Join(a.ParticipantIDs, model.IDSeparator)),
		GrantingBody:      strings.TrimSpace(a.GrantingBody),
		Journal:           strings.TrimSpace(a.Journal),
		CitationsRange:    strings.TrimSpace(a.CitationsRange),
		StudentAuthor:     a.StudentAuthor,
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Join(w.dir, strconv.Itoa(a.Year))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return p, fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, TableParticipations+".csv")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec // path is built from the configured data dir
	if err != nil {
		return p, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return p, fmt.Errorf("stat %s: %w", path, err)
	}
	cw := csv.NewWriter(f)
	if st.Size() == 0 {
		if err := cw.Write(participationHeader); err != nil {
			return p, fmt.Errorf("write header: %w", err)
		}
	}
	if err := cw.Write(participationRecord(p)); err != nil {
		return p, fmt.Errorf("write row: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return p, fmt.Errorf("flush %s: %w", path, err)
	}
	return p, nil
}

func participationRecord(p model.Participation) []string {
	student := "no"
	if p.StudentAuthor {
		student = "yes"
	}
	return []string{
		p.ID,
		strconv.Itoa(p.Year),
		p.Category,
		p.ParticipationType,
		p.Title,
		p.Location,
		p.Date,
		p.ParticipantIDs.String(),
		p.GrantingBody,
		p.Journal,
		p.CitationsRange,
		student,
	}
}
