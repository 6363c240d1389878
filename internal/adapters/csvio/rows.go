package csvio

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/okian/mizan/internal/domain/category"
	"github.com/okian/mizan/internal/domain/model"
)

func parseInt(raw string) (int, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	n, err := safecast.Conv[int](v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidNumber, raw, err)
	}
	return n, nil
}

// yearOf reads the year column, defaulting to the directory year.
func yearOf(r row, fallback int) (int, error) {
	raw := r.get("year")
	if raw == "" {
		return fallback, nil
	}
	y, err := parseInt(raw)
	if err != nil || y <= 0 {
		return 0, fmt.Errorf("%w: line %d: %q", ErrInvalidYear, r.line, raw)
	}
	return y, nil
}

func memberFromRow(r row) (model.Member, error) {
	m := model.Member{
		ID:           r.get("id"),
		Name:         r.get("name"),
		AcademicRank: r.get("academic_rank", "rank"),
		Active:       model.ParseFlag(r.get("active")),
		Email:        r.get("email"),
	}
	if m.ID == "" {
		return m, fmt.Errorf("%w: line %d: faculty row without id", ErrInvalidRecord, r.line)
	}
	return m, nil
}

func studentCountFromRow(r row, year int) (model.StudentCount, error) {
	y, err := yearOf(r, year)
	if err != nil {
		return model.StudentCount{}, err
	}
	s := model.StudentCount{Year: y, Program: r.get("program")}
	if raw := r.get("count"); raw != "" {
		n, err := parseInt(raw)
		if err != nil {
			return s, fmt.Errorf("line %d: %w", r.line, err)
		}
		s.Count = n
	}
	return s, nil
}

func thesisFromRow(r row, year int) (model.Thesis, error) {
	y, err := yearOf(r, year)
	if err != nil {
		return model.Thesis{}, err
	}
	return model.Thesis{
		ID:             r.get("id"),
		Year:           y,
		Type:           model.ParseThesisType(r.get("type")),
		Specialization: r.get("specialization"),
		StudentName:    r.get("student_name"),
		Title:          r.get("title"),
		Status:         model.ParseThesisStatus(r.get("status")),
		DefenseDate:    r.get("defense_date"),
		SupervisorID:   r.get("supervisor_id"),
		CoSupervisorID: r.get("co_supervisor_id"),
		Examiner1ID:    r.get("examiner1_id"),
		Examiner2ID:    r.get("examiner2_id"),
	}, nil
}

func publicationFromRow(r row, year int) (model.Publication, error) {
	y, err := yearOf(r, year)
	if err != nil {
		return model.Publication{}, err
	}
	return model.Publication{
		ID:             r.get("id"),
		Year:           y,
		Title:          r.get("title", "name"),
		Journal:        r.get("journal", "journal_or_venue", "venue"),
		PublishDate:    r.get("publish_date", "date"),
		CitationsRange: r.get("citations_range"),
		AuthorIDs:      model.ParseIDList(r.get("authors_ids", "author_ids")),
		StudentAuthor:  model.ParseFlag(r.get("student_author")),
	}, nil
}

func participationFromRow(r row, year int) (model.Participation, error) {
	y, err := yearOf(r, year)
	if err != nil {
		return model.Participation{}, err
	}
	return model.Participation{
		ID:                r.get("id"),
		Year:              y,
		Category:          r.get("category"),
		ParticipationType: r.get("participation_type"),
		Title:             r.get("title", "name"),
		Location:          r.get("location"),
		Date:              r.get("date"),
		ParticipantIDs:    model.ParseIDList(r.get("participant_ids")),
		GrantingBody:      r.get("granting_body"),
		Journal:           r.get("journal"),
		CitationsRange:    r.get("citations_range"),
		StudentAuthor:     model.ParseFlag(r.get("student_author")),
	}, nil
}

// eventFromRow adapts a legacy events.csv row: the event type becomes the
// participation category.
func eventFromRow(r row, year int) (model.Participation, error) {
	p, err := participationFromRow(r, year)
	if err != nil {
		return p, err
	}
	if p.Category == "" {
		p.Category = r.get("type")
	}
	return p, nil
}

// awardFromRow adapts a legacy awards.csv row. The recipient becomes the
// only participant; anything that is not a patent is an award.
func awardFromRow(r row, year int) (model.Participation, error) {
	p, err := participationFromRow(r, year)
	if err != nil {
		return p, err
	}
	p.Category = string(category.KindAward)
	if category.KindOf(r.get("type", "category")) == category.KindPatent {
		p.Category = string(category.KindPatent)
	}
	if len(p.ParticipantIDs) == 0 {
		p.ParticipantIDs = model.ParseIDList(r.get("recipient_id"))
	}
	return p, nil
}
