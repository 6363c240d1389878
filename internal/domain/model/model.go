// Package model contains the typed records the scoring engine reads.
//
// All values here are already normalised: flags are booleans, years are
// integers and identifier lists are split and trimmed. Decoding the raw CSV
// sentinels is the job of the csvio adapter.
package model

// YearAll marks a dataset merged across every available year.
const YearAll = 0

// Member is one faculty record.
type Member struct {
	ID           string `json:"id" msgpack:"id"`
	Name         string `json:"name" msgpack:"name"`
	AcademicRank string `json:"academic_rank" msgpack:"academic_rank"`
	Active       bool   `json:"active" msgpack:"active"`
	Email        string `json:"email,omitempty" msgpack:"email,omitempty"`
}

// Thesis is a supervised doctoral or master's thesis. Up to four members
// reference it, each role scored independently.
type Thesis struct {
	ID             string       `json:"id" msgpack:"id"`
	Year           int          `json:"year" msgpack:"year"`
	Type           ThesisType   `json:"type" msgpack:"type"`
	Specialization string       `json:"specialization,omitempty" msgpack:"specialization,omitempty"`
	StudentName    string       `json:"student_name,omitempty" msgpack:"student_name,omitempty"`
	Title          string       `json:"title" msgpack:"title"`
	Status         ThesisStatus `json:"status" msgpack:"status"`
	DefenseDate    string       `json:"defense_date,omitempty" msgpack:"defense_date,omitempty"`
	SupervisorID   string       `json:"supervisor_id,omitempty" msgpack:"supervisor_id,omitempty"`
	CoSupervisorID string       `json:"co_supervisor_id,omitempty" msgpack:"co_supervisor_id,omitempty"`
	Examiner1ID    string       `json:"examiner1_id,omitempty" msgpack:"examiner1_id,omitempty"`
	Examiner2ID    string       `json:"examiner2_id,omitempty" msgpack:"examiner2_id,omitempty"`
}

// Publication is a row of the dedicated publications table.
type Publication struct {
	ID             string `json:"id" msgpack:"id"`
	Year           int    `json:"year" msgpack:"year"`
	Title          string `json:"title" msgpack:"title"`
	Journal        string `json:"journal,omitempty" msgpack:"journal,omitempty"`
	PublishDate    string `json:"publish_date,omitempty" msgpack:"publish_date,omitempty"`
	CitationsRange string `json:"citations_range,omitempty" msgpack:"citations_range,omitempty"`
	AuthorIDs      IDList `json:"authors_ids" msgpack:"authors_ids"`
	StudentAuthor  bool   `json:"student_author" msgpack:"student_author"`
}

// Participation is the generalised activity record. Category and
// ParticipationType keep their raw labels; the category resolver decides
// what they are worth.
type Participation struct {
	ID                string `json:"id" msgpack:"id"`
	Year              int    `json:"year" msgpack:"year"`
	Category          string `json:"category" msgpack:"category"`
	ParticipationType string `json:"participation_type,omitempty" msgpack:"participation_type,omitempty"`
	Title             string `json:"title" msgpack:"title"`
	Location          string `json:"location,omitempty" msgpack:"location,omitempty"`
	Date              string `json:"date,omitempty" msgpack:"date,omitempty"`
	ParticipantIDs    IDList `json:"participant_ids" msgpack:"participant_ids"`
	GrantingBody      string `json:"granting_body,omitempty" msgpack:"granting_body,omitempty"`
	Journal           string `json:"journal,omitempty" msgpack:"journal,omitempty"`
	CitationsRange    string `json:"citations_range,omitempty" msgpack:"citations_range,omitempty"`
	StudentAuthor     bool   `json:"student_author,omitempty" msgpack:"student_author,omitempty"`
}

// StudentCount is an aggregate enrollment figure for one program.
type StudentCount struct {
	Year    int    `json:"year" msgpack:"year"`
	Program string `json:"program" msgpack:"program"`
	Count   int    `json:"count" msgpack:"count"`
}

// Dataset is the immutable snapshot of every table for one year selection.
// Callers build it once and never mutate it afterwards.
type Dataset struct {
	Year           int
	Members        []Member
	Students       []StudentCount
	Theses         []Thesis
	Publications   []Publication
	Participations []Participation
}

// ActiveMembers returns the active members in table order.
func (d *Dataset) ActiveMembers() []Member {
	if d == nil {
		return nil
	}
	out := make([]Member, 0, len(d.Members))
	for _, m := range d.Members {
		if m.Active {
			out = append(out, m)
		}
	}
	return out
}

// Member looks a member up by exact trimmed id.
func (d *Dataset) Member(id string) (Member, bool) {
	if d == nil {
		return Member{}, false
	}
	key := normalizeID(id)
	if key == "" {
		return Member{}, false
	}
	for _, m := range d.Members {
		if normalizeID(m.ID) == key {
			return m, true
		}
	}
	return Member{}, false
}

// MemberName resolves an id to a display name, falling back to the id.
func (d *Dataset) MemberName(id string) string {
	if m, ok := d.Member(id); ok && m.Name != "" {
		return m.Name
	}
	return normalizeID(id)
}

// TotalStudents sums every enrollment row.
func (d *Dataset) TotalStudents() int {
	if d == nil {
		return 0
	}
	total := 0
	for _, s := range d.Students {
		if s.Count > 0 {
			total += s.Count
		}
	}
	return total
}

// Merge concatenates per-year datasets into one "all years" snapshot.
// Members are keyed by id and the later dataset wins, so pass them in
// ascending year order.
func Merge(sets ...*Dataset) *Dataset {
	out := &Dataset{Year: YearAll}
	index := make(map[string]int)
	for _, ds := range sets {
		if ds == nil {
			continue
		}
		for _, m := range ds.Members {
			key := normalizeID(m.ID)
			if i, ok := index[key]; ok {
				out.Members[i] = m
				continue
			}
			index[key] = len(out.Members)
			out.Members = append(out.Members, m)
		}
		out.Students = append(out.Students, ds.Students...)
		out.Theses = append(out.Theses, ds.Theses...)
		out.Publications = append(out.Publications, ds.Publications...)
		out.Participations = append(out.Participations, ds.Participations...)
	}
	return out
}
