package report

import (
	"github.com/okian/mizan/internal/domain/model"
	"github.com/okian/mizan/internal/domain/scoring"
)

// MemberDetail groups every record that mentions one member.
type MemberDetail struct {
	Member         model.Member                         `json:"member" msgpack:"member"`
	Rank           int                                  `json:"rank,omitempty" msgpack:"rank,omitempty"`
	Points         scoring.Result                       `json:"points" msgpack:"points"`
	Supervised     []model.Thesis                       `json:"supervised" msgpack:"supervised"`
	CoSupervised   []model.Thesis                       `json:"co_supervised" msgpack:"co_supervised"`
	Examined       []model.Thesis                       `json:"examined" msgpack:"examined"`
	Publications   []model.Publication                  `json:"publications" msgpack:"publications"`
	Participations map[model.Rule][]model.Participation `json:"participations" msgpack:"participations"`
	Awards         []model.Participation                `json:"awards" msgpack:"awards"`
	Patents        []model.Participation                `json:"patents" msgpack:"patents"`
}

// MemberDetail collects the activity of memberID. The boolean is false when
// the member is not in the faculty table. Rank and points of active members
// come from ranked, the leaderboard already computed for ds; a nil ranked is
// computed here. Rank is zero for inactive members.
func (b *Builder) MemberDetail(ds *model.Dataset, memberID string, ranked []scoring.Entry) (*MemberDetail, bool) {
	m, ok := ds.Member(memberID)
	if !ok {
		return nil, false
	}
	d := &MemberDetail{
		Member:         m,
		Participations: map[model.Rule][]model.Participation{},
	}
	if m.Active {
		if ranked == nil {
			ranked = b.calc.Leaderboard(ds)
		}
		for _, e := range ranked {
			if model.SameID(e.Member.ID, m.ID) {
				d.Rank = e.Rank
				d.Points = scoring.Result{MemberID: m.ID, TotalPoints: e.TotalPoints, Breakdown: e.Breakdown}
				break
			}
		}
	}
	if d.Rank == 0 {
		d.Points = b.calc.Points(ds, m.ID)
	}

	for _, th := range ds.Theses {
		if model.SameID(th.SupervisorID, m.ID) {
			d.Supervised = append(d.Supervised, th)
		}
		if model.SameID(th.CoSupervisorID, m.ID) {
			d.CoSupervised = append(d.CoSupervised, th)
		}
		if model.SameID(th.Examiner1ID, m.ID) || model.SameID(th.Examiner2ID, m.ID) {
			d.Examined = append(d.Examined, th)
		}
	}
	for _, p := range ds.Publications {
		if p.AuthorIDs.Contains(m.ID) {
			d.Publications = append(d.Publications, p)
		}
	}
	for _, p := range ds.Participations {
		if !p.ParticipantIDs.Contains(m.ID) {
			continue
		}
		rule, ok := b.resolver.Resolve(p)
		if !ok {
			continue
		}
		d.Participations[rule] = append(d.Participations[rule], p)
		switch rule {
		case model.RuleAward:
			d.Awards = append(d.Awards, p)
		case model.RulePatent:
			d.Patents = append(d.Patents, p)
		}
	}

	return d, true
}
