package kpi_test

import (
	"testing"

	"github.com/okian/mizan/internal/domain/kpi"
	"github.com/okian/mizan/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompute(t *testing.T) {
	Convey("Given a dataset with four active members", t, func() {
		ds := &model.Dataset{
			Members: []model.Member{
				{ID: "M1", Active: true},
				{ID: "M2", Active: true},
				{ID: "M3", Active: true},
				{ID: "M4", Active: true},
				{ID: "OLD", Active: false},
			},
			Students: []model.StudentCount{{Program: "MSc", Count: 30}, {Program: "PhD", Count: 10}},
			Theses: []model.Thesis{
				{ID: "T1", Type: model.ThesisDoctoral},
				{ID: "T2", Type: model.ThesisMasters},
				{ID: "T3", Type: model.ThesisMasters},
			},
			Publications: []model.Publication{
				{ID: "P1", AuthorIDs: model.ParseIDList("M1|M2|OLD"), CitationsRange: "11-20", StudentAuthor: true},
				{ID: "P2", AuthorIDs: model.ParseIDList("M1"), CitationsRange: "not a range"},
			},
			Participations: []model.Participation{
				{ID: "X1", Category: "publication", ParticipantIDs: model.ParseIDList("M3"), CitationsRange: "21-50"},
				{ID: "X2", Category: "student research", ParticipantIDs: model.ParseIDList("M4")},
				{ID: "X3", Category: "award", ParticipantIDs: model.ParseIDList("M4")},
				{ID: "X4", Category: "براءة اختراع", ParticipantIDs: model.ParseIDList("M2")},
				{ID: "X5", Category: "conference", ParticipantIDs: model.ParseIDList("M2")},
				{ID: "X6", Category: "party", ParticipantIDs: model.ParseIDList("M2")},
			},
		}

		Convey("When computing with the default citation table", func() {
			k := kpi.NewAggregator().Compute(ds)

			Convey("Then counts include publication-kind participations", func() {
				So(k, ShouldNotBeNil)
				So(k.ActiveMembers, ShouldEqual, 4)
				So(k.TotalPublications, ShouldEqual, 3)
				So(k.TotalStudents, ShouldEqual, 40)
				So(k.PhDCount, ShouldEqual, 1)
				So(k.MastersCount, ShouldEqual, 2)
				So(k.InnovationCount, ShouldEqual, 2)
			})

			Convey("Then rates are per active member and rounded", func() {
				So(k.PublishingRate, ShouldEqual, 75.0)
				So(k.PublicationsPerMember, ShouldEqual, 0.8)
				So(k.CitationsPerMember, ShouldEqual, 13.8)
				So(k.SupervisionRate, ShouldEqual, 0.8)
				So(k.StudentPublicationRate, ShouldEqual, 5.0)
			})
		})

		Convey("When the citation table is configured", func() {
			k := kpi.NewAggregator(kpi.WithCitationsRanges(map[string]int{"11-20": 19})).Compute(ds)

			Convey("Then configured labels win and unknown ones stay at five", func() {
				So(k.CitationsPerMember, ShouldEqual, 14.8)
			})
		})

		Convey("When publications are authored only by inactive members", func() {
			ds.Publications = append(ds.Publications, model.Publication{ID: "P3", AuthorIDs: model.ParseIDList("OLD")})
			ds.Participations = append(ds.Participations, model.Participation{
				ID: "X7", Category: "publication", ParticipantIDs: model.ParseIDList("OLD|GHOST"),
			})
			k := kpi.NewAggregator().Compute(ds)

			Convey("Then they count as publications but not as publishing members", func() {
				So(k.TotalPublications, ShouldEqual, 5)
				So(k.PublicationsPerMember, ShouldEqual, 1.3)
				So(k.PublishingRate, ShouldEqual, 75.0)
			})
		})

		Convey("When nobody is enrolled", func() {
			ds.Students = nil
			k := kpi.NewAggregator().Compute(ds)

			Convey("Then the student rate is zero", func() {
				So(k.StudentPublicationRate, ShouldEqual, 0)
				So(k.TotalStudents, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a dataset without active members", t, func() {
		ds := &model.Dataset{
			Members:      []model.Member{{ID: "M1", Active: false}},
			Publications: []model.Publication{{ID: "P1", AuthorIDs: model.IDList{"M1"}}},
		}

		Convey("Then there is no KPI record", func() {
			So(kpi.NewAggregator().Compute(ds), ShouldBeNil)
			So(kpi.NewAggregator().Compute(nil), ShouldBeNil)
		})
	})

	Convey("Given citation labels", t, func() {
		a := kpi.NewAggregator()
		So(a.Citations("أكثر من 500"), ShouldEqual, 600)
		So(a.Citations(" 51-100 "), ShouldEqual, 75)
		So(a.Citations(""), ShouldEqual, 5)
	})
}
