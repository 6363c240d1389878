package model_test

import (
	"testing"

	"github.com/okian/mizan/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIDList(t *testing.T) {
	Convey("Given a delimiter-joined id column", t, func() {
		ids := model.ParseIDList(" 12| 7 |103 ||")

		Convey("Then it is split, trimmed and blanks are dropped", func() {
			So(ids, ShouldResemble, model.IDList{"12", "7", "103"})
			So(ids.String(), ShouldEqual, "12|7|103")
		})

		Convey("Then membership is exact, not substring based", func() {
			So(ids.Contains("7"), ShouldBeTrue)
			So(ids.Contains(" 7 "), ShouldBeTrue)
			So(ids.Contains("107"), ShouldBeFalse)
			So(ids.Contains("70"), ShouldBeFalse)
			So(ids.Contains("1"), ShouldBeFalse)
		})

		Convey("Then an empty id never matches", func() {
			So(ids.Contains(""), ShouldBeFalse)
			So(ids.Contains("   "), ShouldBeFalse)
		})
	})

	Convey("Given an empty column", t, func() {
		So(model.ParseIDList(""), ShouldBeNil)
		So(model.ParseIDList("   "), ShouldBeNil)
		So(model.IDList(nil).Contains("1"), ShouldBeFalse)
	})

	Convey("Given single id fields", t, func() {
		So(model.SameID("M1", "M1"), ShouldBeTrue)
		So(model.SameID(" M1", "M1 "), ShouldBeTrue)
		So(model.SameID("", ""), ShouldBeFalse)
		So(model.SameID("M10", "M1"), ShouldBeFalse)
	})
}

func TestLabels(t *testing.T) {
	Convey("Given free-text labels", t, func() {
		So(model.NormalizeLabel("  External - Discussion "), ShouldEqual, "external_discussion")
		So(model.NormalizeLabel("PEER_REVIEW"), ShouldEqual, "peer_review")
		So(model.NormalizeLabel("مشاركة  بورقة"), ShouldEqual, "مشاركة_بورقة")
		So(model.NormalizeLabel(""), ShouldEqual, "")
	})

	Convey("Given boolean sentinels", t, func() {
		for _, v := range []string{"yes", "YES", "نعم", "true", "1", " Yes "} {
			So(model.ParseFlag(v), ShouldBeTrue)
		}
		for _, v := range []string{"no", "لا", "", "0", "false", "maybe"} {
			So(model.ParseFlag(v), ShouldBeFalse)
		}
	})

	Convey("Given thesis type and status labels", t, func() {
		So(model.ParseThesisType("دكتوراه"), ShouldEqual, model.ThesisDoctoral)
		So(model.ParseThesisType("PhD"), ShouldEqual, model.ThesisDoctoral)
		So(model.ParseThesisType("ماجستير"), ShouldEqual, model.ThesisMasters)
		So(model.ParseThesisType("Master's"), ShouldEqual, model.ThesisMasters)
		So(model.ParseThesisType("diploma"), ShouldEqual, model.ThesisUnknown)

		So(model.ParseThesisStatus("منجزة"), ShouldEqual, model.ThesisCompleted)
		So(model.ParseThesisStatus("In Progress"), ShouldEqual, model.ThesisOngoing)
		So(model.ParseThesisStatus("?"), ShouldEqual, model.ThesisStatusUnknown)
	})
}

func TestDataset(t *testing.T) {
	Convey("Given two yearly datasets", t, func() {
		y2024 := &model.Dataset{
			Year: 2024,
			Members: []model.Member{
				{ID: "M1", Name: "Old Name", Active: true},
				{ID: "M2", Name: "Retired", Active: false},
			},
			Students:     []model.StudentCount{{Year: 2024, Program: "MSc", Count: 10}},
			Publications: []model.Publication{{ID: "P1"}},
		}
		y2025 := &model.Dataset{
			Year: 2025,
			Members: []model.Member{
				{ID: "M1", Name: "New Name", Active: true},
				{ID: "M3", Name: "Newcomer", Active: true},
			},
			Students:     []model.StudentCount{{Year: 2025, Program: "PhD", Count: 5}, {Year: 2025, Program: "x", Count: -3}},
			Publications: []model.Publication{{ID: "P2"}},
		}

		Convey("When merging them", func() {
			all := model.Merge(y2024, nil, y2025)

			Convey("Then members are unique and the later year wins", func() {
				So(all.Year, ShouldEqual, model.YearAll)
				So(len(all.Members), ShouldEqual, 3)
				So(all.Members[0].Name, ShouldEqual, "New Name")
				So(all.Members[1].ID, ShouldEqual, "M2")
				So(all.Members[2].ID, ShouldEqual, "M3")
			})

			Convey("Then the other tables are concatenated", func() {
				So(len(all.Publications), ShouldEqual, 2)
				So(all.TotalStudents(), ShouldEqual, 15)
			})

			Convey("Then active members keep table order", func() {
				active := all.ActiveMembers()
				So(len(active), ShouldEqual, 2)
				So(active[0].ID, ShouldEqual, "M1")
				So(active[1].ID, ShouldEqual, "M3")
			})
		})

		Convey("Then lookups use trimmed exact ids", func() {
			m, ok := y2024.Member(" M1 ")
			So(ok, ShouldBeTrue)
			So(m.Name, ShouldEqual, "Old Name")
			_, ok = y2024.Member("")
			So(ok, ShouldBeFalse)
			So(y2024.MemberName("M9"), ShouldEqual, "M9")
		})
	})

	Convey("Given year keys", t, func() {
		So(model.YearKey(model.YearAll), ShouldEqual, "all")
		So(model.YearKey(2025), ShouldEqual, "2025")
		y, ok := model.ParseYearKey("ALL")
		So(ok, ShouldBeTrue)
		So(y, ShouldEqual, model.YearAll)
		y, ok = model.ParseYearKey("2024")
		So(ok, ShouldBeTrue)
		So(y, ShouldEqual, 2024)
		_, ok = model.ParseYearKey("-1")
		So(ok, ShouldBeFalse)
		_, ok = model.ParseYearKey("twenty")
		So(ok, ShouldBeFalse)
	})
}
