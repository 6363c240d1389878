package service_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/mizan/internal/adapters/csvio"
	service "github.com/okian/mizan/internal/app"
	"github.com/okian/mizan/internal/domain/model"
	"github.com/okian/mizan/pkg/logger"
	"github.com/okian/mizan/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

// fixture lays out two years of data under a temp dir.
func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"config.json": `{"current_year": 2025, "available_years": [2024, 2025], "department_name": "Computer Science"}`,

		"2024/faculty.csv":      "id,name,academic_rank,active\nM1,Amal,Professor,yes\n",
		"2024/publications.csv": "id,year,title,journal,publish_date,citations_range,authors_ids,student_author\nP0,2024,Old,JACM,2024-05-01,0-10,M1,no\n",

		"2025/faculty.csv":        "id,name,academic_rank,active\nM1,Amal,Professor,yes\nM2,Basim,Lecturer,no\nM3,Huda,Lecturer,yes\n",
		"2025/students_count.csv": "year,program,count\n2025,MSc,20\n",
		"2025/theses.csv":         "id,year,type,title,status,supervisor_id\nT1,2025,doctoral,Deep things,ongoing,M1\n",
		"2025/publications.csv":   "id,year,title,journal,publish_date,citations_range,authors_ids,student_author\nP1,2025,Graphs,JACM,2025-02-01,11-20,M1|M2,no\n",
		"2025/participations.csv": "id,year,category,participation_type,title,location,date,participant_ids\nE1,2025,conference,organization,Summit,Riyadh,2025-03-01,M3\n",
	}
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func started(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	opts = append([]service.Option{
		service.WithDataDir(fixture(t)),
		service.WithLogger(logger.Nop()),
	}, opts...)
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithDataDir(t.TempDir()), service.WithLogger(logger.Nop()))
		defer svc.Stop()

		Convey("Reads fail before Start", func() {
			_, err := svc.Report(context.Background(), 2025)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldBeFalse)
		})

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["snapshots"], ShouldEqual, 0)
		})
	})
}

func TestService_Select(t *testing.T) {
	Convey("Given a started service over two years of data", t, func() {
		ctx := context.Background()
		svc := started(t, service.WithMaxLeaderboardLimit(10))

		Convey("Selecting a year ranks only its active members", func() {
			rep, err := svc.Select(ctx, 2025)
			So(err, ShouldBeNil)
			So(rep.Year, ShouldEqual, "2025")
			So(rep.Department, ShouldEqual, "Computer Science")
			So(rep.Leaderboard, ShouldHaveLength, 2)
			So(rep.Leaderboard[0].Member.ID, ShouldEqual, "M1")
			So(rep.Leaderboard[0].TotalPoints, ShouldEqual, 25)
			So(rep.Leaderboard[1].Member.ID, ShouldEqual, "M3")
			So(rep.Leaderboard[1].TotalPoints, ShouldEqual, 6)
			So(svc.GetStats()["years"], ShouldResemble, []string{"2025"})
		})

		Convey("The all-years view merges every available year", func() {
			rep, err := svc.Report(ctx, model.YearAll)
			So(err, ShouldBeNil)
			So(rep.Year, ShouldEqual, "all")
			So(rep.Leaderboard[0].Member.ID, ShouldEqual, "M1")
			So(rep.Leaderboard[0].TotalPoints, ShouldEqual, 40)
		})

		Convey("Leaderboard honours the limit and the cap", func() {
			top, err := svc.Leaderboard(ctx, 2025, 1)
			So(err, ShouldBeNil)
			So(top, ShouldHaveLength, 1)

			all, err := svc.Leaderboard(ctx, 2025, 0)
			So(err, ShouldBeNil)
			So(all, ShouldHaveLength, 2)
		})

		Convey("KPI is computed over active members", func() {
			k, err := svc.KPI(ctx, 2025)
			So(err, ShouldBeNil)
			So(k, ShouldNotBeNil)
			So(k.ActiveMembers, ShouldEqual, 2)
			So(k.TotalStudents, ShouldEqual, 20)
		})

		Convey("Member detail takes the rank from the published leaderboard", func() {
			d, err := svc.Member(ctx, 2025, "M1")
			So(err, ShouldBeNil)
			So(d.Rank, ShouldEqual, 1)
			So(d.Points.TotalPoints, ShouldEqual, 25)
		})

		Convey("Member detail includes inactive members without a rank", func() {
			d, err := svc.Member(ctx, 2025, "M2")
			So(err, ShouldBeNil)
			So(d.Rank, ShouldEqual, 0)
			So(d.Points.TotalPoints, ShouldEqual, 15)

			_, err = svc.Member(ctx, 2025, "nobody")
			So(err, ShouldWrap, service.ErrMemberNotFound)
		})

		Convey("A year without data is an error", func() {
			_, err := svc.Select(ctx, 2019)
			So(err, ShouldWrap, csvio.ErrYearNotFound)

			_, err = svc.Select(ctx, -1)
			So(err, ShouldWrap, service.ErrInvalidYear)
		})

		Convey("Years and the default year come from the settings", func() {
			years, err := svc.Years(ctx)
			So(err, ShouldBeNil)
			So(years, ShouldResemble, []int{2024, 2025})

			y, err := svc.DefaultYear(ctx)
			So(err, ShouldBeNil)
			So(y, ShouldEqual, 2025)
		})

		Convey("A pinned default year wins over the settings", func() {
			pinned := started(t, service.WithDefaultYear(2024))
			y, err := pinned.DefaultYear(ctx)
			So(err, ShouldBeNil)
			So(y, ShouldEqual, 2024)
		})
	})
}

func TestService_AddActivity(t *testing.T) {
	Convey("Given a published year", t, func() {
		ctx := context.Background()
		svc := started(t)
		_, err := svc.Select(ctx, 2025)
		So(err, ShouldBeNil)

		Convey("Adding an attendance refreshes the snapshot", func() {
			p, err := svc.AddActivity(ctx, csvio.NewActivity{
				Year:              2025,
				Category:          "conference",
				ParticipationType: "attendance",
				Title:             "Autumn meeting",
				ParticipantIDs:    []string{"M3"},
			})
			So(err, ShouldBeNil)
			So(p.ID, ShouldNotBeEmpty)

			top, err := svc.Leaderboard(ctx, 2025, 0)
			So(err, ShouldBeNil)
			So(top[1].Member.ID, ShouldEqual, "M3")
			So(top[1].TotalPoints, ShouldEqual, 7)
		})

		Convey("Invalid activities are rejected", func() {
			_, err := svc.AddActivity(ctx, csvio.NewActivity{Year: 2025, Category: "picnic", Title: "x", ParticipantIDs: []string{"M1"}})
			So(err, ShouldWrap, csvio.ErrInvalidRecord)
		})
	})
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestService_WithoutSettingsFile(t *testing.T) {
	Convey("Given a data dir with year directories and no config.json", t, func() {
		ctx := context.Background()
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"2022/faculty.csv":      "id,name,academic_rank,active\nM1,Amal,Professor,yes\n",
			"2023/faculty.csv":      "id,name,academic_rank,active\nM1,Amal,Professor,yes\n",
			"2023/publications.csv": "id,year,title,authors_ids\nP1,2023,Graphs,M1\n",
		})
		svc := service.New(service.WithDataDir(root), service.WithLogger(logger.Nop()))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Every year directory is available", func() {
			years, err := svc.Years(ctx)
			So(err, ShouldBeNil)
			So(years, ShouldResemble, []int{2022, 2023})
		})

		Convey("The latest year is the default", func() {
			y, err := svc.DefaultYear(ctx)
			So(err, ShouldBeNil)
			So(y, ShouldEqual, 2023)

			rep, err := svc.Report(ctx, y)
			So(err, ShouldBeNil)
			So(rep.Leaderboard, ShouldHaveLength, 1)
			So(rep.Leaderboard[0].TotalPoints, ShouldEqual, 15)
		})

		Convey("The merged view covers every year", func() {
			rep, err := svc.Report(ctx, model.YearAll)
			So(err, ShouldBeNil)
			So(rep.Year, ShouldEqual, "all")
			So(rep.Leaderboard, ShouldHaveLength, 1)
		})
	})
}

// unknownCategoryCount reads the unknown category counter from the registry.
func unknownCategoryCount(t *testing.T) float64 {
	t.Helper()
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if mf.GetName() != "mizan_engine_unknown_labels_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "field" && l.GetValue() == "category" {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestService_UnknownLabelsCountedOnPublish(t *testing.T) {
	Convey("Given a year with an unrecognised participation category", t, func() {
		ctx := context.Background()
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"2025/faculty.csv":        "id,name,academic_rank,active\nM1,Amal,Professor,yes\n",
			"2025/participations.csv": "id,year,category,title,participant_ids\nX1,2025,picnic,Lunch,M1\n",
		})
		svc := service.New(service.WithDataDir(root), service.WithLogger(logger.Nop()))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		before := unknownCategoryCount(t)
		_, err := svc.Select(ctx, 2025)
		So(err, ShouldBeNil)
		published := unknownCategoryCount(t)
		So(published, ShouldBeGreaterThan, before)

		Convey("Member views do not count it again", func() {
			for range 3 {
				d, err := svc.Member(ctx, 2025, "M1")
				So(err, ShouldBeNil)
				So(d.Points.TotalPoints, ShouldEqual, 0)
			}
			So(unknownCategoryCount(t), ShouldEqual, published)
		})
	})
}
