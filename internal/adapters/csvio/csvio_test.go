package csvio

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/mizan/internal/domain/model"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newYear(t *testing.T, root string, year string, tables map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, year), 0o755))
	for name, body := range tables {
		writeFile(t, filepath.Join(root, year, name+".csv"), body)
	}
}

func TestLoadYearUnifiedSchema(t *testing.T) {
	root := t.TempDir()
	newYear(t, root, "2025", map[string]string{
		TableFaculty: "\xEF\xBB\xBFid,name,academic_rank,active,email\n" +
			"M1,Amal,Professor,yes,amal@example.org\n" +
			"M2,Basim,Lecturer,no,\n" +
			",,,,\n",
		TableStudents: "year,program,count\n2025,MSc,30\n,PhD,12\n",
		TableTheses: "id,year,type,specialization,student_name,title,status,defense_date,supervisor_id,co_supervisor_id,examiner1_id,examiner2_id\n" +
			"T1,2025,دكتوراه,AI,Sara,Deep things,منجزة,2025-06-01,M1,,M2,\n",
		TablePublications: "id,year,title,journal,publish_date,citations_range,authors_ids,student_author\n" +
			"P1,2025,\"Graphs, again\",JACM,2025-02-01,11-20, M1 | M2 ,نعم\n",
		TableParticipations: "id,year,category,participation_type,title,location,date,participant_ids\n" +
			"E1,2025,conference,organization,Summit,Riyadh,2025-03-01,M1\n",
	})

	ld := NewLoader(root)
	ds, err := ld.LoadYear(context.Background(), 2025)
	require.NoError(t, err)

	require.Len(t, ds.Members, 2)
	assert.Equal(t, "M1", ds.Members[0].ID)
	assert.Equal(t, "Professor", ds.Members[0].AcademicRank)
	assert.True(t, ds.Members[0].Active)
	assert.False(t, ds.Members[1].Active)

	assert.Equal(t, 42, ds.TotalStudents())
	assert.Equal(t, 2025, ds.Students[1].Year)

	require.Len(t, ds.Theses, 1)
	assert.Equal(t, model.ThesisDoctoral, ds.Theses[0].Type)
	assert.Equal(t, model.ThesisCompleted, ds.Theses[0].Status)

	require.Len(t, ds.Publications, 1)
	assert.Equal(t, "Graphs, again", ds.Publications[0].Title)
	assert.Equal(t, model.IDList{"M1", "M2"}, ds.Publications[0].AuthorIDs)
	assert.True(t, ds.Publications[0].StudentAuthor)

	require.Len(t, ds.Participations, 1)
	assert.Equal(t, "organization", ds.Participations[0].ParticipationType)
}

func TestLoadYearLegacySchema(t *testing.T) {
	root := t.TempDir()
	newYear(t, root, "2024", map[string]string{
		TableFaculty: "id,name,rank,active\nM1,Amal,Professor,نعم\n",
		TableEvents: "id,name,type,location,date,participant_ids,participation_type\n" +
			"E1,Expo,مؤتمر,Jeddah,2024-01-10,M1,مشاركة بورقة\n",
		TableAwards: "id,name,type,granting_body,recipient_id,date\n" +
			"A1,Gadget,براءة اختراع,Office,M1,2024-05-01\n" +
			"A2,Prize,تميز,Board,M1,2024-06-01\n",
	})

	var (
		mu   sync.Mutex
		seen []string
	)
	ld := NewLoader(root, WithTableObserver(func(_ int, table string, rows int) {
		if rows > 0 {
			mu.Lock()
			seen = append(seen, table)
			mu.Unlock()
		}
	}))
	ds, err := ld.LoadYear(context.Background(), 2024)
	require.NoError(t, err)

	assert.Equal(t, "Professor", ds.Members[0].AcademicRank)
	require.Len(t, ds.Participations, 3)

	event := ds.Participations[0]
	assert.Equal(t, "مؤتمر", event.Category)
	assert.Equal(t, "Expo", event.Title)
	assert.Equal(t, 2024, event.Year)

	assert.Equal(t, "patent", ds.Participations[1].Category)
	assert.Equal(t, model.IDList{"M1"}, ds.Participations[1].ParticipantIDs)
	assert.Equal(t, "award", ds.Participations[2].Category)
	assert.Equal(t, "Board", ds.Participations[2].GrantingBody)

	assert.ElementsMatch(t, []string{TableFaculty, TableEvents, TableAwards}, seen)
}

func TestLoadYearErrors(t *testing.T) {
	root := t.TempDir()
	ld := NewLoader(root)

	_, err := ld.LoadYear(context.Background(), 1999)
	require.ErrorIs(t, err, ErrYearNotFound)

	newYear(t, root, "2023", map[string]string{
		TableTheses: "id,year,type\nT1,twenty,masters\n",
	})
	_, err = ld.LoadYear(context.Background(), 2023)
	require.ErrorIs(t, err, ErrInvalidYear)

	newYear(t, root, "2022", map[string]string{
		TableStudents: "program,count\nMSc,many\n",
	})
	_, err = ld.LoadYear(context.Background(), 2022)
	require.ErrorIs(t, err, ErrInvalidNumber)

	newYear(t, root, "2021", map[string]string{
		TableFaculty: "id,name\n,Nameless\n",
	})
	_, err = ld.LoadYear(context.Background(), 2021)
	require.ErrorIs(t, err, ErrInvalidRecord)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	newYear(t, root, "2020", map[string]string{TableFaculty: "id\nM1\n"})
	_, err = ld.LoadYear(ctx, 2020)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadAllAndYears(t *testing.T) {
	root := t.TempDir()
	newYear(t, root, "2024", map[string]string{
		TableFaculty:      "id,name,active\nM1,Old,yes\nM2,Gone,yes\n",
		TablePublications: "id,authors_ids\nP1,M1\n",
	})
	newYear(t, root, "2025", map[string]string{
		TableFaculty:      "id,name,active\nM1,New,yes\nM2,Gone,no\n",
		TablePublications: "id,authors_ids\nP2,M1\n",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "assets"), 0o755))
	writeFile(t, filepath.Join(root, "README.md"), "notes")

	ld := NewLoader(root)
	years, err := ld.Years()
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2025}, years)

	all, err := ld.LoadAll(context.Background(), []int{2025, 2024, 2025})
	require.NoError(t, err)
	assert.Equal(t, model.YearAll, all.Year)
	assert.Len(t, all.Publications, 2)
	require.Len(t, all.Members, 2)
	assert.Equal(t, "New", all.Members[0].Name)
	assert.False(t, all.Members[1].Active)

	_, err = ld.LoadAll(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoYears)
}

func TestLoadSettings(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		s, err := NewLoader(t.TempDir()).LoadSettings()
		require.NoError(t, err)
		assert.Equal(t, model.DefaultSettings(), s)
		assert.Zero(t, s.CurrentYear)
		assert.Empty(t, s.AvailableYears)
	})

	t.Run("partial file overlays defaults", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, SettingsFile), `{
			"available_years": [2024, 2025],
			"weights": {"publication": 20},
			"citations_ranges": {"11-20": 18},
			"department_name": "Physics"
		}`)
		s, err := NewLoader(root).LoadSettings()
		require.NoError(t, err)
		assert.Equal(t, 2025, s.CurrentYear)
		assert.Equal(t, []int{2024, 2025}, s.AvailableYears)
		assert.Equal(t, 20, s.Weights["publication"])
		assert.Equal(t, 18, s.CitationsRanges["11-20"])
		assert.Equal(t, 600, s.CitationsRanges["أكثر من 500"])
		assert.Equal(t, "Physics", s.DepartmentName)
	})

	t.Run("negative weight is rejected", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, SettingsFile), `{"weights": {"award": -3}}`)
		_, err := NewLoader(root).LoadSettings()
		require.ErrorIs(t, err, ErrInvalidSettings)
	})

	t.Run("broken json is rejected", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, SettingsFile), `{"weights": `)
		_, err := NewLoader(root).LoadSettings()
		require.ErrorIs(t, err, ErrInvalidSettings)
	})
}

func TestWriterAppend(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	ids := []string{"id-1", "id-2"}
	w.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	p, err := w.Append(NewActivity{
		Year:              2026,
		Category:          "workshop",
		ParticipationType: "organization",
		Title:             "Intro, with comma",
		ParticipantIDs:    []string{" M1 ", "M2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", p.ID)
	assert.Equal(t, model.IDList{"M1", "M2"}, p.ParticipantIDs)

	_, err = w.Append(NewActivity{Year: 2026, Category: "award", Title: "Prize", ParticipantIDs: []string{"M1"}, StudentAuthor: true})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(root, "2026", TableParticipations+".csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(participationHeader, ","), lines[0])

	ds, err := NewLoader(root).LoadYear(context.Background(), 2026)
	require.NoError(t, err)
	require.Len(t, ds.Participations, 2)
	assert.Equal(t, "Intro, with comma", ds.Participations[0].Title)
	assert.Equal(t, model.IDList{"M1", "M2"}, ds.Participations[0].ParticipantIDs)
	assert.True(t, ds.Participations[1].StudentAuthor)

	_, err = w.Append(NewActivity{Year: 2026, Category: "gala", Title: "x", ParticipantIDs: []string{"M1"}})
	require.ErrorIs(t, err, ErrInvalidRecord)

	_, err = w.Append(NewActivity{Year: 2026, Category: "award", Title: "x"})
	require.ErrorIs(t, err, ErrInvalidRecord)
}

func TestDecodeQuirks(t *testing.T) {
	rows, err := decode(strings.NewReader(""), "empty")
	require.NoError(t, err)
	assert.Nil(t, rows)

	rows, err = decode(strings.NewReader(" ID , Name \nM1,Amal,extra\nM2\n"), "ragged")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Amal", rows[0].get("name"))
	assert.Equal(t, "", rows[1].get("name"))
	assert.Equal(t, 3, rows[1].line)
}
