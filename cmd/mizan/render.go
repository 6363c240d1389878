package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/okian/mizan/internal/domain/kpi"
	"github.com/okian/mizan/internal/domain/model"
	"github.com/okian/mizan/internal/domain/report"
	"github.com/okian/mizan/internal/domain/scoring"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	goldColor   = color.New(color.FgYellow, color.Bold)
	silverColor = color.New(color.FgWhite, color.Bold)
	bronzeColor = color.New(color.FgRed)
	dimColor    = color.New(color.Faint)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1).
			Width(24)
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	cardValueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
)

// fit pads or truncates s to exactly width terminal cells.
func fit(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		if width <= 3 {
			return runewidth.Truncate(s, width, "")
		}
		s = runewidth.Truncate(s, width, "...")
	}
	return runewidth.FillRight(s, width)
}

// fitLeft right-aligns s in width cells.
func fitLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}

// breakdownSummary lists non-zero buckets in rule order, e.g. "publications 2, phd_supervision 1".
func breakdownSummary(b map[model.Rule]int) string {
	var parts []string
	for _, rule := range model.AllRules {
		if n := b[rule]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", rule, n))
		}
	}
	return strings.Join(parts, ", ")
}

func rankColor(rank int) *color.Color {
	switch rank {
	case 1:
		return goldColor
	case 2:
		return silverColor
	case 3:
		return bronzeColor
	default:
		return nil
	}
}

// renderLeaderboard writes a ranked table sized with runewidth so Arabic
// and Latin names line up.
func renderLeaderboard(w io.Writer, title string, entries []scoring.Entry) {
	_, _ = headerColor.Fprintln(w, title)
	if len(entries) == 0 {
		_, _ = dimColor.Fprintln(w, "no active members")
		return
	}

	const (
		rankW   = 4
		nameW   = 28
		titleW  = 18
		pointsW = 7
	)
	_, _ = headerColor.Fprintln(w, fitLeft("#", rankW)+"  "+fit("Name", nameW)+"  "+
		fit("Academic rank", titleW)+"  "+fitLeft("Points", pointsW)+"  Breakdown")

	for _, e := range entries {
		name := e.Member.Name
		if name == "" {
			name = e.Member.ID
		}
		line := fitLeft(strconv.Itoa(e.Rank), rankW) + "  " + fit(name, nameW) + "  " +
			fit(e.Member.AcademicRank, titleW) + "  " + fitLeft(strconv.Itoa(e.TotalPoints), pointsW) + "  " +
			breakdownSummary(e.Breakdown)
		if c := rankColor(e.Rank); c != nil {
			_, _ = c.Fprintln(w, line)
			continue
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

func card(title, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(title) + "\n" + cardValueStyle.Render(value))
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

// renderKPI lays the indicators out as cards, three per row.
func renderKPI(w io.Writer, rep *report.Report) {
	heading := "KPIs " + rep.Year
	if rep.Department != "" {
		heading = rep.Department + " - " + heading
	}
	_, _ = headerColor.Fprintln(w, heading)

	k := rep.KPI
	if k == nil {
		_, _ = dimColor.Fprintln(w, "no data for this year")
		return
	}
	cards := kpiCards(k, rep.Totals)
	for i := 0; i < len(cards); i += 3 {
		end := min(i+3, len(cards))
		_, _ = fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
}

func kpiCards(k *kpi.KPI, t report.Totals) []string {
	return []string{
		card("Active members", strconv.Itoa(k.ActiveMembers)),
		card("Publishing rate", formatFloat(k.PublishingRate)+"%"),
		card("Publications / member", formatFloat(k.PublicationsPerMember)),
		card("Citations / member", formatFloat(k.CitationsPerMember)),
		card("Student pub. rate", formatFloat(k.StudentPublicationRate)+"%"),
		card("Supervision rate", formatFloat(k.SupervisionRate)),
		card("PhD / Masters", fmt.Sprintf("%d / %d", k.PhDCount, k.MastersCount)),
		card("Innovation", strconv.Itoa(k.InnovationCount)),
		card("Events", fmt.Sprintf("%d (%d completed theses)", t.Events, t.CompletedTheses)),
	}
}

// renderMember prints one member's points and activity lists.
func renderMember(w io.Writer, year string, d *report.MemberDetail) {
	name := d.Member.Name
	if name == "" {
		name = d.Member.ID
	}
	_, _ = headerColor.Fprintf(w, "%s (%s) - %s\n", name, d.Member.ID, year)
	if d.Rank > 0 {
		_, _ = fmt.Fprintf(w, "rank %d, %d points\n", d.Rank, d.Points.TotalPoints)
	} else {
		_, _ = fmt.Fprintf(w, "inactive, %d points\n", d.Points.TotalPoints)
	}

	for _, rule := range model.AllRules {
		if n := d.Points.Breakdown[rule]; n > 0 {
			_, _ = fmt.Fprintf(w, "  %s %s\n", fit(string(rule), 26), fitLeft(strconv.Itoa(n), 4))
		}
	}

	section := func(title string, n int) {
		if n > 0 {
			_, _ = dimColor.Fprintf(w, "%s: %d\n", title, n)
		}
	}
	section("supervised theses", len(d.Supervised))
	section("co-supervised theses", len(d.CoSupervised))
	section("examined theses", len(d.Examined))
	section("publications", len(d.Publications))
	for _, rule := range model.AllRules {
		section(string(rule), len(d.Participations[rule]))
	}
	section("awards", len(d.Awards))
	section("patents", len(d.Patents))
}
