package model

import (
	"strconv"
	"strings"
)

// Settings mirrors the per-dataset config.json. Every field has a fallback so
// an absent file still yields a working engine.
type Settings struct {
	CurrentYear     int            `koanf:"current_year" json:"current_year" validate:"gte=0"`
	AvailableYears  []int          `koanf:"available_years" json:"available_years" validate:"dive,gt=0"`
	Weights         map[string]int `koanf:"weights" json:"weights" validate:"dive,gte=0"`
	CitationsRanges map[string]int `koanf:"citations_ranges" json:"citations_ranges" validate:"dive,gte=0"`
	DepartmentName  string         `koanf:"department_name" json:"department_name,omitempty"`
	UniversityName  string         `koanf:"university_name" json:"university_name,omitempty"`
}

// DefaultCitationsRanges estimates a citation count per range label.
func DefaultCitationsRanges() map[string]int {
	return map[string]int{
		"أقل من 10":   5,
		"11-20":       15,
		"21-50":       35,
		"51-100":      75,
		"101-200":     150,
		"201-500":     350,
		"أكثر من 500": 600,
	}
}

// DefaultSettings is used when the dataset has no config.json. No year is
// pinned: every year directory is available and the latest one is current.
func DefaultSettings() Settings {
	return Settings{
		Weights:         map[string]int{},
		CitationsRanges: DefaultCitationsRanges(),
	}
}

// YearKey renders a year selection; YearAll becomes "all".
func YearKey(year int) string {
	if year == YearAll {
		return "all"
	}
	return strconv.Itoa(year)
}

// ParseYearKey is the inverse of YearKey.
func ParseYearKey(key string) (int, bool) {
	key = strings.TrimSpace(key)
	if strings.EqualFold(key, "all") {
		return YearAll, true
	}
	y, err := strconv.Atoi(key)
	if err != nil || y <= 0 {
		return 0, false
	}
	return y, true
}
