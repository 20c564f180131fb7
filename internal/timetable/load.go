package timetable

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/noah-isme/sis-api/internal/models"
)

// Fallback loads applied when a subject name is absent from the table.
const (
	FallbackJuniorHours     = 4
	FallbackSeniorCoreHours = 3
	FallbackSeniorHours     = 4
)

// DefaultWeeklyHours is the weekly contact-hour table keyed by normalised subject name.
var DefaultWeeklyHours = map[string]int{
	"filipino":                                     4,
	"english":                                      4,
	"mathematics":                                  4,
	"science":                                      4,
	"araling panlipunan":                           3,
	"edukasyon sa pagpapakatao":                    2,
	"mapeh":                                        4,
	"tle":                                          4,
	"oral communication":                           4,
	"reading and writing":                          4,
	"komunikasyon at pananaliksik":                 4,
	"general mathematics":                          4,
	"statistics and probability":                   4,
	"earth and life science":                       4,
	"physical education and health":                2,
	"understanding culture, society, and politics": 3,
	"empowerment technologies":                     4,
	"entrepreneurship":                             4,
	"practical research 1":                         4,
	"practical research 2":                         4,
	"inquiries, investigations, and immersion":     4,
}

// LoadTable resolves a subject's weekly-hour load.
type LoadTable struct {
	hours map[string]int
}

// NewLoadTable builds a table from DefaultWeeklyHours merged with the provided overrides.
func NewLoadTable(overrides map[string]int) *LoadTable {
	hours := make(map[string]int, len(DefaultWeeklyHours)+len(overrides))
	for name, h := range DefaultWeeklyHours {
		hours[name] = h
	}
	for name, h := range overrides {
		key := normaliseName(name)
		if key == "" || h <= 0 {
			continue
		}
		hours[key] = h
	}
	return &LoadTable{hours: hours}
}

// Hours returns the weekly load for a subject. Lookup order: exact name, name without a
// trailing grade number, then the band/category fallback.
func (t *LoadTable) Hours(name string, band models.LevelBand, category models.SubjectCategory) int {
	if t != nil {
		key := normaliseName(name)
		if h, ok := t.hours[key]; ok {
			return h
		}
		if stripped := stripGradeSuffix(key); stripped != key {
			if h, ok := t.hours[stripped]; ok {
				return h
			}
		}
	}
	return FallbackHours(band, category)
}

// FallbackHours applies the band/category rule for subjects missing from the table.
func FallbackHours(band models.LevelBand, category models.SubjectCategory) int {
	if band == models.LevelBandSHS {
		if category == models.SubjectCategoryCore {
			return FallbackSeniorCoreHours
		}
		return FallbackSeniorHours
	}
	return FallbackJuniorHours
}

// ParseWeeklyHours parses "Name=Hours,Other=Hours" configuration strings.
func ParseWeeklyHours(raw string) (map[string]int, error) {
	result := make(map[string]int)
	if strings.TrimSpace(raw) == "" {
		return result, nil
	}
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("weekly hours entry %q missing '='", pair)
		}
		hours, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || hours <= 0 {
			return nil, fmt.Errorf("weekly hours entry %q has invalid hours", pair)
		}
		result[normaliseName(name)] = hours
	}
	return result, nil
}

func normaliseName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// stripGradeSuffix turns "mathematics 10" into "mathematics". Names whose number is part
// of the title (e.g. "practical research 1") are matched exactly before this runs.
func stripGradeSuffix(name string) string {
	idx := strings.LastIndexByte(name, ' ')
	if idx <= 0 {
		return name
	}
	suffix := name[idx+1:]
	for _, r := range suffix {
		if !unicode.IsDigit(r) {
			return name
		}
	}
	return strings.TrimSpace(name[:idx])
}
