package timetable

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Monday is day index 0; the week runs Monday through Sunday.
	Monday   = 0
	Saturday = 5

	minutesPerHour = 60
)

var dayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// teaching windows, expressed as [start, end) hours. Lunch (12:00-13:00) sits between them.
var teachingWindows = [][2]int{{7, 12}, {13, 17}}

// Slot is a one-hour teaching period on a given day.
type Slot struct {
	Day   int `json:"day"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// String renders the slot as "Monday 07:00-08:00".
func (s Slot) String() string {
	return fmt.Sprintf("%s %s-%s", DayName(s.Day), FormatClock(s.Start), FormatClock(s.End))
}

// Days returns the working day indexes in fixed order.
func Days(includeSaturday bool) []int {
	days := []int{0, 1, 2, 3, 4}
	if includeSaturday {
		days = append(days, Saturday)
	}
	return days
}

// DaySlots returns the hourly slots for a single day in ascending start order.
func DaySlots(day int) []Slot {
	slots := make([]Slot, 0, 9)
	for _, window := range teachingWindows {
		for hour := window[0]; hour < window[1]; hour++ {
			slots = append(slots, Slot{
				Day:   day,
				Start: hour * minutesPerHour,
				End:   (hour + 1) * minutesPerHour,
			})
		}
	}
	return slots
}

// GenerateSlots enumerates every teaching slot of the week.
func GenerateSlots(includeSaturday bool) []Slot {
	days := Days(includeSaturday)
	slots := make([]Slot, 0, len(days)*9)
	for _, day := range days {
		slots = append(slots, DaySlots(day)...)
	}
	return slots
}

// Run is a contiguous sequence of slots on one day.
type Run struct {
	Day   int
	Start int
	End   int
}

// Hours reports the run length in whole hours.
func (r Run) Hours() int {
	return (r.End - r.Start) / minutesPerHour
}

// Runs lists every contiguous run of length slots within daySlots, ordered by start.
// Slots separated by a gap (lunch) never share a run.
func Runs(daySlots []Slot, length int) []Run {
	if length <= 0 || length > len(daySlots) {
		return nil
	}
	runs := make([]Run, 0, len(daySlots))
	for i := 0; i+length <= len(daySlots); i++ {
		contiguous := true
		for j := i; j < i+length-1; j++ {
			if daySlots[j].End != daySlots[j+1].Start || daySlots[j].Day != daySlots[j+1].Day {
				contiguous = false
				break
			}
		}
		if !contiguous {
			continue
		}
		runs = append(runs, Run{
			Day:   daySlots[i].Day,
			Start: daySlots[i].Start,
			End:   daySlots[i+length-1].End,
		})
	}
	return runs
}

// DayName maps a day index to its English name.
func DayName(day int) string {
	if day < 0 || day >= len(dayNames) {
		return ""
	}
	return dayNames[day]
}

// FormatClock renders minutes after midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/minutesPerHour, minutes%minutesPerHour)
}

// ParseClock parses HH:MM (or HH:MM:SS as returned by Postgres TIME columns) into minutes.
func ParseClock(raw string) (int, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock value %q", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", raw)
	}
	return hour*minutesPerHour + minute, nil
}
