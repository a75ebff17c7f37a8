// Package schedule expands weekly course schedules from YAML files
// into concrete course sessions.
package schedule

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/GAURAV130105/attendance-system/internal/database"
)

// Entry is one weekly recurring slot in a schedule file.
type Entry struct {
	Course       string `yaml:"course"`
	Name         string `yaml:"name"`
	Weekday      string `yaml:"weekday"`
	Start        string `yaml:"start"` // "15:04" wall clock
	End          string `yaml:"end"`
	GraceMinutes int    `yaml:"grace_minutes"`
}

// File is the top-level shape of a schedule YAML file.
type File struct {
	Timezone string  `yaml:"timezone"`
	Courses  []Entry `yaml:"courses"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Load reads and validates a schedule file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule file: %w", err)
	}
	return Parse(data)
}

// Parse validates schedule YAML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse schedule YAML: %w", err)
	}

	if len(f.Courses) == 0 {
		return nil, fmt.Errorf("schedule file contains no courses")
	}

	for i, e := range f.Courses {
		if e.Course == "" {
			return nil, fmt.Errorf("schedule entry %d: course ID is required", i)
		}
		if _, ok := weekdays[strings.ToLower(e.Weekday)]; !ok {
			return nil, fmt.Errorf("schedule entry %d (%s): unknown weekday %q", i, e.Course, e.Weekday)
		}
		start, err := parseClock(e.Start)
		if err != nil {
			return nil, fmt.Errorf("schedule entry %d (%s): start: %w", i, e.Course, err)
		}
		end, err := parseClock(e.End)
		if err != nil {
			return nil, fmt.Errorf("schedule entry %d (%s): end: %w", i, e.Course, err)
		}
		if !end.after(start) {
			return nil, fmt.Errorf("schedule entry %d (%s): end %s is not after start %s", i, e.Course, e.End, e.Start)
		}
		if e.GraceMinutes < 0 {
			return nil, fmt.Errorf("schedule entry %d (%s): negative grace period", i, e.Course)
		}
	}

	return &f, nil
}

// Location resolves the file's timezone, defaulting to local time.
func (f *File) Location() (*time.Location, error) {
	if f.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return nil, fmt.Errorf("resolve schedule timezone: %w", err)
	}
	return loc, nil
}

// Expand materializes every weekly slot into concrete course sessions
// between from and to (inclusive dates). Session IDs combine the
// course ID and the date, so each meeting is its own session and the
// at-most-once rule applies per meeting.
func (f *File) Expand(from, to time.Time, loc *time.Location) ([]database.Course, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("schedule range end %s is before start %s",
			to.Format("2006-01-02"), from.Format("2006-01-02"))
	}

	var sessions []database.Course
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		for _, e := range f.Courses {
			if weekdays[strings.ToLower(e.Weekday)] != day.Weekday() {
				continue
			}

			start, _ := parseClock(e.Start)
			end, _ := parseClock(e.End)

			sessions = append(sessions, database.Course{
				CourseID:       fmt.Sprintf("%s-%s", e.Course, day.Format("2006-01-02")),
				Name:           e.Name,
				ScheduledStart: start.on(day, loc),
				ScheduledEnd:   end.on(day, loc),
				GracePeriod:    time.Duration(e.GraceMinutes) * time.Minute,
			})
		}
	}
	return sessions, nil
}

// clock is a wall-clock time of day.
type clock struct {
	hour, minute int
}

func parseClock(s string) (clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return clock{}, fmt.Errorf("invalid clock time %q (want HH:MM)", s)
	}
	return clock{hour: t.Hour(), minute: t.Minute()}, nil
}

func (c clock) after(other clock) bool {
	if c.hour != other.hour {
		return c.hour > other.hour
	}
	return c.minute > other.minute
}

func (c clock) on(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.hour, c.minute, 0, 0, loc)
}
