/*
 *     Copyright 2022 The Dragonfly Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"d7y.io/renderfarm/pkg/dferrors"
)

type Weekday string

const (
	Monday    Weekday = "mo"
	Tuesday   Weekday = "tu"
	Wednesday Weekday = "we"
	Thursday  Weekday = "th"
	Friday    Weekday = "fr"
	Saturday  Weekday = "sa"
	Sunday    Weekday = "su"
)

const (
	minutesPerDay  = 24 * 60
	minutesPerWeek = 7 * minutesPerDay
)

// Offsets in days from the start of the week, weeks start on Monday.
var weekdayOffsets = map[Weekday]int{
	Monday:    0,
	Tuesday:   1,
	Wednesday: 2,
	Thursday:  3,
	Friday:    4,
	Saturday:  5,
	Sunday:    6,
}

var timeWeekdays = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// SleepInterval is a recurring window on the given days. End before Start
// means the window runs past midnight into the following day.
type SleepInterval struct {
	DaysOfWeek []Weekday `json:"days_of_week" binding:"required,min=1"`
	Start      string    `json:"start" binding:"required"`
	End        string    `json:"end" binding:"required"`
}

type SleepSchedule struct {
	Enabled   bool            `json:"enabled"`
	Intervals []SleepInterval `json:"intervals" binding:"dive"`
}

func (s *SleepSchedule) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return jsonValue(s)
}

func (s *SleepSchedule) Scan(val any) error {
	return jsonScan(val, s)
}

func (SleepSchedule) GormDataType() string {
	return "sleepschedule"
}

func (SleepSchedule) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return "text"
}

// Clone returns a deep copy of the schedule.
func (s *SleepSchedule) Clone() *SleepSchedule {
	if s == nil {
		return nil
	}

	c := &SleepSchedule{Enabled: s.Enabled}
	if s.Intervals != nil {
		c.Intervals = make([]SleepInterval, len(s.Intervals))
		for i, in := range s.Intervals {
			c.Intervals[i] = SleepInterval{
				DaysOfWeek: append([]Weekday(nil), in.DaysOfWeek...),
				Start:      in.Start,
				End:        in.End,
			}
		}
	}

	return c
}

// Validate checks every interval and rejects intervals that overlap in
// weekly time, including windows wrapping from Sunday into Monday.
func (s *SleepSchedule) Validate() error {
	if s == nil {
		return nil
	}

	owners := make([]int, minutesPerWeek)
	for i, in := range s.Intervals {
		ranges, err := in.weekRanges()
		if err != nil {
			return dferrors.Validationf("interval %d: %v", i, err)
		}

		for _, r := range ranges {
			for m := r[0]; m < r[1]; m++ {
				slot := m % minutesPerWeek
				if owners[slot] != 0 {
					return dferrors.Validationf("interval %d overlaps interval %d", i, owners[slot]-1)
				}
				owners[slot] = i + 1
			}
		}
	}

	return nil
}

// Asleep reports whether t falls inside an interval of an enabled schedule.
func (s *SleepSchedule) Asleep(t time.Time) bool {
	if s == nil || !s.Enabled {
		return false
	}

	m := weekdayOffsets[timeWeekdays[t.Weekday()]]*minutesPerDay + t.Hour()*60 + t.Minute()
	for _, in := range s.Intervals {
		ranges, err := in.weekRanges()
		if err != nil {
			continue
		}

		for _, r := range ranges {
			if (m >= r[0] && m < r[1]) || (m+minutesPerWeek >= r[0] && m+minutesPerWeek < r[1]) {
				return true
			}
		}
	}

	return false
}

// weekRanges returns [start, end) minute ranges from Monday 00:00. An end
// beyond the week length wraps into Monday.
func (in SleepInterval) weekRanges() ([][2]int, error) {
	if len(in.DaysOfWeek) == 0 {
		return nil, fmt.Errorf("no days of week")
	}

	start, err := parseClock(in.Start, false)
	if err != nil {
		return nil, fmt.Errorf("start: %v", err)
	}

	end, err := parseClock(in.End, true)
	if err != nil {
		return nil, fmt.Errorf("end: %v", err)
	}

	if start == end {
		return nil, fmt.Errorf("start and end are both %s", in.Start)
	}

	if end < start {
		end += minutesPerDay
	}

	seen := make(map[Weekday]bool, len(in.DaysOfWeek))
	ranges := make([][2]int, 0, len(in.DaysOfWeek))
	for _, d := range in.DaysOfWeek {
		offset, ok := weekdayOffsets[d]
		if !ok {
			return nil, fmt.Errorf("unknown day of week %q", d)
		}

		if seen[d] {
			return nil, fmt.Errorf("duplicate day of week %q", d)
		}
		seen[d] = true

		base := offset * minutesPerDay
		ranges = append(ranges, [2]int{base + start, base + end})
	}

	return ranges, nil
}

// parseClock parses "HH:MM" into minutes after midnight. "24:00" is only
// accepted as an end time.
func parseClock(s string, isEnd bool) (int, error) {
	var h, m int
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}

	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}

	if isEnd && h == 24 && m == 0 {
		return minutesPerDay, nil
	}

	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}

	return h*60 + m, nil
}
