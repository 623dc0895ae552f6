// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"fmt"
	"strings"
	"time"
)

const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"
)

// ParseDay membaca "YYYY-MM-DD" sebagai awal hari di loc. String kosong → nil.
func ParseDay(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DayLayout, s, loc)
	if err != nil {
		return nil, fmt.Errorf("date %q invalide, format attendu YYYY-MM-DD", s)
	}
	return &t, nil
}

// EndExclusive mengubah hari terakhir (inklusif) jadi batas atas eksklusif.
func EndExclusive(day time.Time) time.Time {
	return day.AddDate(0, 0, 1)
}

// DayKey mengelompokkan waktu per hari kalender di loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayLayout)
}

func MonthKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(MonthLayout)
}
