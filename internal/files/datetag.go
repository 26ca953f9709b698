package files

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateTagLayout is the layout of date tags in output file names
const DateTagLayout = "2006_01_02"

// DateTag sources
const (
	TagFromName    = "filename"
	TagFromModTime = "modtime"
	TagFromToday   = "today"
)

var (
	compactDate = regexp.MustCompile(`(20\d{2})([01]\d)([0-3]\d)`)
	isoDate     = regexp.MustCompile(`(20\d{2})[-_](\d{2})[-_](\d{2})`)
	usDate      = regexp.MustCompile(`(\d{2})[-_](\d{2})[-_](20\d{2})`)
)

// DateFromName looks for a date in the file stem. Recognised forms are
// YYYYMMDD, YYYY-MM-DD and MM-DD-YYYY, with '-' or '_' separators. Matches
// that are not real calendar dates are ignored.
func DateFromName(path string) (time.Time, bool) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if m := compactDate.FindStringSubmatch(stem); m != nil {
		if d, ok := calendarDate(m[1], m[2], m[3]); ok {
			return d, true
		}
	}
	if m := isoDate.FindStringSubmatch(stem); m != nil {
		if d, ok := calendarDate(m[1], m[2], m[3]); ok {
			return d, true
		}
	}
	if m := usDate.FindStringSubmatch(stem); m != nil {
		if d, ok := calendarDate(m[3], m[1], m[2]); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// ExtractDateTag returns the YYYY_MM_DD tag for an input file and where it
// came from: a date in the file name, else the file's modification time,
// else now.
func ExtractDateTag(path string, now time.Time) (tag, source string) {
	if d, ok := DateFromName(path); ok {
		return d.Format(DateTagLayout), TagFromName
	}
	if info, err := os.Stat(path); err == nil {
		return info.ModTime().Format(DateTagLayout), TagFromModTime
	}
	return now.Format(DateTagLayout), TagFromToday
}

// OutputBaseName joins the output prefix and the date tag
func OutputBaseName(prefix, tag string) string {
	return prefix + "_" + tag
}

// calendarDate builds a date and rejects values time.Date would normalise,
// such as February 30th.
func calendarDate(year, month, day string) (time.Time, bool) {
	y, err1 := strconv.Atoi(year)
	m, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
