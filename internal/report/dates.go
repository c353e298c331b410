package report

import (
	"regexp"
	"strings"
	"time"
)

// dateLayouts are the date formats found in package email fields, tried in
// order, most specific first.
var dateLayouts = []string{
	"1-2-2006 3:04 PM", // 02-25-2026 01:40 PM
	"1/2/2006 3:04 PM", // 10/16/2025 2:55 PM
	"1/2/06 3:04 PM",   // 2/26/26 3:00 PM
	"1-2-2006",         // 02-26-2026
	"1/2/2006",         // 2/3/2026, 12/22/2025
	"1/2/06",           // 2/27/26
}

// placeholders are known non-date stand-ins that should render as blank.
var placeholders = map[string]struct{}{
	"N/A": {}, "No": {}, "PENDING ITEMS": {}, "- -": {},
	"--/--/----": {}, "--": {}, "": {},
}

var (
	timeOnly = regexp.MustCompile(`(?i)^\d{1,2}:\d{2}(:\d{2})?\s*(AM|PM)?$`)
	timeTail = regexp.MustCompile(`(?i)^(.*?)(\d{1,2}:\d{2}(?::\d{2})?\s*(?:AM|PM))$`)
)

// CoerceDate tries to read a field value as a date.
//
// Returns (t, true, false) when val parses as a date, (zero, false, true)
// when val is a placeholder or time-only fragment that should render blank,
// and (zero, false, false) when val should be kept as the original string.
func CoerceDate(val string) (t time.Time, ok bool, blank bool) {
	cleaned := strings.TrimSpace(val)

	if _, isPlaceholder := placeholders[cleaned]; isPlaceholder {
		return time.Time{}, false, true
	}
	if timeOnly.MatchString(cleaned) {
		return time.Time{}, false, true
	}

	// Repair stray spaces inside the date part ("02-1 9 -2026" → "02-19-2026"),
	// keeping the AM/PM time portion's spacing intact.
	if m := timeTail.FindStringSubmatch(cleaned); m != nil {
		datePart := strings.ReplaceAll(m[1], " ", "")
		timePart := strings.TrimSpace(m[2])
		cleaned = datePart + " " + timePart
	} else {
		cleaned = strings.ReplaceAll(cleaned, " ", "")
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, cleaned); err == nil {
			return parsed, true, false
		}
	}
	return time.Time{}, false, false
}
