// Package agent answers free-text questions about a listening-history
// dataset. A question is reduced to an optional date window plus an
// intent keyword; the matching handler computes its answer over a
// filtered copy of the dataset.
package agent

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateFilter is the time window extracted from one query. Every field is
// independently optional; an empty filter selects the whole dataset.
type DateFilter struct {
	Day     *int // 1-31
	Month   *int // 1-12
	Year    *int
	Weekday *int // 0=Monday .. 6=Sunday

	// Display form of the matched weekday alias ("Sat", "Saturday").
	WeekdayName string
}

// Month aliases in scan order. Matching is by substring containment, so
// an alias hidden inside another word still hits; the first alias whose
// text appears anywhere in the query wins. The order is load-bearing and
// must not be resorted.
var monthAliases = []struct {
	name string
	num  int
}{
	{"jan", 1}, {"january", 1}, {"feb", 2}, {"february", 2}, {"mar", 3}, {"march", 3},
	{"apr", 4}, {"april", 4}, {"may", 5}, {"jun", 6}, {"june", 6}, {"jul", 7}, {"july", 7},
	{"aug", 8}, {"august", 8}, {"sep", 9}, {"september", 9}, {"oct", 10}, {"october", 10},
	{"nov", 11}, {"november", 11}, {"dec", 12}, {"december", 12},
}

// Weekday aliases in scan order, matched as whole words only. Unlike the
// month scan this requires word boundaries on both sides; the asymmetry
// is deliberate and preserved.
var weekdayAliases = []struct {
	name string
	re   *regexp.Regexp
	num  int
}{
	{name: "mon", num: 0}, {name: "monday", num: 0},
	{name: "tue", num: 1}, {name: "tuesday", num: 1},
	{name: "wed", num: 2}, {name: "wednesday", num: 2},
	{name: "thu", num: 3}, {name: "thursday", num: 3},
	{name: "fri", num: 4}, {name: "friday", num: 4},
	{name: "sat", num: 5}, {name: "saturday", num: 5},
	{name: "sun", num: 6}, {name: "sunday", num: 6},
}

func init() {
	for i := range weekdayAliases {
		weekdayAliases[i].re = regexp.MustCompile(`\b` + weekdayAliases[i].name + `\b`)
	}
}

var (
	// Years the history can plausibly cover. Four-digit tokens outside
	// this range are left alone.
	yearRe = regexp.MustCompile(`\b(20[1-2][0-9])\b`)

	// A day of month as a whole word, with an optional ordinal suffix.
	dayRe = regexp.MustCompile(`\b(0?[1-9]|[12][0-9]|3[01])(?:st|nd|rd|th)?\b`)
)

// ExtractDate finds the day, month, year and weekday mentioned in a
// free-text query. Absent fields stay nil; there are no error
// conditions.
func ExtractDate(query string) DateFilter {
	query = strings.ToLower(query)
	var f DateFilter

	if m := yearRe.FindStringSubmatch(query); m != nil {
		year, _ := strconv.Atoi(m[1])
		f.Year = &year
	}

	for _, alias := range monthAliases {
		if strings.Contains(query, alias.name) {
			month := alias.num
			f.Month = &month
			break
		}
	}

	if m := dayRe.FindStringSubmatch(query); m != nil {
		day, _ := strconv.Atoi(m[1])
		// "Top 5 songs" should not read the 5 as a day of month. With a
		// month present the number is taken to be a date after all.
		suppressed := strings.Contains(query, "top") &&
			strings.Contains(query, strconv.Itoa(day)) &&
			f.Month == nil
		if !suppressed {
			f.Day = &day
		}
	}

	for _, alias := range weekdayAliases {
		if alias.re.MatchString(query) {
			weekday := alias.num
			f.Weekday = &weekday
			f.WeekdayName = strings.ToUpper(alias.name[:1]) + alias.name[1:]
			break
		}
	}

	return f
}

// Label renders the window as a human-readable string, or "All Time"
// when no field was extracted.
func (f DateFilter) Label() string {
	var parts []string
	if f.WeekdayName != "" {
		parts = append(parts, f.WeekdayName+"s")
	}
	if f.Day != nil {
		parts = append(parts, strconv.Itoa(*f.Day))
	}
	if f.Month != nil {
		parts = append(parts, time.Month(*f.Month).String())
	}
	if f.Year != nil {
		parts = append(parts, strconv.Itoa(*f.Year))
	}
	if len(parts) == 0 {
		return "All Time"
	}
	return strings.Join(parts, " ")
}

// Empty reports whether no date field was extracted.
func (f DateFilter) Empty() bool {
	return f.Day == nil && f.Month == nil && f.Year == nil && f.Weekday == nil
}
