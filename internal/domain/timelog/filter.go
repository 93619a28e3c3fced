package timelog

import (
	"slices"
	"strings"
	"time"
)

type VerifiedFilter string

const (
	VerifiedAll        VerifiedFilter = "all"
	VerifiedOnly       VerifiedFilter = "verified"
	VerifiedUnverified VerifiedFilter = "unverified"
)

var ValidVerifiedFilters = []string{string(VerifiedAll), string(VerifiedOnly), string(VerifiedUnverified)}

// LogFilter selects logs for the admin list, exports and the printable report.
// StartDate and EndDate are inclusive YYYY-MM-DD bounds; empty means open.
type LogFilter struct {
	Search    string
	StartDate string
	EndDate   string
	Verified  VerifiedFilter
}

// IsZero reports whether the filter selects every log.
func (f LogFilter) IsZero() bool {
	return f.Search == "" && f.StartDate == "" && f.EndDate == "" &&
		(f.Verified == "" || f.Verified == VerifiedAll)
}

// Match reports whether l passes every criterion. Calendar days are taken in loc.
func (f LogFilter) Match(l TimeLog, loc *time.Location) bool {
	if f.Search != "" {
		search := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(l.EmployeeName), search) &&
			!strings.Contains(l.EmployeeID, f.Search) {
			return false
		}
	}

	day := l.LocalDate(loc)
	if f.StartDate != "" && day < f.StartDate {
		return false
	}
	if f.EndDate != "" && day > f.EndDate {
		return false
	}

	switch f.Verified {
	case VerifiedOnly:
		return l.IsVerified
	case VerifiedUnverified:
		return !l.IsVerified
	}
	return true
}

// Apply returns the matching logs, newest first. logs is not modified.
func (f LogFilter) Apply(logs []TimeLog, loc *time.Location) []TimeLog {
	out := make([]TimeLog, 0, len(logs))
	for _, l := range logs {
		if f.Match(l, loc) {
			out = append(out, l)
		}
	}
	slices.SortStableFunc(out, func(a, b TimeLog) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out
}

// StatusLabel is the verified-filter caption used on the printable report.
func (f LogFilter) StatusLabel() string {
	if f.Verified == "" || f.Verified == VerifiedAll {
		return "Todos"
	}
	return string(f.Verified)
}

// PeriodLabel describes the date bounds on the printable report.
func (f LogFilter) PeriodLabel() string {
	if f.StartDate == "" && f.EndDate == "" {
		return "Todo o Período"
	}
	start, end := f.StartDate, f.EndDate
	if start == "" {
		start = "Inicio"
	}
	if end == "" {
		end = "Hoje"
	}
	return "Periodo: " + start + " a " + end
}
