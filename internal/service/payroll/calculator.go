package payroll

import (
	"slices"

	"github.com/gilponto/ponto-backend-go/internal/domain/payroll"
	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
)

const msPerHour = 3_600_000.0

// Calculate aggregates one employee's punches into regular and overtime
// hours and prices them under policy. The caller passes only that
// employee's logs; they need not be sorted and are not modified.
//
// Only an IN immediately followed by an OUT (after sorting) counts as a
// worked interval. Open shifts, stray OUTs and repeated INs contribute
// nothing. Each interval longer than the daily limit splits into limit
// regular hours plus the remainder as overtime.
func Calculate(logs []timelog.TimeLog, rates payroll.Rates, policy payroll.PayPolicy) payroll.Summary {
	sorted := slices.Clone(logs)
	slices.SortStableFunc(sorted, func(a, b timelog.TimeLog) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	limit := rates.DailyHoursLimit
	if limit <= 0 {
		limit = payroll.DefaultDailyHours
	}
	limitMs := limit * msPerHour

	var s payroll.Summary
	for i := 0; i < len(sorted); i++ {
		if sorted[i].Type != timelog.PunchIn {
			continue
		}
		if i+1 >= len(sorted) || sorted[i+1].Type != timelog.PunchOut {
			continue
		}

		durationMs := float64(sorted[i+1].Timestamp.Sub(sorted[i].Timestamp).Milliseconds())
		if durationMs > limitMs {
			s.RegularHours += limit
			s.OvertimeHours += (durationMs - limitMs) / msPerHour
		} else {
			s.RegularHours += durationMs / msPerHour
		}
		s.Intervals++
		i++
	}

	s.TotalHours = s.RegularHours + s.OvertimeHours
	s.Pay = price(s, rates, policy)
	return s
}

func price(s payroll.Summary, rates payroll.Rates, policy payroll.PayPolicy) float64 {
	overtime := s.OvertimeHours * rates.OvertimeRate
	if policy == payroll.PolicyRegularPlusOvertime {
		return s.RegularHours*rates.HourlyRate + overtime
	}
	return overtime
}
