package payroll

// PayPolicy decides which worked hours are priced into Pay.
type PayPolicy string

const (
	// PolicyOvertimeOnly prices overtime hours only: pay = overtime × overtime rate.
	PolicyOvertimeOnly PayPolicy = "overtime_only"
	// PolicyRegularPlusOvertime prices every closed hour:
	// pay = regular × hourly rate + overtime × overtime rate.
	PolicyRegularPlusOvertime PayPolicy = "regular_plus_overtime"

	DefaultPayPolicy = PolicyOvertimeOnly
)

// DefaultDailyHours replaces an absent or zero daily-hours threshold.
const DefaultDailyHours = 8.0

func (p PayPolicy) IsValid() bool {
	return p == PolicyOvertimeOnly || p == PolicyRegularPlusOvertime
}

// ParsePayPolicy returns ErrInvalidPayPolicy for unknown names.
func ParsePayPolicy(s string) (PayPolicy, error) {
	if s == "" {
		return DefaultPayPolicy, nil
	}
	p := PayPolicy(s)
	if !p.IsValid() {
		return "", ErrInvalidPayPolicy
	}
	return p, nil
}

// Rates are the load-bearing employee fields for aggregation.
type Rates struct {
	HourlyRate      float64
	OvertimeRate    float64
	DailyHoursLimit float64
}

// Summary is the aggregation result in raw floating point.
type Summary struct {
	RegularHours  float64
	OvertimeHours float64
	TotalHours    float64
	Pay           float64
	// Intervals is the number of closed IN→OUT pairs that were counted.
	Intervals int
}
