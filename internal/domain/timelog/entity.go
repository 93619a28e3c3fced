package timelog

import (
	"time"
)

type PunchType string

const (
	PunchIn  PunchType = "IN"
	PunchOut PunchType = "OUT"
)

// TimeLog is a single punch event. Its punch data never changes after
// creation; only the photo archive bookkeeping does.
type TimeLog struct {
	ID                  string
	EmployeeID          string
	EmployeeName        string // snapshot at punch time
	Timestamp           time.Time
	Type                PunchType
	PhotoBase64         string
	PhotoPath           *string
	ArchiveAttempts     int
	IsVerified          bool
	VerificationMessage string
	CreatedAt           time.Time
}

// NextPunchType returns the type of an employee's next punch given their
// chronologically last log, or nil when they have never punched.
func NextPunchType(last *TimeLog) PunchType {
	if last != nil && last.Type == PunchIn {
		return PunchOut
	}
	return PunchIn
}

// LocalDate is the log's calendar day in loc, formatted YYYY-MM-DD.
func (l TimeLog) LocalDate(loc *time.Location) string {
	return l.Timestamp.In(loc).Format(time.DateOnly)
}
