package timelog

import (
	"strings"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/pkg/validator"
)

// ========================================
// TIME LOG DTOs
// ========================================

type ListTimeLogsRequest struct {
	Search    string `json:"search,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Verified  string `json:"verified,omitempty"`
	Timezone  string `json:"tz,omitempty"` // IANA name of the viewer's zone
}

func (r *ListTimeLogsRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Search = strings.TrimSpace(r.Search)

	if r.StartDate != "" {
		if _, ok := validator.IsValidDate(r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if r.EndDate != "" {
		if _, ok := validator.IsValidDate(r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.Verified != "" && !validator.IsInSlice(r.Verified, ValidVerifiedFilters) {
		errs = append(errs, validator.ValidationError{
			Field:   "verified",
			Message: "verified must be one of: all, verified, unverified",
		})
	}

	if r.Timezone != "" {
		if _, err := time.LoadLocation(r.Timezone); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "tz",
				Message: "tz must be a valid IANA time zone",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r ListTimeLogsRequest) Filter() LogFilter {
	verified := VerifiedFilter(r.Verified)
	if verified == "" {
		verified = VerifiedAll
	}
	return LogFilter{
		Search:    r.Search,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Verified:  verified,
	}
}

// Location resolves the viewer's zone, falling back to def.
func (r ListTimeLogsRequest) Location(def *time.Location) *time.Location {
	if r.Timezone == "" {
		return def
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return def
	}
	return loc
}

// EmployeeReportRequest selects one employee's printable history.
type EmployeeReportRequest struct {
	EmployeeID string `json:"-"`
	Timezone   string `json:"tz,omitempty"`
}

func (r EmployeeReportRequest) Location(def *time.Location) *time.Location {
	return ListTimeLogsRequest{Timezone: r.Timezone}.Location(def)
}

type DeleteTimeLogRequest struct {
	ID  string `json:"-"`
	PIN string `json:"-"`
}

type TimeLogResponse struct {
	ID                  string    `json:"id"`
	EmployeeID          string    `json:"employee_id"`
	EmployeeName        string    `json:"employee_name"`
	Timestamp           time.Time `json:"timestamp"`
	Type                string    `json:"type"`
	PhotoBase64         string    `json:"photo_base64,omitempty"`
	PhotoPath           *string   `json:"photo_path,omitempty"`
	PhotoURL            string    `json:"photo_url,omitempty"`
	IsVerified          bool      `json:"is_verified"`
	VerificationMessage string    `json:"verification_message"`
}

func NewTimeLogResponse(l TimeLog) TimeLogResponse {
	return TimeLogResponse{
		ID:                  l.ID,
		EmployeeID:          l.EmployeeID,
		EmployeeName:        l.EmployeeName,
		Timestamp:           l.Timestamp,
		Type:                string(l.Type),
		PhotoBase64:         l.PhotoBase64,
		PhotoPath:           l.PhotoPath,
		IsVerified:          l.IsVerified,
		VerificationMessage: l.VerificationMessage,
	}
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
