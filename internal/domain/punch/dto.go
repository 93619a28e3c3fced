package punch

import (
	"strings"

	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
	"github.com/gilponto/ponto-backend-go/internal/pkg/validator"
)

// IdentifyRequest is a keypad submission on the kiosk idle screen.
type IdentifyRequest struct {
	Code string `json:"code"`
}

func (r *IdentifyRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Code = strings.TrimSpace(r.Code)
	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	} else if !validator.IsNumeric(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must be numeric",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

const (
	IdentityEmployee = "employee"
	IdentityAdmin    = "admin"
)

type IdentifyResponse struct {
	Kind         string            `json:"kind"`
	EmployeeID   string            `json:"employee_id,omitempty"`
	EmployeeName string            `json:"employee_name,omitempty"`
	NextType     timelog.PunchType `json:"next_type,omitempty"`
	AccessToken  string            `json:"access_token,omitempty"`
	ExpiresAt    int64             `json:"expires_at,omitempty"`
}

type PunchRequest struct {
	EmployeeID string `json:"employee_id"`
	// Photo is the base64 snapshot, optionally with a data URL prefix.
	Photo string `json:"photo"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.Photo) {
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: timelog.ErrEmptyPhoto.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type Greeting struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// NewGreeting builds the welcome screen text after a punch.
func NewGreeting(t timelog.PunchType, verificationMessage string) Greeting {
	g := Greeting{Title: "Bom trabalho!", Subtitle: verificationMessage}
	if t == timelog.PunchOut {
		g.Title = "Até logo!"
	}
	if g.Subtitle == "" {
		kind := "entrada"
		if t == timelog.PunchOut {
			kind = "saída"
		}
		g.Subtitle = "Ponto de " + kind + " registrado com sucesso."
	}
	return g
}

type PunchResponse struct {
	Log      timelog.TimeLogResponse `json:"log"`
	Greeting Greeting                `json:"greeting"`
}

type RecentRequest struct {
	Limit int `json:"limit"`
}

const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 50
)

// Normalize clamps Limit into [1, MaxRecentLimit].
func (r *RecentRequest) Normalize() {
	if r.Limit <= 0 {
		r.Limit = DefaultRecentLimit
	}
	if r.Limit > MaxRecentLimit {
		r.Limit = MaxRecentLimit
	}
}
