package punch

import (
	"context"

	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
)

type PunchService interface {
	// Identify resolves a keypad code to the admin or an employee.
	Identify(ctx context.Context, req IdentifyRequest) (IdentifyResponse, error)
	// Punch records the next IN/OUT for an employee. Verification failures
	// never prevent the log from being stored.
	Punch(ctx context.Context, req PunchRequest) (PunchResponse, error)
	Recent(ctx context.Context, req RecentRequest) ([]timelog.TimeLogResponse, error)
}
