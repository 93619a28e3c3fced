package dashboard

import "github.com/gilponto/ponto-backend-go/internal/domain/timelog"

type DashboardResponse struct {
	EmployeeCount   int                   `json:"employee_count"`
	DepartmentCount int                   `json:"department_count"`
	ActiveCount     int                   `json:"active_count"`
	TotalLogs       int64                 `json:"total_logs"`
	Activity        []timelog.DayActivity `json:"activity"`
	MaxActivity     int                   `json:"max_activity"`
}

type DashboardRequest struct {
	Timezone string `json:"tz,omitempty"`
}
