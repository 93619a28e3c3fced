package dashboard

import "context"

// DashboardService summarizes the kiosk for the admin landing page.
// Headcounts exclude the reserved admin record.
type DashboardService interface {
	GetDashboard(ctx context.Context, req DashboardRequest) (DashboardResponse, error)
}
