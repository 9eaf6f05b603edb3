package domain

// DashboardStats summarises a user's fines for the dashboard view.
type DashboardStats struct {
	TotalCount       int
	OutstandingCount int
	OutstandingTotal float64
	OverdueCount     int
	PaidCount        int
	TotalPaid        float64
	VehicleCount     int
}

// Summarise builds dashboard stats from the user's fines and history. The
// outstanding total includes overdue fines.
func Summarise(u User, fines []TrafficFine) DashboardStats {
	stats := DashboardStats{TotalCount: len(fines), VehicleCount: len(u.Vehicles)}
	for _, f := range fines {
		switch f.Status {
		case FineStatusOutstanding:
			stats.OutstandingCount++
			stats.OutstandingTotal += f.Amount
		case FineStatusOverdue:
			stats.OverdueCount++
			stats.OutstandingTotal += f.Amount
		case FineStatusPaid:
			stats.PaidCount++
		}
	}
	for _, p := range u.PaymentHistory {
		if p.Status == PaymentCompleted {
			stats.TotalPaid += p.Amount
		}
	}
	return stats
}
