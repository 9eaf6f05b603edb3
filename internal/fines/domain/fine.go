package domain

import "time"

type FineStatus string

const (
	FineStatusOutstanding FineStatus = "OUTSTANDING"
	FineStatusPaid        FineStatus = "PAID"
	FineStatusOverdue     FineStatus = "OVERDUE"
	FineStatusDisputed    FineStatus = "DISPUTED"
)

type OffenseCategory string

const (
	OffenseSpeeding     OffenseCategory = "SPEEDING"
	OffenseParking      OffenseCategory = "PARKING"
	OffenseTrafficLight OffenseCategory = "TRAFFIC_LIGHT"
	OffenseOther        OffenseCategory = "OTHER"
)

type ContactInfo struct {
	Phone   string
	Email   string
	Address string
}

// Municipality is reference data. IsSupported reports whether the
// municipality accepts online payment.
type Municipality struct {
	ID          string
	Name        string
	Province    string
	IsSupported bool
	LogoURL     string
	Contact     ContactInfo
}

type Offense struct {
	Code        string
	Description string
	Category    OffenseCategory
	Points      int
}

// TrafficFine is issued by a municipality feed and never mutated here.
type TrafficFine struct {
	ID                  string
	NoticeNumber        string
	VehicleRegistration string
	DriverIDNumber      string
	Municipality        Municipality
	Offense             Offense
	Amount              float64
	IssueDate           time.Time
	DueDate             time.Time
	Location            string
	Status              FineStatus
	DiscountAmount      *float64   // nullable
	DiscountValidUntil  *time.Time // nullable
}

// DiscountActive reports whether the early payment discount still applies at now.
func (f TrafficFine) DiscountActive(now time.Time) bool {
	if f.DiscountAmount == nil || *f.DiscountAmount <= 0 {
		return false
	}
	if f.DiscountValidUntil == nil {
		return true
	}
	return !now.After(*f.DiscountValidUntil)
}

// PayableAmount is the amount minus any active discount, never below zero.
func (f TrafficFine) PayableAmount(now time.Time) float64 {
	if !f.DiscountActive(now) {
		return f.Amount
	}
	return max(f.Amount-*f.DiscountAmount, 0)
}

// IsPayable reports whether the fine can be handed to the payment gateway.
func (f TrafficFine) IsPayable() bool {
	if !f.Municipality.IsSupported {
		return false
	}
	return f.Status == FineStatusOutstanding || f.Status == FineStatusOverdue
}
