package http

import (
	"github.com/aussiebroadwan/finepay/internal/fines/domain"
	"github.com/aussiebroadwan/finepay/internal/fines/service"
	"github.com/aussiebroadwan/finepay/pkg/finesdk"
	"github.com/aussiebroadwan/finepay/pkg/payfast"
)

func toMunicipality(m domain.Municipality) finesdk.Municipality {
	return finesdk.Municipality{
		ID:          m.ID,
		Name:        m.Name,
		Province:    m.Province,
		IsSupported: m.IsSupported,
		LogoURL:     m.LogoURL,
		ContactInfo: finesdk.ContactInfo{
			Phone:   m.Contact.Phone,
			Email:   m.Contact.Email,
			Address: m.Contact.Address,
		},
	}
}

func toFine(f domain.TrafficFine) finesdk.Fine {
	return finesdk.Fine{
		ID:                  f.ID,
		NoticeNumber:        f.NoticeNumber,
		VehicleRegistration: f.VehicleRegistration,
		DriverIDNumber:      f.DriverIDNumber,
		Municipality:        toMunicipality(f.Municipality),
		Offense: finesdk.Offense{
			Code:        f.Offense.Code,
			Description: f.Offense.Description,
			Category:    string(f.Offense.Category),
			Points:      f.Offense.Points,
		},
		Amount:             f.Amount,
		DueDate:            f.DueDate,
		IssueDate:          f.IssueDate,
		Location:           f.Location,
		Status:             string(f.Status),
		DiscountAmount:     f.DiscountAmount,
		DiscountValidUntil: f.DiscountValidUntil,
	}
}

func toFines(fs []domain.TrafficFine) []finesdk.Fine {
	out := make([]finesdk.Fine, 0, len(fs))
	for _, f := range fs {
		out = append(out, toFine(f))
	}
	return out
}

func toPayments(ps []domain.PaymentRecord) []finesdk.PaymentRecord {
	out := make([]finesdk.PaymentRecord, 0, len(ps))
	for _, p := range ps {
		out = append(out, finesdk.PaymentRecord{
			ID:            p.ID,
			FineID:        p.FineID,
			Amount:        p.Amount,
			PaymentDate:   p.PaymentDate,
			PaymentMethod: p.PaymentMethod,
			TransactionID: p.TransactionID,
			Status:        string(p.Status),
		})
	}
	return out
}

// toUser never exposes the password hash.
func toUser(u domain.User) finesdk.User {
	vehicles := make([]finesdk.Vehicle, 0, len(u.Vehicles))
	for _, v := range u.Vehicles {
		vehicles = append(vehicles, finesdk.Vehicle{
			ID:           v.ID,
			Registration: v.Registration,
			Make:         v.Make,
			Model:        v.Model,
			Year:         v.Year,
			UserID:       v.UserID,
		})
	}
	return finesdk.User{
		ID:             u.ID,
		IDNumber:       u.IDNumber,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Phone:          u.Phone,
		Vehicles:       vehicles,
		PaymentHistory: toPayments(u.PaymentHistory),
	}
}

func toAuthResponse(u domain.User, tok service.AccessToken) finesdk.AuthResponse {
	return finesdk.AuthResponse{
		User:      toUser(u),
		Token:     tok.Value,
		ExpiresAt: tok.ExpiresAt,
	}
}

func toCheckout(c payfast.Checkout) finesdk.Checkout {
	fields := make([]finesdk.FormField, 0, len(c.Fields))
	for _, f := range c.Fields {
		fields = append(fields, finesdk.FormField{Name: f.Name, Value: f.Value})
	}
	return finesdk.Checkout{Action: c.Action, Method: c.Method, Fields: fields}
}

func toStats(s domain.DashboardStats) finesdk.DashboardStats {
	return finesdk.DashboardStats{
		TotalCount:       s.TotalCount,
		OutstandingCount: s.OutstandingCount,
		OutstandingTotal: s.OutstandingTotal,
		OverdueCount:     s.OverdueCount,
		PaidCount:        s.PaidCount,
		TotalPaid:        s.TotalPaid,
		VehicleCount:     s.VehicleCount,
	}
}
