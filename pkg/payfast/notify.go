package payfast

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Payment statuses reported in an ITN.
const (
	StatusComplete  = "COMPLETE"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
)

var ErrInvalidNotification = errors.New("payfast: invalid notification")

// Notification is the subset of an instant transaction notification we act on.
type Notification struct {
	PaymentID        string // m_payment_id
	GatewayPaymentID string // pf_payment_id
	PaymentStatus    string
	AmountGross      float64
	MerchantID       string
	Email            string
}

// ParseNotification reads an ITN form body. m_payment_id and payment_status
// are required, amount_gross must be a finite positive number when present.
func ParseNotification(form url.Values) (Notification, error) {
	n := Notification{
		PaymentID:        strings.TrimSpace(form.Get("m_payment_id")),
		GatewayPaymentID: strings.TrimSpace(form.Get("pf_payment_id")),
		PaymentStatus:    strings.ToUpper(strings.TrimSpace(form.Get("payment_status"))),
		MerchantID:       form.Get("merchant_id"),
		Email:            form.Get("email_address"),
	}
	if n.PaymentID == "" {
		return Notification{}, fmt.Errorf("%w: missing m_payment_id", ErrInvalidNotification)
	}
	if n.PaymentStatus == "" {
		return Notification{}, fmt.Errorf("%w: missing payment_status", ErrInvalidNotification)
	}
	if raw := form.Get("amount_gross"); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(amount, 0) || math.IsNaN(amount) || amount <= 0 {
			return Notification{}, fmt.Errorf("%w: amount_gross %q", ErrInvalidNotification, raw)
		}
		n.AmountGross = amount
	}
	return n, nil
}

// Accepts reports whether n was addressed to this merchant. An unconfigured
// merchant id accepts everything, which is how the sandbox demo runs.
func (g *Gateway) Accepts(n Notification) bool {
	return g.cfg.MerchantID == "" || n.MerchantID == g.cfg.MerchantID
}
