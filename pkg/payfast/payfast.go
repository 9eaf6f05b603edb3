// Package payfast builds the hosted checkout form for the PayFast payment
// gateway and parses the instant transaction notifications it posts back.
//
// Nothing here talks to PayFast directly. The browser (or CLI) submits the
// Checkout fields to Action, and PayFast later calls the notify URL.
package payfast

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	SandboxURL = "https://sandbox.payfast.co.za/eng/process"
	LiveURL    = "https://www.payfast.co.za/eng/process"
)

type Config struct {
	MerchantID  string
	MerchantKey string
	Sandbox     bool

	// BaseURL is the public origin used to build return, cancel and notify
	// URLs, e.g. https://fines.example.co.za.
	BaseURL string
}

type Gateway struct {
	cfg Config
}

func New(cfg Config) *Gateway {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Gateway{cfg: cfg}
}

// ActionURL is the process endpoint the checkout form posts to.
func (g *Gateway) ActionURL() string {
	if g.cfg.Sandbox {
		return SandboxURL
	}
	return LiveURL
}

// Order describes one fine payment.
type Order struct {
	PaymentID           string // m_payment_id, our payment session id
	Email               string
	Amount              float64
	FineID              string
	NoticeNumber        string
	OffenseDescription  string
	Location            string
	DriverIDNumber      string
	VehicleRegistration string
}

type Field struct {
	Name  string
	Value string
}

// Checkout is an auto-submitting form: POST Fields to Action.
type Checkout struct {
	Action string
	Method string
	Fields []Field
}

// Checkout returns the form for o. Fields keep the order PayFast documents
// them in, which matters if a signature is ever added.
func (g *Gateway) Checkout(o Order) Checkout {
	base := g.cfg.BaseURL
	fineID := url.PathEscape(o.FineID)

	return Checkout{
		Action: g.ActionURL(),
		Method: "POST",
		Fields: []Field{
			{"merchant_id", g.cfg.MerchantID},
			{"merchant_key", g.cfg.MerchantKey},
			{"return_url", base + "/payment/" + fineID + "/success"},
			{"cancel_url", base + "/payment/" + fineID + "/cancel"},
			{"notify_url", base + "/payment/notify/" + fineID},
			{"email_address", o.Email},
			{"m_payment_id", o.PaymentID},
			{"amount", FormatAmount(o.Amount)},
			{"item_name", "Traffic Fine - " + o.NoticeNumber},
			{"item_description", o.OffenseDescription + " - " + o.Location},
			{"custom_int1", o.FineID},
			{"custom_str1", o.NoticeNumber},
			{"custom_str2", o.DriverIDNumber},
			{"custom_str3", o.VehicleRegistration},
		},
	}
}

// Get returns the value of the named field, or "".
func (c Checkout) Get(name string) string {
	for _, f := range c.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Values returns the fields as a form body.
func (c Checkout) Values() url.Values {
	v := make(url.Values, len(c.Fields))
	for _, f := range c.Fields {
		v.Add(f.Name, f.Value)
	}
	return v
}

// FormatAmount renders a rand amount with exactly two decimals.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
