package finesdk

import "time"

// ============================================================================
// Reference Data
// ============================================================================

type ContactInfo struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type Municipality struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Province    string      `json:"province"`
	IsSupported bool        `json:"isSupported"`
	LogoURL     string      `json:"logoUrl,omitempty"`
	ContactInfo ContactInfo `json:"contactInfo"`
}

type Offense struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Points      int    `json:"points"`
}

// MunicipalitiesResponse is returned from GET /v1/municipalities.
type MunicipalitiesResponse struct {
	Municipalities []Municipality `json:"municipalities"`
}

// ============================================================================
// Fines
// ============================================================================

// Fine is the wire form of a traffic fine.
type Fine struct {
	ID                  string       `json:"id"`
	NoticeNumber        string       `json:"noticeNumber"`
	VehicleRegistration string       `json:"vehicleRegistration"`
	DriverIDNumber      string       `json:"driverIdNumber"`
	Municipality        Municipality `json:"municipality"`
	Offense             Offense      `json:"offense"`
	Amount              float64      `json:"amount"`
	DueDate             time.Time    `json:"dueDate"`
	IssueDate           time.Time    `json:"issueDate"`
	Location            string       `json:"location"`
	Status              string       `json:"status"`
	DiscountAmount      *float64     `json:"discountAmount,omitempty"`
	DiscountValidUntil  *time.Time   `json:"discountValidUntil,omitempty"`
}

// SearchParams are the optional search inputs of GET /v1/fines.
type SearchParams struct {
	IDNumber            string `json:"idNumber,omitempty"`
	NoticeNumber        string `json:"noticeNumber,omitempty"`
	VehicleRegistration string `json:"vehicleRegistration,omitempty"`
}

// SearchResponse is returned from GET /v1/fines.
type SearchResponse struct {
	Results []Fine `json:"results"`
}

// ============================================================================
// Users
// ============================================================================

type Vehicle struct {
	ID           string `json:"id"`
	Registration string `json:"registration"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	UserID       string `json:"userId"`
}

type PaymentRecord struct {
	ID            string    `json:"id"`
	FineID        string    `json:"fineId"`
	Amount        float64   `json:"amount"`
	PaymentDate   time.Time `json:"paymentDate"`
	PaymentMethod string    `json:"paymentMethod"`
	TransactionID string    `json:"transactionId"`
	Status        string    `json:"status"`
}

type User struct {
	ID             string          `json:"id"`
	IDNumber       string          `json:"idNumber"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Vehicles       []Vehicle       `json:"vehicles"`
	PaymentHistory []PaymentRecord `json:"paymentHistory"`
}

// RegisterUserRequest is the body of POST /v1/users.
type RegisterUserRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName"  validate:"required,max=100"`
	Email     string `json:"email"     validate:"required,email"`
	Phone     string `json:"phone"     validate:"required,max=32"`
	IDNumber  string `json:"idNumber"  validate:"required,za_id"`
	Password  string `json:"password"  validate:"required,min=8,max=128"`
}

// LoginRequest is the body of POST /v1/sessions.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned from registration and login.
type AuthResponse struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UpdateProfileRequest is the body of PATCH /v1/me. Omitted fields are kept.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName,omitempty"  validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email,omitempty"     validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty"     validate:"omitempty,max=32"`
	IDNumber  *string `json:"idNumber,omitempty"  validate:"omitempty,za_id"`
}

// AddVehicleRequest is the body of POST /v1/me/vehicles.
type AddVehicleRequest struct {
	Registration string `json:"registration" validate:"required,za_reg"`
	Make         string `json:"make"         validate:"required,max=64"`
	Model        string `json:"model"        validate:"required,max=64"`
	Year         int    `json:"year"         validate:"gte=1900,lte=2100"`
}

// PaymentHistoryResponse is returned from GET /v1/me/payments.
type PaymentHistoryResponse struct {
	Payments []PaymentRecord `json:"payments"`
}

// DashboardStats mirrors the dashboard summary cards.
type DashboardStats struct {
	TotalCount       int     `json:"totalCount"`
	OutstandingCount int     `json:"outstandingCount"`
	OutstandingTotal float64 `json:"outstandingTotal"`
	OverdueCount     int     `json:"overdueCount"`
	PaidCount        int     `json:"paidCount"`
	TotalPaid        float64 `json:"totalPaid"`
	VehicleCount     int     `json:"vehicleCount"`
}

// DashboardResponse is returned from GET /v1/me/dashboard.
type DashboardResponse struct {
	Stats       DashboardStats `json:"stats"`
	RecentFines []Fine         `json:"recentFines"`
}

// ============================================================================
// Payments
// ============================================================================

// InitiatePaymentRequest is the body of POST /v1/payments.
type InitiatePaymentRequest struct {
	FineID string `json:"fineId" validate:"required"`

	// Email receives the gateway receipt. Signed in callers may omit it.
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

type PaymentSession struct {
	ID         string    `json:"id"`
	FineID     string    `json:"fineId"`
	Amount     float64   `json:"amount"`
	PaymentURL string    `json:"paymentUrl"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// FormField is a single hidden input of the gateway checkout form.
type FormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Checkout describes the form the client must POST to the hosted payment page.
type Checkout struct {
	Action string      `json:"action"`
	Method string      `json:"method"`
	Fields []FormField `json:"fields"`
}

// InitiatePaymentResponse is returned from POST /v1/payments.
type InitiatePaymentResponse struct {
	Session  PaymentSession `json:"session"`
	Checkout Checkout       `json:"checkout"`
}

// PaymentOutcomeResponse is returned from the gateway return and cancel routes.
type PaymentOutcomeResponse struct {
	Outcome string `json:"outcome"`
	Message string `json:"message"`
	Fine    Fine   `json:"fine"`
}

// ============================================================================
// Health
// ============================================================================

type HealthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache,omitempty"`
	Signer   string `json:"signer"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
