package finesdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a client for the fines API. It covers the public operations and
// creates authenticated Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new fines API client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SearchFines runs a public fine search. Empty parameters are not sent.
func (c *Client) SearchFines(ctx context.Context, params SearchParams) ([]Fine, error) {
	q := url.Values{}
	if params.IDNumber != "" {
		q.Set("idNumber", params.IDNumber)
	}
	if params.NoticeNumber != "" {
		q.Set("noticeNumber", params.NoticeNumber)
	}
	if params.VehicleRegistration != "" {
		q.Set("vehicleRegistration", params.VehicleRegistration)
	}

	path := "/v1/fines"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var out SearchResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// GetFine fetches a single fine by id.
func (c *Client) GetFine(ctx context.Context, id string) (*Fine, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/fines/"+url.PathEscape(id), "", nil)
	if err != nil {
		return nil, err
	}

	var fine Fine
	if err := decodeJSON(resp, &fine, http.StatusOK); err != nil {
		return nil, err
	}
	return &fine, nil
}

// ListMunicipalities returns every known municipality, supported or not.
func (c *Client) ListMunicipalities(ctx context.Context) ([]Municipality, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/municipalities", "", nil)
	if err != nil {
		return nil, err
	}

	var out MunicipalitiesResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Municipalities, nil
}

// InitiatePayment opens a payment session for a fine.
func (c *Client) InitiatePayment(ctx context.Context, req InitiatePaymentRequest) (*InitiatePaymentResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/payments", "", req)
	if err != nil {
		return nil, err
	}

	var out InitiatePaymentResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns a session signed in as the new user.
func (c *Client) Register(ctx context.Context, req RegisterUserRequest) (*Session, *AuthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/users", "", req)
	if err != nil {
		return nil, nil, err
	}

	var out AuthResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, nil, err
	}
	return c.NewSession(out.Token), &out, nil
}

// Login exchanges an email and password for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, *AuthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/sessions", "", LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, nil, err
	}

	var out AuthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, nil, err
	}
	return c.NewSession(out.Token), &out, nil
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the service is ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}
