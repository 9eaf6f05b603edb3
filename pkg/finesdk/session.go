package finesdk

import (
	"context"
	"net/http"
	"net/url"
)

// Session is an authenticated view of the API, bound to one bearer token.
type Session struct {
	client *Client
	token  string
}

// NewSession creates a session from a token obtained earlier, for example one
// restored from disk.
func (c *Client) NewSession(token string) *Session {
	return &Session{client: c, token: token}
}

// Token returns the bearer token of this session.
func (s *Session) Token() string {
	return s.token
}

// Me returns the signed in user with vehicles and payment history.
func (s *Session) Me(ctx context.Context) (*User, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/v1/me", s.token, nil)
	if err != nil {
		return nil, err
	}

	var u User
	if err := decodeJSON(resp, &u, http.StatusOK); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile applies a partial profile update and returns the new user.
func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	resp, err := s.client.doRequest(ctx, http.MethodPatch, "/v1/me", s.token, req)
	if err != nil {
		return nil, err
	}

	var u User
	if err := decodeJSON(resp, &u, http.StatusOK); err != nil {
		return nil, err
	}
	return &u, nil
}

// MyFines returns fines issued to the user's ID number or any of their vehicles.
func (s *Session) MyFines(ctx context.Context) ([]Fine, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/v1/me/fines", s.token, nil)
	if err != nil {
		return nil, err
	}

	var out SearchResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// Payments returns the user's payment history.
func (s *Session) Payments(ctx context.Context) ([]PaymentRecord, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/v1/me/payments", s.token, nil)
	if err != nil {
		return nil, err
	}

	var out PaymentHistoryResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Payments, nil
}

// Dashboard returns summary statistics for the signed in user.
func (s *Session) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/v1/me/dashboard", s.token, nil)
	if err != nil {
		return nil, err
	}

	var out DashboardResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddVehicle registers a vehicle to the user and returns the updated user.
func (s *Session) AddVehicle(ctx context.Context, req AddVehicleRequest) (*User, error) {
	resp, err := s.client.doRequest(ctx, http.MethodPost, "/v1/me/vehicles", s.token, req)
	if err != nil {
		return nil, err
	}

	var u User
	if err := decodeJSON(resp, &u, http.StatusCreated); err != nil {
		return nil, err
	}
	return &u, nil
}

// RemoveVehicle removes a vehicle by id.
func (s *Session) RemoveVehicle(ctx context.Context, vehicleID string) error {
	resp, err := s.client.doRequest(ctx, http.MethodDelete, "/v1/me/vehicles/"+url.PathEscape(vehicleID), s.token, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// InitiatePayment opens a payment session linked to the signed in user. The
// email may be left empty to use the account email.
func (s *Session) InitiatePayment(ctx context.Context, req InitiatePaymentRequest) (*InitiatePaymentResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodPost, "/v1/payments", s.token, req)
	if err != nil {
		return nil, err
	}

	var out InitiatePaymentResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
