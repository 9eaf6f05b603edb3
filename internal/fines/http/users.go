package http

import (
	"net/http"

	"github.com/aussiebroadwan/finepay/internal/fines/service"
	"github.com/aussiebroadwan/finepay/pkg/finesdk"
	"github.com/aussiebroadwan/finepay/pkg/httpx"
)

type UsersHandler struct {
	UserService *service.UserService
}

// HandleRegister creates an account.
//
//	@Summary		Register an account
//	@Description	Creates an account and returns it with a signed access token.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		finesdk.RegisterUserRequest	true	"New account"
//	@Success		201		{object}	finesdk.AuthResponse
//	@Failure		400		{object}	finesdk.APIError	"validation_error"
//	@Failure		409		{object}	finesdk.APIError	"duplicate_account"
//	@Failure		429		{object}	finesdk.APIError	"rate_limit_exceeded"
//	@Router			/v1/users [post].
func (h *UsersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req finesdk.RegisterUserRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	user, token, err := h.UserService.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toAuthResponse(user, token))
}

// HandleLogin signs a user in.
//
//	@Summary	Sign in
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Param		request	body		finesdk.LoginRequest	true	"Credentials"
//	@Success	200		{object}	finesdk.AuthResponse
//	@Failure	401		{object}	finesdk.APIError	"invalid_credentials"
//	@Failure	429		{object}	finesdk.APIError	"rate_limit_exceeded"
//	@Router		/v1/sessions [post].
func (h *UsersHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req finesdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	user, token, err := h.UserService.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAuthResponse(user, token))
}
