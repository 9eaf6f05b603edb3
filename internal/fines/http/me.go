package http

import (
	"net/http"

	"github.com/aussiebroadwan/finepay/internal/fines/service"
	"github.com/aussiebroadwan/finepay/pkg/finesdk"
	"github.com/aussiebroadwan/finepay/pkg/httpx"
)

// MeHandler serves the signed in user's own resources. Every route sits
// behind AuthnMiddleware, so a missing user id means a wiring bug.
type MeHandler struct {
	UserService *service.UserService
	FineService *service.FineService
}

func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		finesdk.ErrUnauthenticated.WriteError(w)
	}
	return userID, ok
}

// HandleGet returns the signed in user.
//
//	@Summary	Current user
//	@Tags		Me
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	finesdk.User
//	@Failure	401	{object}	finesdk.APIError	"unauthenticated"
//	@Router		/v1/me [get].
func (h *MeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	u, err := h.UserService.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(u))
}

// HandleUpdate patches the profile.
//
//	@Summary	Update profile
//	@Tags		Me
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		finesdk.UpdateProfileRequest	true	"Fields to change"
//	@Success	200		{object}	finesdk.User
//	@Failure	400		{object}	finesdk.APIError	"validation_error"
//	@Failure	409		{object}	finesdk.APIError	"duplicate_account"
//	@Router		/v1/me [patch].
func (h *MeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req finesdk.UpdateProfileRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	u, err := h.UserService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(u))
}

// HandleFines lists fines issued to the user's ID number or vehicles.
//
//	@Summary	My fines
//	@Tags		Me
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	finesdk.SearchResponse
//	@Router		/v1/me/fines [get].
func (h *MeHandler) HandleFines(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	fines, err := h.FineService.GetUserFines(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, finesdk.SearchResponse{Results: toFines(fines)})
}

// HandlePayments lists the user's payment history.
//
//	@Summary	My payments
//	@Tags		Me
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	finesdk.PaymentHistoryResponse
//	@Router		/v1/me/payments [get].
func (h *MeHandler) HandlePayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	ps, err := h.UserService.PaymentHistory(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, finesdk.PaymentHistoryResponse{Payments: toPayments(ps)})
}

// HandleDashboard returns summary stats and recent fines.
//
//	@Summary	Dashboard
//	@Tags		Me
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	finesdk.DashboardResponse
//	@Router		/v1/me/dashboard [get].
func (h *MeHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	d, err := h.FineService.Dashboard(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, finesdk.DashboardResponse{
		Stats:       toStats(d.Stats),
		RecentFines: toFines(d.RecentFines),
	})
}

// HandleAddVehicle registers a vehicle to the user.
//
//	@Summary	Add vehicle
//	@Tags		Me
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		finesdk.AddVehicleRequest	true	"Vehicle"
//	@Success	201		{object}	finesdk.User
//	@Failure	400		{object}	finesdk.APIError	"validation_error"
//	@Failure	409		{object}	finesdk.APIError	"duplicate_vehicle"
//	@Router		/v1/me/vehicles [post].
func (h *MeHandler) HandleAddVehicle(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req finesdk.AddVehicleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	u, err := h.UserService.AddVehicle(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toUser(u))
}

// HandleRemoveVehicle deletes one of the user's vehicles.
//
//	@Summary	Remove vehicle
//	@Tags		Me
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Vehicle id"
//	@Success	204
//	@Failure	404	{object}	finesdk.APIError	"not_found"
//	@Router		/v1/me/vehicles/{id} [delete].
func (h *MeHandler) HandleRemoveVehicle(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if _, err := h.UserService.RemoveVehicle(r.Context(), userID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
