package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/finepay/internal/fines/service"
	"github.com/aussiebroadwan/finepay/pkg/finesdk"
	"github.com/aussiebroadwan/finepay/pkg/httpx"
	"github.com/aussiebroadwan/finepay/pkg/payfast"
	"github.com/aussiebroadwan/finepay/pkg/slogx"
)

const (
	OutcomeSuccess   = "success"
	OutcomeCancelled = "cancelled"
)

type PaymentsHandler struct {
	PaymentService *service.PaymentService
	FineService    *service.FineService
	Gateway        *payfast.Gateway
}

// HandleInitiate opens a payment session.
//
//	@Summary		Start paying a fine
//	@Description	Creates a payment session for the full fine amount and returns the hosted
//	@Description	checkout form to POST to the gateway. Anonymous callers must supply an email.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			request	body		finesdk.InitiatePaymentRequest	true	"Fine to pay"
//	@Success		201		{object}	finesdk.InitiatePaymentResponse
//	@Failure		400		{object}	finesdk.APIError	"validation_error"
//	@Failure		404		{object}	finesdk.APIError	"not_found"
//	@Failure		409		{object}	finesdk.APIError	"not_payable"
//	@Router			/v1/payments [post].
func (h *PaymentsHandler) HandleInitiate(w http.ResponseWriter, r *http.Request) {
	var req finesdk.InitiatePaymentRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.FineID == "" {
		finesdk.ErrValidation.WithFields(map[string]string{"fineId": "This field is required"}).WriteError(w)
		return
	}

	userID, _ := httpx.UserIDFromContext(r.Context())
	p, err := h.PaymentService.InitiatePayment(r.Context(), req.FineID, userID, req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, finesdk.InitiatePaymentResponse{
		Session: finesdk.PaymentSession{
			ID:         p.Session.ID,
			FineID:     p.Session.FineID,
			Amount:     p.Session.Amount,
			PaymentURL: p.Session.PaymentURL,
			ExpiresAt:  p.Session.ExpiresAt,
		},
		Checkout: toCheckout(p.Checkout),
	})
}

// HandleNotify receives the gateway's instant transaction notification.
//
//	@Summary		Gateway notification
//	@Description	Called by the payment gateway. Always answers 200 once the notification
//	@Description	is understood so the gateway stops retrying.
//	@Tags			Payments
//	@Accept			x-www-form-urlencoded
//	@Param			fineId	path	string	true	"Fine id"
//	@Success		200
//	@Failure		400	{object}	finesdk.APIError	"invalid_request"
//	@Failure		404	{object}	finesdk.APIError	"not_found"
//	@Router			/payment/notify/{fineId} [post].
func (h *PaymentsHandler) HandleNotify(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, httpx.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		finesdk.ErrInvalidRequest.WithDescription("malformed form body").WriteError(w)
		return
	}

	n, err := payfast.ParseNotification(r.PostForm)
	if err != nil {
		l.Warn("rejected payment notification", slog.Any("error", err))
		finesdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return
	}
	if !h.Gateway.Accepts(n) {
		l.Warn("payment notification for another merchant", slog.String("merchant_id", n.MerchantID))
		finesdk.ErrInvalidRequest.WithDescription("merchant mismatch").WriteError(w)
		return
	}

	if _, _, err := h.PaymentService.HandleNotification(r.Context(), r.PathValue("fineId"), n); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleSuccess is where the gateway sends the payer after paying.
//
//	@Summary	Payment return page
//	@Tags		Payments
//	@Produce	json
//	@Param		fineId	path		string	true	"Fine id"
//	@Success	200		{object}	finesdk.PaymentOutcomeResponse
//	@Failure	404		{object}	finesdk.APIError
//	@Router		/payment/{fineId}/success [get].
func (h *PaymentsHandler) HandleSuccess(w http.ResponseWriter, r *http.Request) {
	h.writeOutcome(w, r, OutcomeSuccess, "Your traffic fine has been successfully paid")
}

// HandleCancel is where the gateway sends the payer after cancelling. The
// client can start again with POST /v1/payments.
//
//	@Summary	Payment cancel page
//	@Tags		Payments
//	@Produce	json
//	@Param		fineId	path		string	true	"Fine id"
//	@Success	200		{object}	finesdk.PaymentOutcomeResponse
//	@Failure	404		{object}	finesdk.APIError
//	@Router		/payment/{fineId}/cancel [get].
func (h *PaymentsHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.writeOutcome(w, r, OutcomeCancelled, "Your payment was not completed")
}

func (h *PaymentsHandler) writeOutcome(w http.ResponseWriter, r *http.Request, outcome, message string) {
	f, err := h.FineService.GetFineByID(r.Context(), r.PathValue("fineId"))
	if err != nil {
		if errors.Is(err, service.ErrFineNotFound) {
			finesdk.ErrNotFound.WithDescription("Fine not found").WriteError(w)
			return
		}
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, finesdk.PaymentOutcomeResponse{
		Outcome: outcome,
		Message: message,
		Fine:    toFine(f),
	})
}
