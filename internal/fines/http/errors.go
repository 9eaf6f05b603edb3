package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/finepay/internal/fines/service"
	"github.com/aussiebroadwan/finepay/pkg/finesdk"
	"github.com/aussiebroadwan/finepay/pkg/slogx"
)

// writeServiceError maps a service error onto the API error taxonomy.
// Anything unrecognised is logged and reported as a server error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		finesdk.ErrValidation.WithFields(verr.Fields).WriteError(w)
	case errors.Is(err, service.ErrFineNotFound):
		finesdk.ErrNotFound.WithDescription("Fine not found").WriteError(w)
	case errors.Is(err, service.ErrUserNotFound):
		finesdk.ErrNotFound.WithDescription("User not found").WriteError(w)
	case errors.Is(err, service.ErrVehicleNotFound):
		finesdk.ErrNotFound.WithDescription("Vehicle not found").WriteError(w)
	case errors.Is(err, service.ErrEmailTaken):
		finesdk.ErrDuplicateAccount.WithDescription("An account with this email already exists").WriteError(w)
	case errors.Is(err, service.ErrIDNumberTaken):
		finesdk.ErrDuplicateAccount.WithDescription("An account with this ID number already exists").WriteError(w)
	case errors.Is(err, service.ErrDuplicateAccount):
		finesdk.ErrDuplicateAccount.WriteError(w)
	case errors.Is(err, service.ErrDuplicateVehicle):
		finesdk.ErrDuplicateVehicle.WithDescription("Vehicle already registered to this account").WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		finesdk.ErrInvalidCredentials.WithDescription("Invalid email or password").WriteError(w)
	case errors.Is(err, service.ErrNotPayable):
		finesdk.ErrNotPayable.WriteError(w)
	case errors.Is(err, service.ErrSessionNotFound):
		finesdk.ErrNotFound.WithDescription("Payment session not found").WriteError(w)
	case errors.Is(err, context.Canceled):
		// Client went away; nobody is listening for the body.
		slogx.FromContext(r.Context()).Debug("request cancelled")
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", slog.Any("error", err))
		finesdk.ErrServerError.WriteError(w)
	}
}

// writeDecodeError reports a malformed JSON body.
func writeDecodeError(w http.ResponseWriter, err error) {
	desc := err.Error()
	desc = strings.TrimPrefix(desc, "decode body: ")
	finesdk.ErrInvalidRequest.WithDescription(desc).WriteError(w)
}
