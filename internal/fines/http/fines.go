package http

import (
	"net/http"

	"github.com/aussiebroadwan/finepay/internal/fines/search"
	"github.com/aussiebroadwan/finepay/internal/fines/service"
	"github.com/aussiebroadwan/finepay/pkg/finesdk"
	"github.com/aussiebroadwan/finepay/pkg/httpx"
)

type FinesHandler struct {
	FineService *service.FineService
}

// HandleSearch searches fines.
//
//	@Summary		Search traffic fines
//	@Description	With one parameter the search is an exact match on that field. With two or more,
//	@Description	a fine is returned when ANY of the supplied fields matches. No parameters returns
//	@Description	an empty list.
//	@Tags			Fines
//	@Produce		json
//	@Param			idNumber			query		string	false	"Driver ID number"
//	@Param			noticeNumber		query		string	false	"Notice number"
//	@Param			vehicleRegistration	query		string	false	"Vehicle registration"
//	@Success		200					{object}	finesdk.SearchResponse
//	@Failure		500					{object}	finesdk.APIError
//	@Router			/v1/fines [get].
func (h *FinesHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := search.Params{
		IDNumber:            q.Get("idNumber"),
		NoticeNumber:        q.Get("noticeNumber"),
		VehicleRegistration: q.Get("vehicleRegistration"),
	}

	results, err := h.FineService.Search(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, finesdk.SearchResponse{Results: toFines(results)})
}

// HandleGet returns one fine.
//
//	@Summary	Get a traffic fine
//	@Tags		Fines
//	@Produce	json
//	@Param		id	path		string	true	"Fine id"
//	@Success	200	{object}	finesdk.Fine
//	@Failure	404	{object}	finesdk.APIError
//	@Router		/v1/fines/{id} [get].
func (h *FinesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	f, err := h.FineService.GetFineByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toFine(f))
}

// HandleMunicipalities lists municipalities and whether they take online payment.
//
//	@Summary	List municipalities
//	@Tags		Fines
//	@Produce	json
//	@Success	200	{object}	finesdk.MunicipalitiesResponse
//	@Router		/v1/municipalities [get].
func (h *FinesHandler) HandleMunicipalities(w http.ResponseWriter, r *http.Request) {
	ms, err := h.FineService.ListMunicipalities(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]finesdk.Municipality, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMunicipality(m))
	}
	httpx.WriteJSON(w, http.StatusOK, finesdk.MunicipalitiesResponse{Municipalities: out})
}
