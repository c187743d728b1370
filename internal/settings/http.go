// Copyright (c) 2026 ContactFlow. All rights reserved.

package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/constants"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/origin"
	requestutil "github.com/Vogit1234/contact-flow-v2/internal/platform/request"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/respond"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/validate"
)

// Handler implements the HTTP layer for restriction settings management.
//
// Every route here is mounted behind RequireAuth and the Admin role check;
// the handler itself only does transport work.
type Handler struct {
	settingsService *Service
	originProviders []origin.Provider
}

// NewHandler constructs a new settings [Handler].
//
// originProviders powers the detect endpoint that tells an Admin which
// public address the server resolves to before they enable enforcement.
func NewHandler(service *Service, originProviders []origin.Provider) *Handler {
	return &Handler{settingsService: service, originProviders: originProviders}
}

// Routes returns a [chi.Router] configured with the settings endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.get)
	router.Put("/", handler.update)
	router.Get("/origin", handler.detectOrigin)

	return router
}

/*
GET /api/v1/admin/ip-restrictions.

Description: Returns the restriction settings singleton, seeding the
default record on the very first read.

Response:
  - 200: Settings: The current configuration
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Admin role required
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	record, err := handler.settingsService.Load(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

// updateRequest defines the expected JSON payload for settings updates.
// All fields are optional; absent fields keep their stored values.
type updateRequest struct {
	Enabled       *bool    `json:"enabled"`
	AllowedRanges []string `json:"allowed_ranges"`
	RangesText    *string  `json:"ranges_text"`
	Description   *string  `json:"description"`
}

/*
PUT /api/v1/admin/ip-restrictions.

Description: Applies a partial update to the settings singleton and stamps
the acting Admin into the audit fields.

Request:
  - body: updateRequest (Partial JSON; ranges_text wins over allowed_ranges)

Response:
  - 200: Settings: The merged, persisted configuration
  - 400: ErrInvalidJSON/Validation: Bad input or malformed allow-list entry
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Admin role required
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	if input.Description != nil {
		v.MaxLen(constants.FieldDescription, *input.Description, 500)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.settingsService.Update(request.Context(), userID, UpdateInput{
		Enabled:       input.Enabled,
		AllowedRanges: input.AllowedRanges,
		RangesText:    input.RangesText,
		Description:   input.Description,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

/*
GET /api/v1/admin/ip-restrictions/origin.

Description: Resolves the server's apparent public address through the
remote provider chain so an Admin can add it to the allow-list before
turning enforcement on.

Response:
  - 200: {address}: The resolved public IPv4 address
  - 500: ErrInternal: Every provider in the chain failed
*/
func (handler *Handler) detectOrigin(writer http.ResponseWriter, request *http.Request) {
	address, err := origin.FirstSuccess(request.Context(), handler.originProviders)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		constants.FieldAddress: address,
	})
}
