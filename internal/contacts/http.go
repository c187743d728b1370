// Copyright (c) 2026 ContactFlow. All rights reserved.

package contacts

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/middleware"
	requestutil "github.com/Vogit1234/contact-flow-v2/internal/platform/request"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/respond"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/sec"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/validate"
	"github.com/Vogit1234/contact-flow-v2/pkg/pagination"
)

// maxImportBodyBytes bounds CSV uploads (8 MiB).
const maxImportBodyBytes = 8 << 20

// Handler implements the HTTP layer for the contact directory.
//
// # Security
//
// The subtree is mounted behind authentication and the access guard. Role
// gating is per method: reads need View, writes need Edit, the directory
// wipe needs Admin.
type Handler struct {
	contactService *Service
}

// NewHandler constructs a new contact [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{contactService: service}
}

// Routes returns a [chi.Router] configured with the directory endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Reads: every authenticated role.
	router.Get("/", handler.list)
	router.Get("/export", handler.exportCSV)
	router.Get("/{id}", handler.get)

	// Writes: Edit and above.
	router.Group(func(write chi.Router) {
		write.Use(middleware.RequireRole(sec.RoleEdit))
		write.Post("/", handler.create)
		write.Post("/import", handler.importCSV)
		write.Put("/{id}", handler.update)
		write.Delete("/{id}", handler.delete)
	})

	// Destructive bulk operation: Admin only.
	router.With(middleware.RequireRole(sec.RoleAdmin)).Delete("/", handler.deleteAll)

	return router
}

// # Request Payloads

type contactRequest struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Email       string `json:"email"`
	MobilePhone string `json:"mobile_phone"`
	WorkPhone   string `json:"work_phone"`
	Fax         string `json:"fax"`
	Website     string `json:"website"`
	Address     string `json:"address"`
	Notes       string `json:"notes"`
}

func (payload contactRequest) validate() error {
	v := &validate.Validator{}
	v.Required(FieldName, payload.Name).
		Required(FieldEmail, payload.Email).
		Email(FieldEmail, payload.Email).
		MaxLen(FieldNotes, payload.Notes, MaxNotesLength)
	return v.Err()
}

func (payload contactRequest) toInput() Input {
	return Input{
		Name:        payload.Name,
		Title:       payload.Title,
		Company:     payload.Company,
		Email:       payload.Email,
		MobilePhone: payload.MobilePhone,
		WorkPhone:   payload.WorkPhone,
		Fax:         payload.Fax,
		Website:     payload.Website,
		Address:     payload.Address,
		Notes:       payload.Notes,
	}
}

/*
GET /api/v1/contacts.

Description: Lists the directory ordered by name, paginated, with optional
free-text search across name, company, and email.

Request:
  - page, limit: query (optional)
  - q: query (optional search term)

Response:
  - 200: PaginatedEnvelope of []Contact
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("q")

	entries, meta, err := handler.contactService.List(request.Context(), params, search)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, meta)
}

/*
GET /api/v1/contacts/{id}.

Response:
  - 200: Contact
  - 404: ErrNotFound: No contact with this id
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	contact, err := handler.contactService.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, contact)
}

/*
POST /api/v1/contacts.

Description: Creates a contact stamped with the calling user.

Request:
  - body: contactRequest (Name and Email required)

Response:
  - 201: Contact
  - 400: ErrInvalidJSON/Validation
  - 403: ErrForbidden: Edit role required
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload contactRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}
	if err := payload.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	contact, err := handler.contactService.Create(request.Context(), actorID, payload.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, contact)
}

/*
PUT /api/v1/contacts/{id}.

Response:
  - 200: Contact: Updated entry
  - 400: ErrInvalidJSON/Validation
  - 404: ErrNotFound: No contact with this id
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var payload contactRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}
	if err := payload.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	contact, err := handler.contactService.Update(request.Context(), requestutil.Param(request, "id"), payload.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, contact)
}

/*
DELETE /api/v1/contacts/{id}.

Response:
  - 204: No Content
  - 404: ErrNotFound: No contact with this id
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.contactService.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
DELETE /api/v1/contacts.

Description: Removes every contact in one transaction.

Response:
  - 200: {"removed": n}
  - 403: ErrForbidden: Admin role required
*/
func (handler *Handler) deleteAll(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	removed, err := handler.contactService.DeleteAll(request.Context(), actorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int64{"removed": removed})
}

/*
POST /api/v1/contacts/import.

Description: Bulk-creates contacts from an uploaded CSV body. Rows missing
name or email are skipped; the rest are inserted atomically.

Request:
  - body: text/csv

Response:
  - 200: ImportResult (imported, skipped)
  - 400: Validation: Unreadable CSV
  - 403: ErrForbidden: Edit role required
*/
func (handler *Handler) importCSV(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	body := http.MaxBytesReader(writer, request.Body, maxImportBodyBytes)
	defer func() { _ = body.Close() }()

	result, err := handler.contactService.ImportCSV(request.Context(), actorID, body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
GET /api/v1/contacts/export.

Description: Streams the full directory as a CSV attachment.

Response:
  - 200: text/csv
*/
func (handler *Handler) exportCSV(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Content-Type", "text/csv; charset=utf-8")
	writer.Header().Set("Content-Disposition", `attachment; filename="contacts.csv"`)

	if err := handler.contactService.ExportCSV(request.Context(), writer); err != nil {
		respond.Error(writer, request, err)
		return
	}
}
