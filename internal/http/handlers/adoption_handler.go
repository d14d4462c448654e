// Adoption request HTTP handlers.
//
// This file exposes REST endpoints for adoption request resources:
//   - GET    /adoptions                    (list all, paginated)
//   - GET    /adoptions/status/{status}    (list by status, paginated)
//   - GET    /adoptions/owner/{id}         (list for a pet owner, paginated)
//   - GET    /adoptions/user/{id}          (list a requester's own, live)
//   - GET    /adoptions/pet/{id}           (list for a pet, live)
//   - POST   /adoptions                    (create, idempotency-key aware)
//   - PUT    /adoptions/{id}/status        (approve / reject / complete)
//   - DELETE /adoptions/{id}               (cancel)
//   - POST   /adoptions/{id}/confirm       (completion saga)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses. Domain error messages
// are user-facing Spanish copy and pass through untranslated.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/adoptazulia/go-adoptions-backend/internal/domain"
	"github.com/adoptazulia/go-adoptions-backend/internal/http/middleware"
	"github.com/adoptazulia/go-adoptions-backend/internal/services"
	"github.com/adoptazulia/go-adoptions-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// AdoptionService defines the adoption request operations consumed by HTTP
// handlers. Implementations must be safe for concurrent use and honor the
// provided context.
type AdoptionService interface {
	// ListAll returns a page of all adoption requests and the total count.
	ListAll(ctx context.Context, page, pageSize int) ([]*domain.Adoption, int, error)
	// ListByStatus returns a page of requests in the given status.
	ListByStatus(ctx context.Context, status string, page, pageSize int) ([]*domain.Adoption, int, error)
	// ListByOwner returns a page of requests targeting the owner's pets.
	ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]*domain.Adoption, int, error)
	// ListByUser returns every request created by userID, fetched live.
	ListByUser(ctx context.Context, userID string) ([]*domain.Adoption, error)
	// ListByPet returns every request for petID, fetched live.
	ListByPet(ctx context.Context, petID string) ([]*domain.Adoption, error)
	// Get returns a single enriched adoption request.
	Get(ctx context.Context, adoptionID string) (*domain.Adoption, error)
	// CreateRequest creates a request after the duplicate-active check.
	CreateRequest(ctx context.Context, petID, userID, message string) (*domain.Adoption, error)
	// UpdateStatus transitions a request and notifies the requester.
	UpdateStatus(ctx context.Context, adoptionID, status, notes string) error
	// DeleteRequest cancels a request and notifies the pet owner.
	DeleteRequest(ctx context.Context, adoptionID string) error
	// ConfirmAndVerify runs the completion saga.
	ConfirmAndVerify(ctx context.Context, adoptionID, verifierID string, story *services.StoryInput) error
}

// IdempotencyStore persists keyed create outcomes for replay.
type IdempotencyStore interface {
	Get(ctx context.Context, userID, key string) (*domain.IdempotencyRecord, error)
	Save(ctx context.Context, userID, key, adoptionID string, status int) error
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for adoptions, pets, and notifications.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	adoptionSvc AdoptionService
	petSvc      PetService
	notifSvc    NotificationService
	idemStore   IdempotencyStore
}

// New constructs a Handlers instance bound to the given services. idem may
// be nil when idempotent replay is disabled.
func New(adoptionSvc AdoptionService, petSvc PetService, notifSvc NotificationService, idem IdempotencyStore) *Handlers {
	return &Handlers{adoptionSvc: adoptionSvc, petSvc: petSvc, notifSvc: notifSvc, idemStore: idem}
}

// validate checks DTO constraints beyond JSON well-formedness.
var validate = validator.New()

// callerID returns the requesting user's id from the identity middleware,
// falling back to the raw header for direct handler tests.
func callerID(c *gin.Context) string {
	if uid := middleware.UserIDFrom(c); uid != "" {
		return uid
	}
	if c != nil && c.Request != nil {
		return strings.TrimSpace(c.GetHeader(middleware.HeaderUserID))
	}
	return ""
}

//
// DTOs
//

// CreateAdoptionRequest is the JSON payload for creating an adoption request.
type CreateAdoptionRequest struct {
	// PetID identifies the pet being requested.
	PetID string `json:"petId" validate:"required" example:"-NxAbC123"`
	// Message is the optional note from the requester to the owner.
	Message string `json:"message" validate:"max=2000" example:"Tenemos patio grande"`
}

// UpdateAdoptionStatusRequest is the JSON payload for a status transition.
type UpdateAdoptionStatusRequest struct {
	// Status must be one of: pending, approved, rejected, completed.
	Status string `json:"status" validate:"required,oneof=pending approved rejected completed" example:"approved"`
	// Notes optionally records the reviewer's reasoning.
	Notes string `json:"notes" validate:"max=2000" example:"Entrevista exitosa"`
}

// ConfirmAdoptionRequest is the JSON payload for the completion saga.
type ConfirmAdoptionRequest struct {
	// StoryTitle and StoryContent optionally publish a success story
	// (at most one per pet).
	StoryTitle   string `json:"storyTitle" validate:"max=255" example:"Rocky encontró su hogar"`
	StoryContent string `json:"storyContent" validate:"max=10000"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// ListAdoptionsResponse wraps a page of adoption requests. Error carries the
// user-facing message when the list degraded to empty because the source was
// unreachable; the HTTP status stays 200 in that case.
type ListAdoptionsResponse struct {
	Adoptions  []*domain.Adoption `json:"adoptions"`
	Pagination Pagination         `json:"pagination"`
	Error      string             `json:"error,omitempty"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params,
// returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// listResponse assembles the standard paginated list envelope. A degraded
// fetch (ErrAdoptionsUnavailable) keeps the 200 with an empty page and the
// user-facing message; any other error is a 500.
func listResponse(c *gin.Context, items []*domain.Adoption, total, page, pageSize int, err error) {
	resp := ListAdoptionsResponse{
		Adoptions: items,
		Pagination: Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		},
	}
	if resp.Adoptions == nil {
		resp.Adoptions = []*domain.Adoption{}
	}
	if pageSize > 0 {
		resp.Pagination.TotalPages = (total + pageSize - 1) / pageSize
		resp.Pagination.HasNext = page < resp.Pagination.TotalPages
	}
	if err != nil {
		if !errors.Is(err, services.ErrAdoptionsUnavailable) {
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
			return
		}
		resp.Error = err.Error()
	}
	ok(c, http.StatusOK, resp)
}

//
// Handlers
//

// ListAdoptions godoc
// @ID          listAdoptions
// @Summary     List all adoption requests (paginated)
// @Description Returns a page of adoption requests with pet and user snapshots attached. Served from a 5-minute cache.
// @Tags        Adoptions
// @Produce     json
//
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListAdoptionsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /adoptions [get]
func (h *Handlers) ListAdoptions(c *gin.Context) {
	page, pageSize := clampPagination(c)
	items, total, err := h.adoptionSvc.ListAll(c.Request.Context(), page, pageSize)
	listResponse(c, items, total, page, pageSize, err)
}

// ListAdoptionsByStatus godoc
// @ID          listAdoptionsByStatus
// @Summary     List adoption requests in a status (paginated)
// @Tags        Adoptions
// @Produce     json
//
// @Param       status     path   string  true   "Status"  Enums(pending, approved, rejected, completed)
// @Param       page       query  int     false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListAdoptionsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid status"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /adoptions/status/{status} [get]
func (h *Handlers) ListAdoptionsByStatus(c *gin.Context) {
	status := c.Param("status")
	page, pageSize := clampPagination(c)
	items, total, err := h.adoptionSvc.ListByStatus(c.Request.Context(), status, page, pageSize)
	if errors.Is(err, services.ErrInvalidStatus) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	listResponse(c, items, total, page, pageSize, err)
}

// ListAdoptionsByOwner godoc
// @ID          listAdoptionsByOwner
// @Summary     List adoption requests received by a pet owner (paginated)
// @Description Returns requests targeting any pet published by the owner.
// @Tags        Adoptions
// @Produce     json
//
// @Param       id         path   string  true   "Owner user ID"
// @Param       page       query  int     false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListAdoptionsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /adoptions/owner/{id} [get]
func (h *Handlers) ListAdoptionsByOwner(c *gin.Context) {
	ownerID := c.Param("id")
	page, pageSize := clampPagination(c)
	items, total, err := h.adoptionSvc.ListByOwner(c.Request.Context(), ownerID, page, pageSize)
	listResponse(c, items, total, page, pageSize, err)
}

// ListAdoptionsByUser godoc
// @ID          listAdoptionsByUser
// @Summary     List a requester's own adoption requests
// @Description Always fetched live so the requester sees their writes immediately.
// @Tags        Adoptions
// @Produce     json
//
// @Param       id  path  string  true  "Requester user ID"
//
// @Success     200  {object}  handlers.ListAdoptionsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /adoptions/user/{id} [get]
func (h *Handlers) ListAdoptionsByUser(c *gin.Context) {
	items, err := h.adoptionSvc.ListByUser(c.Request.Context(), c.Param("id"))
	listResponse(c, items, len(items), 1, len(items), err)
}

// ListAdoptionsByPet godoc
// @ID          listAdoptionsByPet
// @Summary     List adoption requests for a pet
// @Description Always fetched live, for owners reviewing a pet's requests.
// @Tags        Adoptions
// @Produce     json
//
// @Param       id  path  string  true  "Pet ID"
//
// @Success     200  {object}  handlers.ListAdoptionsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /adoptions/pet/{id} [get]
func (h *Handlers) ListAdoptionsByPet(c *gin.Context) {
	items, err := h.adoptionSvc.ListByPet(c.Request.Context(), c.Param("id"))
	listResponse(c, items, len(items), 1, len(items), err)
}

// CreateAdoption godoc
// @ID          createAdoption
// @Summary     Create an adoption request
// @Description Creates a request for a pet unless the caller already has an active one for it. Supports Idempotency-Key replay.
// @Tags        Adoptions
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true   "Requesting user ID"
// @Param       Idempotency-Key  header  string  false  "Stable key for safe retries"
// @Param       body             body    handlers.CreateAdoptionRequest  true  "Create payload"
//
// @Success     201  {object}  domain.Adoption
// @Success     200  {object}  domain.Adoption  "Idempotent replay"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing user identity"
// @Failure     409  {object}  handlers.ErrorResponse  "Active request already exists"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /adoptions [post]
func (h *Handlers) CreateAdoption(c *gin.Context) {
	ctx := c.Request.Context()
	uid := callerID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "user identity required")
		return
	}

	// Replay: return the originally created adoption without side effects.
	if middleware.IsReplay(c) && h.idemStore != nil {
		if key, has := middleware.GetIdempotencyKey(c); has {
			if rec, err := h.idemStore.Get(ctx, uid, key); err == nil {
				if a, err := h.adoptionSvc.Get(ctx, rec.AdoptionID); err == nil {
					ok(c, http.StatusOK, a)
					return
				}
			}
			// Record or adoption unreadable: fall through to a fresh create.
		}
	}

	var req CreateAdoptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "petId is required")
		return
	}

	a, err := h.adoptionSvc.CreateRequest(ctx, req.PetID, uid, strings.TrimSpace(req.Message))
	switch {
	case errors.Is(err, services.ErrDuplicateRequest):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}

	if key, has := middleware.GetIdempotencyKey(c); has && h.idemStore != nil {
		if err := h.idemStore.Save(ctx, uid, key, a.ID, http.StatusCreated); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record save failed")
		}
	}
	ok(c, http.StatusCreated, a)
}

// UpdateAdoptionStatus godoc
// @ID          updateAdoptionStatus
// @Summary     Transition an adoption request's status
// @Description Updates the status and notifies the requester.
// @Tags        Adoptions
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Adoption request ID"
// @Param       body  body  handlers.UpdateAdoptionStatusRequest  true  "New status"
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid status"
// @Failure     500  {object}  handlers.ErrorResponse  "Update failed"
// @Router      /adoptions/{id}/status [put]
func (h *Handlers) UpdateAdoptionStatus(c *gin.Context) {
	var req UpdateAdoptionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be one of: pending, approved, rejected, completed")
		return
	}

	err := h.adoptionSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, strings.TrimSpace(req.Notes))
	switch {
	case errors.Is(err, services.ErrInvalidStatus):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		return
	}
	noContent(c)
}

// DeleteAdoption godoc
// @ID          deleteAdoption
// @Summary     Cancel an adoption request
// @Description Removes the request and notifies the pet owner when the pet is still resolvable.
// @Tags        Adoptions
// @Produce     json
//
// @Param       id  path  string  true  "Adoption request ID"
//
// @Success     204  {string}  string  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse  "Request not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Delete failed"
// @Router      /adoptions/{id} [delete]
func (h *Handlers) DeleteAdoption(c *gin.Context) {
	err := h.adoptionSvc.DeleteRequest(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrAdoptionNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		return
	}
	noContent(c)
}

// ConfirmAdoption godoc
// @ID          confirmAdoption
// @Summary     Confirm a completed adoption
// @Description Runs the completion saga: marks the request completed and the pet adopted, records a verification, optionally publishes a story, and notifies the adopter. Steps are not atomic; a failure leaves earlier steps applied.
// @Tags        Adoptions
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Verifying user ID (the pet owner)"
// @Param       id         path    string  true  "Adoption request ID"
// @Param       body       body    handlers.ConfirmAdoptionRequest  false  "Optional story"
//
// @Success     204  {string}  string  "No Content"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing user identity"
// @Failure     404  {object}  handlers.ErrorResponse  "Request not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Saga step failed"
// @Router      /adoptions/{id}/confirm [post]
func (h *Handlers) ConfirmAdoption(c *gin.Context) {
	uid := callerID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "user identity required")
		return
	}

	var req ConfirmAdoptionRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
		if err := validate.Struct(req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "story fields exceed limits")
			return
		}
	}

	var story *services.StoryInput
	if strings.TrimSpace(req.StoryTitle) != "" || strings.TrimSpace(req.StoryContent) != "" {
		story = &services.StoryInput{Title: req.StoryTitle, Content: req.StoryContent}
	}

	err := h.adoptionSvc.ConfirmAndVerify(c.Request.Context(), c.Param("id"), uid, story)
	switch {
	case errors.Is(err, services.ErrAdoptionNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeConfirmFailed, err.Error())
		return
	}
	noContent(c)
}
