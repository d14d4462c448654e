// Pet HTTP handlers.
//
// Pet documents are schemaless on the wire (publishers send whichever field
// aliases their client uses), so create and update accept raw JSON objects
// and field normalization happens at read time in the domain layer.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adoptazulia/go-adoptions-backend/internal/domain"
	"github.com/adoptazulia/go-adoptions-backend/internal/services"
	"github.com/adoptazulia/go-adoptions-backend/internal/utils"
)

// PetService defines the pet operations consumed by HTTP handlers.
type PetService interface {
	Create(ctx context.Context, doc domain.Doc) (string, error)
	Get(ctx context.Context, id string) (*domain.PetSnapshot, error)
	List(ctx context.Context) ([]*domain.PetSnapshot, error)
	Update(ctx context.Context, id string, fields domain.Doc) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, limit int) ([]*domain.PetSnapshot, error)
}

// CreatePetResponse returns the generated key of a new pet document.
type CreatePetResponse struct {
	ID string `json:"id" example:"-NxAbC123"`
}

// ListPets godoc
// @ID          listPets
// @Summary     List all pets, newest first
// @Tags        Pets
// @Produce     json
// @Success     200  {array}   domain.PetSnapshot
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /pets [get]
func (h *Handlers) ListPets(c *gin.Context) {
	pets, err := h.petSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if pets == nil {
		pets = []*domain.PetSnapshot{}
	}
	ok(c, http.StatusOK, pets)
}

// GetPet godoc
// @ID          getPet
// @Summary     Get a pet by ID
// @Tags        Pets
// @Produce     json
// @Param       id  path  string  true  "Pet ID"
// @Success     200  {object}  domain.PetSnapshot
// @Failure     404  {object}  handlers.ErrorResponse  "Pet not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /pets/{id} [get]
func (h *Handlers) GetPet(c *gin.Context) {
	pet, err := h.petSvc.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrPetNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, pet)
}

// CreatePet godoc
// @ID          createPet
// @Summary     Publish a pet for adoption
// @Description Accepts a raw pet document. A name and an owner id (userId or ownerId) are required.
// @Tags        Pets
// @Accept      json
// @Produce     json
// @Param       body  body  object  true  "Pet document"
// @Success     201  {object}  handlers.CreatePetResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid pet document"
// @Failure     500  {object}  handlers.ErrorResponse  "Create failed"
// @Router      /pets [post]
func (h *Handlers) CreatePet(c *gin.Context) {
	var doc domain.Doc
	if err := c.ShouldBindJSON(&doc); err != nil || len(doc) == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	id, err := h.petSvc.Create(c.Request.Context(), doc)
	switch {
	case errors.Is(err, services.ErrPetInvalid):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, CreatePetResponse{ID: id})
}

// UpdatePet godoc
// @ID          updatePet
// @Summary     Update fields of a pet document
// @Tags        Pets
// @Accept      json
// @Produce     json
// @Param       id    path  string  true  "Pet ID"
// @Param       body  body  object  true  "Fields to merge"
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Pet not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Update failed"
// @Router      /pets/{id} [put]
func (h *Handlers) UpdatePet(c *gin.Context) {
	var fields domain.Doc
	if err := c.ShouldBindJSON(&fields); err != nil || len(fields) == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	err := h.petSvc.Update(c.Request.Context(), c.Param("id"), fields)
	switch {
	case errors.Is(err, services.ErrPetNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		return
	}
	noContent(c)
}

// DeletePet godoc
// @ID          deletePet
// @Summary     Remove a pet and cancel its adoption requests
// @Description Cascades: every request for the pet is removed and its requester notified.
// @Tags        Pets
// @Produce     json
// @Param       id  path  string  true  "Pet ID"
// @Success     204  {string}  string  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse  "Pet not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Delete failed"
// @Router      /pets/{id} [delete]
func (h *Handlers) DeletePet(c *gin.Context) {
	err := h.petSvc.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrPetNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		return
	}
	noContent(c)
}

// SearchPets godoc
// @ID          searchPets
// @Summary     Search pets by text
// @Description Accent- and case-insensitive search over name, species, breed, and description.
// @Tags        Pets
// @Produce     json
// @Param       q      query  string  true   "Search text"
// @Param       limit  query  int     false  "Maximum results"  minimum(1) maximum(50) default(10)
// @Success     200  {array}   domain.PetSnapshot
// @Failure     400  {object}  handlers.ErrorResponse  "Missing query"
// @Failure     500  {object}  handlers.ErrorResponse  "Search failed"
// @Router      /pets/search [get]
func (h *Handlers) SearchPets(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter q is required")
		return
	}
	limit := utils.AtoiDefault(c.Query("limit"), 10)
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}

	pets, err := h.petSvc.Search(c.Request.Context(), query, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	if pets == nil {
		pets = []*domain.PetSnapshot{}
	}
	ok(c, http.StatusOK, pets)
}
