package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adoptazulia/go-adoptions-backend/internal/domain"
	"github.com/adoptazulia/go-adoptions-backend/internal/http/middleware"
	"github.com/adoptazulia/go-adoptions-backend/internal/services"
)

//
// Fakes
//

type fakeAdoptionService struct {
	listAll      func(ctx context.Context, page, pageSize int) ([]*domain.Adoption, int, error)
	listByStatus func(ctx context.Context, status string, page, pageSize int) ([]*domain.Adoption, int, error)
	listByOwner  func(ctx context.Context, ownerID string, page, pageSize int) ([]*domain.Adoption, int, error)
	listByUser   func(ctx context.Context, userID string) ([]*domain.Adoption, error)
	listByPet    func(ctx context.Context, petID string) ([]*domain.Adoption, error)
	get          func(ctx context.Context, id string) (*domain.Adoption, error)
	create       func(ctx context.Context, petID, userID, message string) (*domain.Adoption, error)
	updateStatus func(ctx context.Context, id, status, notes string) error
	deleteReq    func(ctx context.Context, id string) error
	confirm      func(ctx context.Context, id, verifierID string, story *services.StoryInput) error
}

func (f *fakeAdoptionService) ListAll(ctx context.Context, page, pageSize int) ([]*domain.Adoption, int, error) {
	return f.listAll(ctx, page, pageSize)
}
func (f *fakeAdoptionService) ListByStatus(ctx context.Context, status string, page, pageSize int) ([]*domain.Adoption, int, error) {
	return f.listByStatus(ctx, status, page, pageSize)
}
func (f *fakeAdoptionService) ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]*domain.Adoption, int, error) {
	return f.listByOwner(ctx, ownerID, page, pageSize)
}
func (f *fakeAdoptionService) ListByUser(ctx context.Context, userID string) ([]*domain.Adoption, error) {
	return f.listByUser(ctx, userID)
}
func (f *fakeAdoptionService) ListByPet(ctx context.Context, petID string) ([]*domain.Adoption, error) {
	return f.listByPet(ctx, petID)
}
func (f *fakeAdoptionService) Get(ctx context.Context, id string) (*domain.Adoption, error) {
	return f.get(ctx, id)
}
func (f *fakeAdoptionService) CreateRequest(ctx context.Context, petID, userID, message string) (*domain.Adoption, error) {
	return f.create(ctx, petID, userID, message)
}
func (f *fakeAdoptionService) UpdateStatus(ctx context.Context, id, status, notes string) error {
	return f.updateStatus(ctx, id, status, notes)
}
func (f *fakeAdoptionService) DeleteRequest(ctx context.Context, id string) error {
	return f.deleteReq(ctx, id)
}
func (f *fakeAdoptionService) ConfirmAndVerify(ctx context.Context, id, verifierID string, story *services.StoryInput) error {
	return f.confirm(ctx, id, verifierID, story)
}

type fakeIdemStore struct {
	rec   *domain.IdempotencyRecord
	saved []string
}

func (f *fakeIdemStore) Get(ctx context.Context, userID, key string) (*domain.IdempotencyRecord, error) {
	if f.rec == nil {
		return nil, errors.New("not found")
	}
	return f.rec, nil
}

func (f *fakeIdemStore) Save(ctx context.Context, userID, key, adoptionID string, status int) error {
	f.saved = append(f.saved, userID+"/"+key+"/"+adoptionID)
	return nil
}

func newAdoptionRouter(svc AdoptionService, idem IdempotencyStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(svc, nil, nil, idem)
	r := gin.New()
	r.GET("/adoptions", h.ListAdoptions)
	r.GET("/adoptions/status/:status", h.ListAdoptionsByStatus)
	r.GET("/adoptions/owner/:id", h.ListAdoptionsByOwner)
	r.GET("/adoptions/user/:id", h.ListAdoptionsByUser)
	r.POST("/adoptions", h.CreateAdoption)
	r.PUT("/adoptions/:id/status", h.UpdateAdoptionStatus)
	r.DELETE("/adoptions/:id", h.DeleteAdoption)
	r.POST("/adoptions/:id/confirm", h.ConfirmAdoption)
	return r
}

func doJSON(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

//
// List endpoints
//

func TestListAdoptions_PaginationEnvelope(t *testing.T) {
	var gotPage, gotSize int
	svc := &fakeAdoptionService{
		listAll: func(ctx context.Context, page, pageSize int) ([]*domain.Adoption, int, error) {
			gotPage, gotSize = page, pageSize
			return []*domain.Adoption{{ID: "a1"}, {ID: "a2"}}, 5, nil
		},
	}
	r := newAdoptionRouter(svc, nil)

	w := doJSON(r, http.MethodGet, "/adoptions?page=2&page_size=2", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if gotPage != 2 || gotSize != 2 {
		t.Fatalf("service got page=%d size=%d", gotPage, gotSize)
	}
	var resp ListAdoptionsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if resp.Pagination.Total != 5 || resp.Pagination.TotalPages != 3 || !resp.Pagination.HasNext {
		t.Fatalf("unexpected pagination: %+v", resp.Pagination)
	}
}

func TestListAdoptions_ClampsPagination(t *testing.T) {
	var gotPage, gotSize int
	svc := &fakeAdoptionService{
		listAll: func(ctx context.Context, page, pageSize int) ([]*domain.Adoption, int, error) {
			gotPage, gotSize = page, pageSize
			return nil, 0, nil
		},
	}
	r := newAdoptionRouter(svc, nil)

	doJSON(r, http.MethodGet, "/adoptions?page=-1&page_size=9999", "", nil)
	if gotPage != 1 || gotSize != 100 {
		t.Fatalf("clamp failed: page=%d size=%d", gotPage, gotSize)
	}
}

func TestListAdoptions_DegradedIs200WithError(t *testing.T) {
	svc := &fakeAdoptionService{
		listAll: func(ctx context.Context, page, pageSize int) ([]*domain.Adoption, int, error) {
			return []*domain.Adoption{}, 0, services.ErrAdoptionsUnavailable
		},
	}
	r := newAdoptionRouter(svc, nil)

	w := doJSON(r, http.MethodGet, "/adoptions", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("degraded list should stay 200, got %d", w.Code)
	}
	var resp ListAdoptionsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if resp.Error != services.ErrAdoptionsUnavailable.Error() {
		t.Fatalf("Error = %q", resp.Error)
	}
	if resp.Adoptions == nil || len(resp.Adoptions) != 0 {
		t.Fatalf("adoptions should be an empty array: %v", resp.Adoptions)
	}
}

func TestListAdoptions_OtherErrorIs500(t *testing.T) {
	svc := &fakeAdoptionService{
		listAll: func(ctx context.Context, page, pageSize int) ([]*domain.Adoption, int, error) {
			return nil, 0, errors.New("boom")
		},
	}
	r := newAdoptionRouter(svc, nil)

	w := doJSON(r, http.MethodGet, "/adoptions", "", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Code != ErrCodeListFailed {
		t.Fatalf("unexpected envelope: %+v %v", resp, err)
	}
}

func TestListAdoptionsByStatus_Invalid(t *testing.T) {
	svc := &fakeAdoptionService{
		listByStatus: func(ctx context.Context, status string, page, pageSize int) ([]*domain.Adoption, int, error) {
			return nil, 0, services.ErrInvalidStatus
		},
	}
	r := newAdoptionRouter(svc, nil)

	w := doJSON(r, http.MethodGet, "/adoptions/status/bogus", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestListAdoptionsByUser(t *testing.T) {
	svc := &fakeAdoptionService{
		listByUser: func(ctx context.Context, userID string) ([]*domain.Adoption, error) {
			if userID != "u1" {
				t.Errorf("userID = %q", userID)
			}
			return []*domain.Adoption{{ID: "a1"}}, nil
		},
	}
	r := newAdoptionRouter(svc, nil)

	w := doJSON(r, http.MethodGet, "/adoptions/user/u1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ListAdoptionsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || len(resp.Adoptions) != 1 {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

//
// Create
//

func TestCreateAdoption(t *testing.T) {
	svc := &fakeAdoptionService{
		create: func(ctx context.Context, petID, userID, message string) (*domain.Adoption, error) {
			if petID != "p1" || userID != "u1" || message != "hola" {
				t.Errorf("create args: %q %q %q", petID, userID, message)
			}
			return &domain.Adoption{ID: "a1", PetID: petID, UserID: userID, Status: domain.StatusPending}, nil
		},
	}
	r := newAdoptionRouter(svc, nil)

	w := doJSON(r, http.MethodPost, "/adoptions", `{"petId":"p1","message":" hola "}`,
		map[string]string{middleware.HeaderUserID: "u1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var a domain.Adoption
	if err := json.Unmarshal(w.Body.Bytes(), &a); err != nil || a.ID != "a1" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestCreateAdoption_RequiresIdentity(t *testing.T) {
	r := newAdoptionRouter(&fakeAdoptionService{}, nil)
	w := doJSON(r, http.MethodPost, "/adoptions", `{"petId":"p1"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestCreateAdoption_BadPayloads(t *testing.T) {
	r := newAdoptionRouter(&fakeAdoptionService{}, nil)
	headers := map[string]string{middleware.HeaderUserID: "u1"}

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"missing petId", `{"message":"hola"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/adoptions", tt.body, headers)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestCreateAdoption_DuplicateConflict(t *testing.T) {
	svc := &fakeAdoptionService{
		create: func(ctx context.Context, petID, userID, message string) (*domain.Adoption, error) {
			return nil, services.ErrDuplicateRequest
		},
	}
	r := newAdoptionRouter(svc, nil)

	w := doJSON(r, http.MethodPost, "/adoptions", `{"petId":"p1"}`,
		map[string]string{middleware.HeaderUserID: "u1"})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Code != ErrCodeConflict {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	if resp.Message != services.ErrDuplicateRequest.Error() {
		t.Fatalf("message = %q, want the Spanish copy", resp.Message)
	}
}

func TestCreateAdoption_SavesIdempotencyRecord(t *testing.T) {
	idem := &fakeIdemStore{}
	svc := &fakeAdoptionService{
		create: func(ctx context.Context, petID, userID, message string) (*domain.Adoption, error) {
			return &domain.Adoption{ID: "a1"}, nil
		},
	}

	gin.SetMode(gin.TestMode)
	h := New(svc, nil, nil, idem)
	r := gin.New()
	r.Use(middleware.UserIdentity())
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil))
	r.POST("/adoptions", h.CreateAdoption)

	w := doJSON(r, http.MethodPost, "/adoptions", `{"petId":"p1"}`, map[string]string{
		middleware.HeaderUserID:         "u1",
		middleware.HeaderIdempotencyKey: "k1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if len(idem.saved) != 1 || idem.saved[0] != "u1/k1/a1" {
		t.Fatalf("idempotency record not saved: %v", idem.saved)
	}
}

func TestCreateAdoption_Replay(t *testing.T) {
	created := 0
	idem := &fakeIdemStore{rec: &domain.IdempotencyRecord{AdoptionID: "a1", Status: 201}}
	svc := &fakeAdoptionService{
		create: func(ctx context.Context, petID, userID, message string) (*domain.Adoption, error) {
			created++
			return &domain.Adoption{ID: "a2"}, nil
		},
		get: func(ctx context.Context, id string) (*domain.Adoption, error) {
			return &domain.Adoption{ID: id}, nil
		},
	}

	gin.SetMode(gin.TestMode)
	h := New(svc, nil, nil, idem)
	r := gin.New()
	r.Use(middleware.UserIdentity())
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{},
		func(ctx context.Context, userID, key string, now time.Time) (bool, error) {
			return true, nil
		}))
	r.POST("/adoptions", h.CreateAdoption)

	w := doJSON(r, http.MethodPost, "/adoptions", `{"petId":"p1"}`, map[string]string{
		middleware.HeaderUserID:         "u1",
		middleware.HeaderIdempotencyKey: "k1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("replay status = %d, want 200", w.Code)
	}
	var a domain.Adoption
	if err := json.Unmarshal(w.Body.Bytes(), &a); err != nil || a.ID != "a1" {
		t.Fatalf("replay body: %s", w.Body.String())
	}
	if created != 0 {
		t.Fatalf("replay still created %d adoptions", created)
	}
}

//
// Status / delete / confirm
//

func TestUpdateAdoptionStatus(t *testing.T) {
	var gotID, gotStatus, gotNotes string
	svc := &fakeAdoptionService{
		updateStatus: func(ctx context.Context, id, status, notes string) error {
			gotID, gotStatus, gotNotes = id, status, notes
			return nil
		},
	}
	r := newAdoptionRouter(svc, nil)

	w := doJSON(r, http.MethodPut, "/adoptions/a1/status", `{"status":"approved","notes":" ok "}`, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if gotID != "a1" || gotStatus != "approved" || gotNotes != "ok" {
		t.Fatalf("service args: %q %q %q", gotID, gotStatus, gotNotes)
	}
}

func TestUpdateAdoptionStatus_RejectsUnknownStatus(t *testing.T) {
	r := newAdoptionRouter(&fakeAdoptionService{}, nil)
	w := doJSON(r, http.MethodPut, "/adoptions/a1/status", `{"status":"archived"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestDeleteAdoption(t *testing.T) {
	svc := &fakeAdoptionService{
		deleteReq: func(ctx context.Context, id string) error {
			if id == "missing" {
				return services.ErrAdoptionNotFound
			}
			return nil
		},
	}
	r := newAdoptionRouter(svc, nil)

	if w := doJSON(r, http.MethodDelete, "/adoptions/a1", "", nil); w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/adoptions/missing", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestConfirmAdoption(t *testing.T) {
	var gotStory *services.StoryInput
	svc := &fakeAdoptionService{
		confirm: func(ctx context.Context, id, verifierID string, story *services.StoryInput) error {
			if id != "a1" || verifierID != "owner1" {
				t.Errorf("confirm args: %q %q", id, verifierID)
			}
			gotStory = story
			return nil
		},
	}
	r := newAdoptionRouter(svc, nil)
	headers := map[string]string{middleware.HeaderUserID: "owner1"}

	// Story fields present: the saga gets a StoryInput.
	w := doJSON(r, http.MethodPost, "/adoptions/a1/confirm",
		`{"storyTitle":"Rocky en casa","storyContent":"feliz"}`, headers)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if gotStory == nil || gotStory.Title != "Rocky en casa" {
		t.Fatalf("story not forwarded: %+v", gotStory)
	}

	// Empty body: no story.
	gotStory = &services.StoryInput{}
	w = doJSON(r, http.MethodPost, "/adoptions/a1/confirm", "", headers)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if gotStory != nil {
		t.Fatalf("empty body should carry no story: %+v", gotStory)
	}
}

func TestConfirmAdoption_ErrorMapping(t *testing.T) {
	svc := &fakeAdoptionService{
		confirm: func(ctx context.Context, id, verifierID string, story *services.StoryInput) error {
			if id == "missing" {
				return services.ErrAdoptionNotFound
			}
			return services.ErrConfirmFailed
		},
	}
	r := newAdoptionRouter(svc, nil)
	headers := map[string]string{middleware.HeaderUserID: "owner1"}

	if w := doJSON(r, http.MethodPost, "/adoptions/missing/confirm", "", headers); w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if w := doJSON(r, http.MethodPost, "/adoptions/a1/confirm", "", headers); w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if w := doJSON(r, http.MethodPost, "/adoptions/a1/confirm", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
