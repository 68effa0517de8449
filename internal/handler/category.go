package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evently-labs/event-booking-api/internal/model"
	"github.com/evently-labs/event-booking-api/internal/repository"
)

// CategoryService is the minimal interface the category handlers need.
type CategoryService interface {
	CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	UpdateCategory(ctx context.Context, id string, req model.UpdateCategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// CategoryHandler holds HTTP handlers for the category catalog.
type CategoryHandler struct {
	svc CategoryService
}

// NewCategoryHandler constructs a CategoryHandler.
func NewCategoryHandler(svc CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// Create handles POST /api/categories (admin only).
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCategoryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.svc.CreateCategory(r.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateCategory) {
			writeError(w, http.StatusConflict, "category name already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

// List handles GET /api/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	if categories == nil {
		categories = []model.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// Get handles GET /api/categories/{id}
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.svc.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get category")
		return
	}

	writeJSON(w, http.StatusOK, category)
}

// Update handles PUT /api/categories/{id} (admin only).
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateCategoryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.svc.UpdateCategory(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "category not found")
		case errors.Is(err, repository.ErrDuplicateCategory):
			writeError(w, http.StatusConflict, "category name already exists")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update category")
		}
		return
	}

	writeJSON(w, http.StatusOK, category)
}

// Delete handles DELETE /api/categories/{id} (admin only).
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		writeError(w, http.StatusConflict, "category cannot be deleted")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
