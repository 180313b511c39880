package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hotshotlogistics/dispatch/internal/api/response"
	"github.com/hotshotlogistics/dispatch/pkg/models"
)

// DriverService defines the interface the driver handlers depend on.
type DriverService interface {
	CreateDriver(ctx context.Context, d *models.Driver) (*models.Driver, error)
	GetDriver(ctx context.Context, id int) (*models.Driver, error)
	ListDrivers(ctx context.Context) ([]*models.Driver, error)
	UpdateDriver(ctx context.Context, id int, d *models.Driver) (*models.Driver, error)
	DeleteDriver(ctx context.Context, id int) (bool, error)
}

// DriverHandler serves the /drivers endpoints.
type DriverHandler struct {
	svc DriverService
}

func NewDriverHandler(svc DriverService) *DriverHandler {
	return &DriverHandler{svc: svc}
}

type driverRequest struct {
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	PhoneNumber   string    `json:"phone_number"`
	LicenseNumber string    `json:"license_number"`
	LicenseExpiry time.Time `json:"license_expiry"`
	IsActive      *bool     `json:"is_active,omitempty"`
}

func (req driverRequest) toModel() *models.Driver {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &models.Driver{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		PhoneNumber:   req.PhoneNumber,
		LicenseNumber: req.LicenseNumber,
		LicenseExpiry: req.LicenseExpiry,
		IsActive:      active,
	}
}

func driverIDParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil
}

// Create handles POST /drivers.
func (h *DriverHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req driverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return
	}

	driver, err := h.svc.CreateDriver(r.Context(), req.toModel())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Created(w, driver)
}

// Get handles GET /drivers/{id}.
func (h *DriverHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := driverIDParam(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "driver id must be an integer", nil)
		return
	}

	driver, err := h.svc.GetDriver(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, driver)
}

// List handles GET /drivers.
func (h *DriverHandler) List(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.svc.ListDrivers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, emptyToSlice(drivers))
}

// Update handles PUT /drivers/{id}.
func (h *DriverHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := driverIDParam(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "driver id must be an integer", nil)
		return
	}

	var req driverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return
	}

	driver, err := h.svc.UpdateDriver(r.Context(), id, req.toModel())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, driver)
}

// Delete handles DELETE /drivers/{id}.
func (h *DriverHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := driverIDParam(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "driver id must be an integer", nil)
		return
	}

	deleted, err := h.svc.DeleteDriver(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Driver not found", nil)
		return
	}
	response.NoContent(w)
}
