package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hotshotlogistics/dispatch/internal/store"
	"github.com/hotshotlogistics/dispatch/pkg/models"
)

// DriverService is a thin CRUD wrapper over the driver store.
type DriverService struct {
	drivers store.DriverStore
}

func NewDriverService(drivers store.DriverStore) *DriverService {
	return &DriverService{drivers: drivers}
}

// CreateDriver stores a new driver and fills in the store-assigned id.
func (s *DriverService) CreateDriver(ctx context.Context, d *models.Driver) (*models.Driver, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: driver cannot be nil", ErrInvalidArgument)
	}
	if strings.TrimSpace(d.FirstName) == "" || strings.TrimSpace(d.LastName) == "" {
		return nil, fmt.Errorf("%w: driver name cannot be empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(d.Email) == "" {
		return nil, fmt.Errorf("%w: driver email cannot be empty", ErrInvalidArgument)
	}

	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	if err := s.drivers.CreateDriver(ctx, d); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: driver email %s already registered", ErrInvalidArgument, d.Email)
		}
		return nil, err
	}
	return d, nil
}

func (s *DriverService) GetDriver(ctx context.Context, id int) (*models.Driver, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: driver id must be greater than zero", ErrInvalidArgument)
	}
	d, err := s.drivers.GetDriver(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrDriverNotFound, id)
	}
	return d, err
}

func (s *DriverService) ListDrivers(ctx context.Context) ([]*models.Driver, error) {
	return s.drivers.ListDrivers(ctx)
}

// UpdateDriver replaces the mutable fields of a driver. Deactivating a driver
// does not touch their existing assignments.
func (s *DriverService) UpdateDriver(ctx context.Context, id int, d *models.Driver) (*models.Driver, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: driver id must be greater than zero", ErrInvalidArgument)
	}
	if d == nil {
		return nil, fmt.Errorf("%w: driver cannot be nil", ErrInvalidArgument)
	}

	d.ID = id
	if err := s.drivers.UpdateDriver(ctx, d); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrDriverNotFound, id)
		}
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: driver email %s already registered", ErrInvalidArgument, d.Email)
		}
		return nil, err
	}
	return s.drivers.GetDriver(ctx, id)
}

func (s *DriverService) DeleteDriver(ctx context.Context, id int) (bool, error) {
	if id <= 0 {
		return false, fmt.Errorf("%w: driver id must be greater than zero", ErrInvalidArgument)
	}
	return s.drivers.DeleteDriver(ctx, id)
}
