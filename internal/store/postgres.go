package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/hotshotlogistics/dispatch/pkg/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Drivers ---

const driverColumns = `id, first_name, last_name, email, phone_number, license_number, license_expiry, is_active, created_at, updated_at`

func (s *PostgresStore) CreateDriver(ctx context.Context, d *models.Driver) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO drivers (first_name, last_name, email, phone_number, license_number, license_expiry, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		d.FirstName, d.LastName, d.Email, d.PhoneNumber, d.LicenseNumber, d.LicenseExpiry, d.IsActive, d.CreatedAt,
	).Scan(&d.ID)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create driver: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetDriver(ctx context.Context, id int) (*models.Driver, error) {
	var d models.Driver
	err := s.pool.QueryRow(ctx,
		`SELECT `+driverColumns+` FROM drivers WHERE id = $1`, id,
	).Scan(&d.ID, &d.FirstName, &d.LastName, &d.Email, &d.PhoneNumber, &d.LicenseNumber,
		&d.LicenseExpiry, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get driver: %w", err)
	}
	return &d, nil
}

func (s *PostgresStore) ListDrivers(ctx context.Context) ([]*models.Driver, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+driverColumns+` FROM drivers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	defer rows.Close()

	var drivers []*models.Driver
	for rows.Next() {
		var d models.Driver
		if err := rows.Scan(&d.ID, &d.FirstName, &d.LastName, &d.Email, &d.PhoneNumber,
			&d.LicenseNumber, &d.LicenseExpiry, &d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan driver: %w", err)
		}
		drivers = append(drivers, &d)
	}
	return drivers, rows.Err()
}

func (s *PostgresStore) UpdateDriver(ctx context.Context, d *models.Driver) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE drivers
		 SET first_name = $2, last_name = $3, email = $4, phone_number = $5,
		     license_number = $6, license_expiry = $7, is_active = $8, updated_at = NOW()
		 WHERE id = $1`,
		d.ID, d.FirstName, d.LastName, d.Email, d.PhoneNumber, d.LicenseNumber, d.LicenseExpiry, d.IsActive)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrDuplicateKey
		}
		return fmt.Errorf("update driver: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteDriver(ctx context.Context, id int) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete driver: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// --- Jobs ---

const jobColumns = `id, title, pickup_address, dropoff_address, status, priority, amount_cents, estimated_delivery_time, assigned_driver_id, created_at, updated_at`

func (s *PostgresStore) CreateJob(ctx context.Context, j *models.Job) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (id, title, pickup_address, dropoff_address, status, priority, amount_cents, estimated_delivery_time, assigned_driver_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		j.ID, j.Title, j.PickupAddress, j.DropoffAddress, j.Status, j.Priority,
		j.AmountCents, j.EstimatedDeliveryTime, j.AssignedDriverID, j.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var j models.Job
	err := s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id,
	).Scan(&j.ID, &j.Title, &j.PickupAddress, &j.DropoffAddress, &j.Status, &j.Priority,
		&j.AmountCents, &j.EstimatedDeliveryTime, &j.AssignedDriverID, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &j, nil
}

func (s *PostgresStore) ListJobs(ctx context.Context, filter JobFilter) ([]*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	args := []any{}
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		var j models.Job
		if err := rows.Scan(&j.ID, &j.Title, &j.PickupAddress, &j.DropoffAddress, &j.Status,
			&j.Priority, &j.AmountCents, &j.EstimatedDeliveryTime, &j.AssignedDriverID,
			&j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, &j)
	}
	return jobs, rows.Err()
}

func (s *PostgresStore) UpdateJob(ctx context.Context, j *models.Job) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs
		 SET title = $2, pickup_address = $3, dropoff_address = $4, status = $5,
		     priority = $6, amount_cents = $7, estimated_delivery_time = $8,
		     assigned_driver_id = $9, updated_at = NOW()
		 WHERE id = $1`,
		j.ID, j.Title, j.PickupAddress, j.DropoffAddress, j.Status, j.Priority,
		j.AmountCents, j.EstimatedDeliveryTime, j.AssignedDriverID)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteJob(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete job: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// --- Job assignments ---

const assignmentSelect = `
SELECT a.id, a.job_id, a.driver_id, a.assigned_at, a.status, a.updated_at,
       d.id, d.first_name, d.last_name, d.email, d.phone_number, d.license_number, d.license_expiry, d.is_active, d.created_at, d.updated_at,
       j.id, j.title, j.pickup_address, j.dropoff_address, j.status, j.priority, j.amount_cents, j.estimated_delivery_time, j.assigned_driver_id, j.created_at, j.updated_at
FROM job_assignments a
JOIN drivers d ON d.id = a.driver_id
JOIN jobs j ON j.id = a.job_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (*models.JobAssignment, error) {
	var (
		a models.JobAssignment
		d models.Driver
		j models.Job
	)
	err := row.Scan(
		&a.ID, &a.JobID, &a.DriverID, &a.AssignedAt, &a.Status, &a.UpdatedAt,
		&d.ID, &d.FirstName, &d.LastName, &d.Email, &d.PhoneNumber, &d.LicenseNumber,
		&d.LicenseExpiry, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
		&j.ID, &j.Title, &j.PickupAddress, &j.DropoffAddress, &j.Status, &j.Priority,
		&j.AmountCents, &j.EstimatedDeliveryTime, &j.AssignedDriverID, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Driver = &d
	a.Job = &j
	return &a, nil
}

func (s *PostgresStore) GetAssignment(ctx context.Context, id string) (*models.JobAssignment, error) {
	a, err := scanAssignment(s.pool.QueryRow(ctx, assignmentSelect+` WHERE a.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) ListAssignments(ctx context.Context) ([]*models.JobAssignment, error) {
	return s.listAssignments(ctx, assignmentSelect+` ORDER BY a.assigned_at DESC`)
}

func (s *PostgresStore) ListAssignmentsByDriver(ctx context.Context, driverID int) ([]*models.JobAssignment, error) {
	return s.listAssignments(ctx, assignmentSelect+` WHERE a.driver_id = $1 ORDER BY a.assigned_at DESC`, driverID)
}

func (s *PostgresStore) ListAssignmentsByJob(ctx context.Context, jobID string) ([]*models.JobAssignment, error) {
	return s.listAssignments(ctx, assignmentSelect+` WHERE a.job_id = $1 ORDER BY a.assigned_at DESC`, jobID)
}

func (s *PostgresStore) ListActiveAssignments(ctx context.Context) ([]*models.JobAssignment, error) {
	return s.listAssignments(ctx, assignmentSelect+` WHERE a.status = $1 ORDER BY a.assigned_at DESC`, models.AssignmentStatusActive)
}

func (s *PostgresStore) listAssignments(ctx context.Context, query string, args ...any) ([]*models.JobAssignment, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*models.JobAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// CreateAssignment inserts the assignment and marks the job assigned in one
// transaction. The partial unique index on (job_id) WHERE status = 'active'
// rejects a concurrent duplicate, which surfaces as ErrActiveAssignmentExists.
func (s *PostgresStore) CreateAssignment(ctx context.Context, a *models.JobAssignment) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create assignment: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO job_assignments (id, job_id, driver_id, assigned_at, status)
		 VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.JobID, a.DriverID, a.AssignedAt, a.Status)
	if err != nil {
		if isUniqueViolation(err, "job_assignments_one_active_per_job") {
			return ErrActiveAssignmentExists
		}
		if isUniqueViolation(err, "") {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create assignment: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE jobs SET status = $2, assigned_driver_id = $3, updated_at = NOW() WHERE id = $1`,
		a.JobID, models.JobStatusAssigned, a.DriverID)
	if err != nil {
		return fmt.Errorf("mark job assigned: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create assignment: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateAssignmentStatus(ctx context.Context, id string, status models.AssignmentStatus) (*models.JobAssignment, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE job_assignments SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	if err != nil {
		return nil, fmt.Errorf("update assignment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.GetAssignment(ctx, id)
}

// DeleteAssignment removes the assignment row. If it was the job's active
// assignment, the job is reset to pending with no driver, in the same
// transaction.
func (s *PostgresStore) DeleteAssignment(ctx context.Context, id string) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin delete assignment: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		jobID  string
		status models.AssignmentStatus
	)
	err = tx.QueryRow(ctx,
		`DELETE FROM job_assignments WHERE id = $1 RETURNING job_id, status`, id,
	).Scan(&jobID, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete assignment: %w", err)
	}

	if status == models.AssignmentStatusActive {
		_, err = tx.Exec(ctx,
			`UPDATE jobs SET status = $2, assigned_driver_id = NULL, updated_at = NOW() WHERE id = $1`,
			jobID, models.JobStatusPending)
		if err != nil {
			return false, fmt.Errorf("reset job after unassign: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit delete assignment: %w", err)
	}
	return true, nil
}

// isUniqueViolation reports whether err is a 23505 unique violation, optionally
// scoped to a specific constraint name.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
