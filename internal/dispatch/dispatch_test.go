package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hotshotlogistics/dispatch/internal/store"
	"github.com/hotshotlogistics/dispatch/pkg/models"
)

// fakeStore is an in-memory Store with the same atomicity the real schema
// provides: the active-per-job check and the insert happen under one lock, so
// concurrent duplicate assigns fail with ErrActiveAssignmentExists just like
// the partial unique index.
type fakeStore struct {
	mu           sync.Mutex
	drivers      map[int]*models.Driver
	jobs         map[string]*models.Job
	assignments  map[string]*models.JobAssignment
	nextDriverID int

	calls int // repository calls observed, for fail-fast assertions
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		drivers:      make(map[int]*models.Driver),
		jobs:         make(map[string]*models.Job),
		assignments:  make(map[string]*models.JobAssignment),
		nextDriverID: 1,
	}
}

func (f *fakeStore) seedDriver(id int) *models.Driver {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := &models.Driver{
		ID:        id,
		FirstName: "Test",
		LastName:  fmt.Sprintf("Driver%d", id),
		Email:     fmt.Sprintf("driver%d@example.com", id),
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	f.drivers[id] = d
	if id >= f.nextDriverID {
		f.nextDriverID = id + 1
	}
	return d
}

func (f *fakeStore) seedJob(id string) *models.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	j := &models.Job{
		ID:        id,
		Title:     "Haul " + id,
		Status:    models.JobStatusPending,
		Priority:  models.JobPriorityMedium,
		CreatedAt: time.Now().UTC(),
	}
	f.jobs[id] = j
	return j
}

func (f *fakeStore) countCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeStore) record() {
	f.calls++
}

// --- DriverStore ---

func (f *fakeStore) CreateDriver(_ context.Context, d *models.Driver) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record()
	for _, existing := range f.drivers {
		if existing.Email == d.Email {
			return store.ErrDuplicateKey
		}
	}
	d.ID = f.nextDriverID
	f.nextDriverID++
	cp := *d
	f.drivers[d.ID] = &cp
	return nil
}

func (f *fakeStore) GetDriver(_ context.Context, id int) (*models.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record()
	d, ok := f.drivers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeStore) ListDrivers(_ context.Context) ([]*models.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record()
	var out []*models.Driver
	for _, d := range f.drivers {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) UpdateDriver(_ context.Context, d *models.Driver) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record()
	if _, ok := f.drivers[d.ID]; !ok {
		return store.ErrNotFound
	}
	now := time.Now().UTC()
	cp := *d
	cp.UpdatedAt = &now
	f.drivers[d.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteDriver(_ context.Context, id int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record()
	if _, ok := f.drivers[id]; !ok {
		return false, nil
	}
	delete(f.drivers, id)
	return true, nil
}

// --- JobStore ---

func (f *fakeStore) CreateJob(_ context.Context, j *models.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record()
	if _, ok := f.jobs[j.ID]; ok {
		return store.ErrDuplicateKey
	}
	cp := *j
	f.jobs[j.ID] = &cp
	return nil
}

func (f *fakeStore) GetJob(_ context.Context, id string) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record()
	j, ok := f.jobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (f *fakeStore) ListJobs(_ context.Context, filter store.JobFilter) ([]*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record()
	var out []*models.Job
	for _, j := range f.jobs {
		if filter.Status != "" && j.Status != filter.Status {
			continue
		}
		cp := *j
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) UpdateJob(_ context.Context, j *models.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record()
	if _, ok := f.jobs[j.ID]; !ok {
		return store.ErrNotFound
	}
	now := time.Now().UTC()
	cp := *j
	cp.UpdatedAt = &now
	f.jobs[j.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteJob(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record()
	if _, ok := f.jobs[id]; !ok {
		return false, nil
	}
	delete(f.jobs, id)
	return true, nil
}

// --- AssignmentStore ---

func (f *fakeStore) GetAssignment(_ context.Context, id string) (*models.JobAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record()
	a, ok := f.assignments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return f.joined(a), nil
}

func (f *fakeStore) ListAssignments(_ context.Context) ([]*models.JobAssignment, error) {
	return f.list(func(*models.JobAssignment) bool { return true })
}

func (f *fakeStore) ListAssignmentsByDriver(_ context.Context, driverID int) ([]*models.JobAssignment, error) {
	return f.list(func(a *models.JobAssignment) bool { return a.DriverID == driverID })
}

func (f *fakeStore) ListAssignmentsByJob(_ context.Context, jobID string) ([]*models.JobAssignment, error) {
	return f.list(func(a *models.JobAssignment) bool { return a.JobID == jobID })
}

func (f *fakeStore) ListActiveAssignments(_ context.Context) ([]*models.JobAssignment, error) {
	return f.list(func(a *models.JobAssignment) bool { return a.Status == models.AssignmentStatusActive })
}

func (f *fakeStore) list(keep func(*models.JobAssignment) bool) ([]*models.JobAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record()
	var out []*models.JobAssignment
	for _, a := range f.assignments {
		if keep(a) {
			out = append(out, f.joined(a))
		}
	}
	return out, nil
}

func (f *fakeStore) joined(a *models.JobAssignment) *models.JobAssignment {
	cp := *a
	if d, ok := f.drivers[a.DriverID]; ok {
		dcp := *d
		cp.Driver = &dcp
	}
	if j, ok := f.jobs[a.JobID]; ok {
		jcp := *j
		cp.Job = &jcp
	}
	return &cp
}

func (f *fakeStore) CreateAssignment(_ context.Context, a *models.JobAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record()
	for _, existing := range f.assignments {
		if existing.JobID == a.JobID && existing.Status == models.AssignmentStatusActive {
			return store.ErrActiveAssignmentExists
		}
	}
	cp := *a
	f.assignments[a.ID] = &cp
	if j, ok := f.jobs[a.JobID]; ok {
		j.Status = models.JobStatusAssigned
		driverID := a.DriverID
		j.AssignedDriverID = &driverID
	}
	return nil
}

func (f *fakeStore) UpdateAssignmentStatus(_ context.Context, id string, status models.AssignmentStatus) (*models.JobAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record()
	a, ok := f.assignments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	now := time.Now().UTC()
	a.Status = status
	a.UpdatedAt = &now
	return f.joined(a), nil
}

func (f *fakeStore) DeleteAssignment(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record()
	a, ok := f.assignments[id]
	if !ok {
		return false, nil
	}
	delete(f.assignments, id)
	if a.Status == models.AssignmentStatusActive {
		if j, ok := f.jobs[a.JobID]; ok {
			j.Status = models.JobStatusPending
			j.AssignedDriverID = nil
		}
	}
	return true, nil
}

func (f *fakeStore) Ping(context.Context) error { return nil }

// fakeCache is an in-memory Cache without TTL expiry.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *fakeCache) Ping(context.Context) error { return nil }

func newTestService(f *fakeStore) *AssignmentService {
	return NewAssignmentService(f, f, f, nil, 0)
}
