package presence_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"sakaylink/internal/domain"
	"sakaylink/internal/models"
)

// mockLocationRepo is an in-memory LocationRepository with call counters and
// error injection, mirroring the merge-write semantics of the real one.
type mockLocationRepo struct {
	mu      sync.Mutex
	records map[string]*models.UserLocation

	UpsertPositionCalls int32
	UpsertFlagCalls     int32
	DeleteCalls         int32

	GetError    error
	UpsertError error
	ListError   error
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{records: make(map[string]*models.UserLocation)}
}

func key(uid, role string) string { return uid + "|" + role }

func (m *mockLocationRepo) Get(ctx context.Context, uid, role string) (*models.UserLocation, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key(uid, role)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *mockLocationRepo) UpsertPosition(ctx context.Context, uid, role string, lat, lng float64, at time.Time) error {
	atomic.AddInt32(&m.UpsertPositionCalls, 1)
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key(uid, role)]
	if !ok {
		rec = &models.UserLocation{UID: uid, Role: role}
		m.records[key(uid, role)] = rec
	}
	rec.Latitude = lat
	rec.Longitude = lng
	rec.HasPosition = true
	rec.UpdatedAt = at
	return nil
}

func (m *mockLocationRepo) UpsertFlag(ctx context.Context, uid, role string, on bool, at time.Time) error {
	atomic.AddInt32(&m.UpsertFlagCalls, 1)
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key(uid, role)]
	if !ok {
		rec = &models.UserLocation{UID: uid, Role: role}
		m.records[key(uid, role)] = rec
	}
	if role == domain.RoleDriver {
		rec.IsAvailable = on
	} else {
		rec.IsVisible = on
	}
	rec.UpdatedAt = at
	return nil
}

func (m *mockLocationRepo) ListDiscoverable(ctx context.Context, role string) ([]models.UserLocation, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.UserLocation
	for _, rec := range m.records {
		if rec.Role == role && rec.Discoverable() && rec.HasPosition {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (m *mockLocationRepo) Delete(ctx context.Context, uid, role string) error {
	atomic.AddInt32(&m.DeleteCalls, 1)
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key(uid, role))
	return nil
}

type mockProfileRepo struct {
	users    map[string]*models.User
	profiles map[string]*models.DriverProfile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{
		users:    make(map[string]*models.User),
		profiles: make(map[string]*models.DriverProfile),
	}
}

func (m *mockProfileRepo) GetUser(ctx context.Context, uid string) (*models.User, error) {
	return m.users[uid], nil
}

func (m *mockProfileRepo) GetDriverProfile(ctx context.Context, uid string) (*models.DriverProfile, error) {
	return m.profiles[uid], nil
}

type mockGeoIndex struct {
	mu          sync.Mutex
	positions   map[string][2]float64
	UpdateCalls int32
	RemoveCalls int32
	UpdateError error
}

func newMockGeoIndex() *mockGeoIndex {
	return &mockGeoIndex{positions: make(map[string][2]float64)}
}

func (m *mockGeoIndex) Update(ctx context.Context, uid string, lat, lng float64) error {
	atomic.AddInt32(&m.UpdateCalls, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[uid] = [2]float64{lat, lng}
	return nil
}

func (m *mockGeoIndex) Remove(ctx context.Context, uid string) error {
	atomic.AddInt32(&m.RemoveCalls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.positions, uid)
	return nil
}

// fakeClock stands still unless advanced, which is exactly what the
// strictly-increasing updatedAt clamp has to survive.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
