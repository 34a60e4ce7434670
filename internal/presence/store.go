// Package presence is the single source of truth for "where is user X and
// are they discoverable". It keeps one record per (uid, role) partition,
// merge-writes position and discoverability independently, and fans every
// relevant change out to live subscribers as a full fresh snapshot.
package presence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"sakaylink/internal/domain"
	"sakaylink/internal/models"
)

type Store struct {
	locations LocationRepository
	profiles  ProfileRepository
	geo       GeoIndex
	ident     IdentityProvider
	now       func() time.Time
	buffer    int
	log       *zap.Logger

	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{} // keyed by watched role
	closed bool

	// pub serializes snapshot reads against their delivery so a later
	// sequence number always carries newer state. seq is guarded by pub.
	pub sync.Mutex
	seq map[string]uint64
}

type Option func(*Store)

// WithClock replaces the server clock used for updatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSnapshotBuffer sets the per-subscriber channel capacity. Delivery is
// conflated regardless: a slow consumer only ever sees the newest snapshot.
func WithSnapshotBuffer(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.buffer = n
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

func NewStore(locations LocationRepository, profiles ProfileRepository, geo GeoIndex, ident IdentityProvider, opts ...Option) *Store {
	s := &Store{
		locations: locations,
		profiles:  profiles,
		geo:       geo,
		ident:     ident,
		now:       time.Now,
		buffer:    1,
		log:       zap.NewNop(),
		subs:      make(map[string]map[*Subscription]struct{}),
		seq:       make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveLocation merge-upserts the caller's position and a fresh server stamp.
// The discoverability flag is untouched: toggling is a separate operation.
func (s *Store) SaveLocation(ctx context.Context, lat, lng float64) error {
	id, err := s.ident.Authenticate(ctx)
	if err != nil {
		return ErrNotAuthenticated
	}
	if err := validateCoordinate(lat, lng); err != nil {
		return err
	}
	prev, err := s.locations.Get(ctx, id.UID, id.Role)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	at := s.stamp(prev)
	if err := s.locations.UpsertPosition(ctx, id.UID, id.Role, lat, lng, at); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if id.Role == domain.RoleDriver {
		if err := s.geo.Update(ctx, id.UID, lat, lng); err != nil {
			s.log.Warn("geo index update failed", zap.String("uid", id.UID), zap.Error(err))
		}
	}
	// A position change is only observable while the record is discoverable.
	if prev != nil && prev.Discoverable() {
		s.notify(ctx, id.Role)
	}
	return nil
}

// SetDiscoverable toggles the caller's role flag: availability for drivers,
// visibility for passengers. Merge semantics create the record when missing.
func (s *Store) SetDiscoverable(ctx context.Context, on bool) error {
	id, err := s.ident.Authenticate(ctx)
	if err != nil {
		return ErrNotAuthenticated
	}
	prev, err := s.locations.Get(ctx, id.UID, id.Role)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	at := s.stamp(prev)
	if err := s.locations.UpsertFlag(ctx, id.UID, id.Role, on, at); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	s.notify(ctx, id.Role)
	return nil
}

// MarkDiscoverable is the screen-entry convenience used by the connect policy.
func (s *Store) MarkDiscoverable(ctx context.Context) error {
	return s.SetDiscoverable(ctx, true)
}

// SetOffline forces the caller's flag to false. Idempotent: with no record,
// or one already offline, it writes nothing and succeeds.
func (s *Store) SetOffline(ctx context.Context) error {
	id, err := s.ident.Authenticate(ctx)
	if err != nil {
		return ErrNotAuthenticated
	}
	prev, err := s.locations.Get(ctx, id.UID, id.Role)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if prev == nil || !prev.Discoverable() {
		return nil
	}
	if err := s.locations.UpsertFlag(ctx, id.UID, id.Role, false, s.stamp(prev)); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	s.notify(ctx, id.Role)
	return nil
}

// OwnStatus reads the caller's flag, false when no record exists yet. Used to
// seed toggle state without assuming a prior write happened.
func (s *Store) OwnStatus(ctx context.Context) (bool, error) {
	id, err := s.ident.Authenticate(ctx)
	if err != nil {
		return false, ErrNotAuthenticated
	}
	loc, err := s.locations.Get(ctx, id.UID, id.Role)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if loc == nil {
		return false, nil
	}
	return loc.Discoverable(), nil
}

// OwnLocation reads the caller's record, nil when absent. A flag-only record
// with no position written yet counts as absent.
func (s *Store) OwnLocation(ctx context.Context) (*PeerLocation, error) {
	id, err := s.ident.Authenticate(ctx)
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	loc, err := s.locations.Get(ctx, id.UID, id.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if loc == nil || !loc.HasPosition {
		return nil, nil
	}
	entry := snapshotEntry(*loc)
	return &entry, nil
}

// DeleteOwnRecord physically deletes the caller's record. Not part of any
// default flow; going offline is the soft path.
func (s *Store) DeleteOwnRecord(ctx context.Context) error {
	id, err := s.ident.Authenticate(ctx)
	if err != nil {
		return ErrNotAuthenticated
	}
	if err := s.locations.Delete(ctx, id.UID, id.Role); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if id.Role == domain.RoleDriver {
		if err := s.geo.Remove(ctx, id.UID); err != nil {
			s.log.Warn("geo index remove failed", zap.String("uid", id.UID), zap.Error(err))
		}
	}
	s.notify(ctx, id.Role)
	return nil
}

// PeerInfo joins the user and driver-profile records for display purposes.
func (s *Store) PeerInfo(ctx context.Context, uid string) (*DriverInfo, error) {
	if _, err := s.ident.Authenticate(ctx); err != nil {
		return nil, ErrNotAuthenticated
	}
	user, err := s.profiles.GetUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	info := &DriverInfo{
		UID:         user.UID,
		Name:        user.Name,
		PhoneNumber: user.PhoneNumber,
		ProfileURL:  user.ProfileURL,
	}
	profile, err := s.profiles.GetDriverProfile(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if profile != nil {
		info.Vehicle = profile.Vehicle
		info.IsVerified = profile.IsVerified
	}
	return info, nil
}

// Subscribe opens a realtime stream of all discoverable peers holding role.
// The first snapshot is delivered immediately; afterwards every relevant
// change produces a full fresh snapshot. The caller must Close the
// subscription on teardown or the registration leaks.
func (s *Store) Subscribe(ctx context.Context, role string) (*Subscription, error) {
	if _, err := s.ident.Authenticate(ctx); err != nil {
		return nil, ErrNotAuthenticated
	}
	if !domain.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	sub := &Subscription{
		store: s,
		role:  role,
		ch:    make(chan []PeerLocation, s.buffer),
	}
	// Hold the publish lock across register, read and initial delivery. A
	// concurrent change cannot fan a fresher snapshot out to this subscriber
	// and have the initial one land on top of it.
	s.pub.Lock()
	defer s.pub.Unlock()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.subs[role] == nil {
		s.subs[role] = make(map[*Subscription]struct{})
	}
	s.subs[role][sub] = struct{}{}
	s.mu.Unlock()

	snap, err := s.snapshot(ctx, role)
	if err != nil {
		sub.Close()
		return nil, err
	}
	// Push under the read lock so a concurrent store shutdown cannot close
	// the channel mid-delivery.
	s.mu.RLock()
	if _, live := s.subs[role][sub]; live {
		s.seq[role]++
		sub.push(s.seq[role], snap)
	}
	s.mu.RUnlock()
	return sub, nil
}

// Close tears down all live subscriptions. Further Subscribe calls fail.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	var all []*Subscription
	for _, set := range s.subs {
		for sub := range set {
			all = append(all, sub)
		}
	}
	s.mu.Unlock()
	for _, sub := range all {
		sub.Close()
	}
}

func (s *Store) snapshot(ctx context.Context, role string) ([]PeerLocation, error) {
	records, err := s.locations.ListDiscoverable(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	snap := make([]PeerLocation, 0, len(records))
	for _, rec := range records {
		snap = append(snap, snapshotEntry(rec))
	}
	return snap, nil
}

// notify recomputes the role's snapshot and pushes it to every watcher.
// Delivery is best-effort and conflated; a read failure drops this round.
func (s *Store) notify(ctx context.Context, role string) {
	s.mu.RLock()
	n := len(s.subs[role])
	s.mu.RUnlock()
	if n == 0 {
		return
	}
	s.pub.Lock()
	defer s.pub.Unlock()
	snap, err := s.snapshot(ctx, role)
	if err != nil {
		s.log.Warn("snapshot refresh failed", zap.String("role", role), zap.Error(err))
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.seq[role]++
	seq := s.seq[role]
	for sub := range s.subs[role] {
		sub.push(seq, snap)
	}
}

func (s *Store) unsubscribe(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set := s.subs[sub.role]; set != nil {
		delete(set, sub)
		if len(set) == 0 {
			delete(s.subs, sub.role)
		}
	}
}

// stamp returns the server-assigned updatedAt. Clamped just past the previous
// stamp so the value is strictly increasing per record even when the clock
// does not advance between writes.
func (s *Store) stamp(prev *models.UserLocation) time.Time {
	at := s.now()
	if prev != nil && !at.After(prev.UpdatedAt) {
		at = prev.UpdatedAt.Add(time.Microsecond)
	}
	return at
}

func validateCoordinate(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}
