package presence

import (
	"context"
	"time"

	"sakaylink/internal/domain"
	"sakaylink/internal/models"
)

// Identity is the authenticated caller resolved per operation. The store
// never reaches for a global auth singleton; an IdentityProvider is injected.
type Identity struct {
	UID  string
	Role string
}

type IdentityProvider interface {
	Authenticate(ctx context.Context) (Identity, error)
}

// PeerLocation is one entry of a subscription snapshot. Exactly one of
// IsAvailable/IsVisible is set, matching the record's role partition.
type PeerLocation struct {
	UID         string    `json:"uid"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	UpdatedAt   time.Time `json:"updated_at"`
	IsAvailable *bool     `json:"is_available,omitempty"`
	IsVisible   *bool     `json:"is_visible,omitempty"`
}

// DriverInfo is the one-shot profile join shown on marker tap.
type DriverInfo struct {
	UID         string             `json:"uid"`
	Name        string             `json:"name"`
	PhoneNumber string             `json:"phone_number"`
	ProfileURL  string             `json:"profile_url,omitempty"`
	Vehicle     models.VehicleInfo `json:"vehicle_info"`
	IsVerified  bool               `json:"is_verified"`
}

// LocationRepository is the durable store behind the presence core. Get
// returns (nil, nil) when no record exists. Upserts carry merge semantics:
// only the named columns change, the rest of the row is left alone.
// ListDiscoverable returns only records that hold a written position;
// flag-only records are excluded.
type LocationRepository interface {
	Get(ctx context.Context, uid, role string) (*models.UserLocation, error)
	UpsertPosition(ctx context.Context, uid, role string, lat, lng float64, at time.Time) error
	UpsertFlag(ctx context.Context, uid, role string, on bool, at time.Time) error
	ListDiscoverable(ctx context.Context, role string) ([]models.UserLocation, error)
	Delete(ctx context.Context, uid, role string) error
}

// ProfileRepository serves the PeerInfo join.
type ProfileRepository interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
	GetDriverProfile(ctx context.Context, uid string) (*models.DriverProfile, error)
}

// GeoIndex mirrors driver positions into a radius-searchable index. It is a
// secondary index: failures are logged, never surfaced to the caller.
type GeoIndex interface {
	Update(ctx context.Context, uid string, lat, lng float64) error
	Remove(ctx context.Context, uid string) error
}

func snapshotEntry(l models.UserLocation) PeerLocation {
	p := PeerLocation{
		UID:       l.UID,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		UpdatedAt: l.UpdatedAt,
	}
	flag := l.Discoverable()
	if l.Role == domain.RoleDriver {
		p.IsAvailable = &flag
	} else {
		p.IsVisible = &flag
	}
	return p
}
