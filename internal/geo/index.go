// Package geo keeps a Redis GEO index of driver positions so passengers can
// query "drivers near me" without scanning the durable store.
package geo

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const driverLocationKey = "drivers:locations"

// DriverDistance is one radius-search hit, nearest first.
type DriverDistance struct {
	UID        string  `json:"uid"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distance_km"`
}

type Index struct {
	client *redis.Client
}

func NewIndex(client *redis.Client) *Index {
	return &Index{client: client}
}

// Update stores a driver's position using GEOADD.
func (i *Index) Update(ctx context.Context, uid string, lat, lng float64) error {
	return i.client.GeoAdd(ctx, driverLocationKey, &redis.GeoLocation{
		Name:      uid,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// Nearby returns drivers within radiusKm of the given point, nearest first.
func (i *Index) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]DriverDistance, error) {
	results, err := i.client.GeoRadius(ctx, driverLocationKey, lng, lat, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		WithDist:  true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}
	hits := make([]DriverDistance, 0, len(results))
	for _, r := range results {
		hits = append(hits, DriverDistance{
			UID:        r.Name,
			Latitude:   r.Latitude,
			Longitude:  r.Longitude,
			DistanceKm: r.Dist,
		})
	}
	return hits, nil
}

// Remove drops a driver from the geo index.
func (i *Index) Remove(ctx context.Context, uid string) error {
	return i.client.ZRem(ctx, driverLocationKey, uid).Err()
}
