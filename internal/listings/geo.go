package listings

import (
	"context"
	"fmt"
	"math"
	"sort"

	"staybase/internal/catalog"
	"staybase/internal/storage"
)

// earthRadiusMeters is the mean Earth radius of the spherical model.
const earthRadiusMeters = 6371000.0

// DefaultMaxDistanceMeters is used when the caller does not supply a radius.
const DefaultMaxDistanceMeters = 1000.0

// haversineMeters computes the great-circle distance between two points.
// The result is in meters throughout; distances are never compared in
// radians, so no precision drifts in from repeated unit conversion.
func haversineMeters(lon1, lat1, lon2, lat2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*sinLon*sinLon

	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// FindNearLocation returns listings within maxDistanceMeters of the point,
// ordered by ascending distance with ascending id as the tie-break. The
// radius comparison is inclusive. maxDistanceMeters == 0 selects the
// default radius; listings with missing or malformed coordinates are
// skipped, never an error.
func (s *Service) FindNearLocation(ctx context.Context, longitude, latitude, maxDistanceMeters float64) ([]catalog.Listing, error) {
	if longitude < -180 || longitude > 180 {
		return nil, fmt.Errorf("%w: longitude %v out of range [-180,180]", ErrInvalidArgument, longitude)
	}
	if latitude < -90 || latitude > 90 {
		return nil, fmt.Errorf("%w: latitude %v out of range [-90,90]", ErrInvalidArgument, latitude)
	}
	if maxDistanceMeters == 0 {
		maxDistanceMeters = DefaultMaxDistanceMeters
	}
	if maxDistanceMeters < 0 {
		return nil, fmt.Errorf("%w: max distance must be positive", ErrInvalidArgument)
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	all, err := s.store.Find(ctx, storage.Query{})
	if err != nil {
		return nil, err
	}

	type located struct {
		listing  catalog.Listing
		distance float64
	}
	var within []located
	for _, l := range all {
		lon, lat, ok := l.Address.Location.LonLat()
		if !ok {
			continue
		}
		d := haversineMeters(longitude, latitude, lon, lat)
		if d <= maxDistanceMeters {
			within = append(within, located{listing: l, distance: d})
		}
	}

	sort.SliceStable(within, func(i, j int) bool {
		if within[i].distance != within[j].distance {
			return within[i].distance < within[j].distance
		}
		return within[i].listing.ID < within[j].listing.ID
	})

	result := make([]catalog.Listing, 0, len(within))
	for _, w := range within {
		result = append(result, w.listing)
	}
	return result, nil
}
