package listings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"staybase/internal/catalog"
	"staybase/internal/storage/memory"
)

// newTestService wires a service over a fresh in-memory store preloaded
// with the given listings.
func newTestService(t *testing.T, ls ...catalog.Listing) (*Service, *memory.MemoryStore) {
	t.Helper()
	store := memory.NewMemoryStore()
	require.NoError(t, store.InsertMany(context.Background(), ls))
	return New(store, 0), store
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func testListings() []catalog.Listing {
	return []catalog.Listing{
		{
			ID:                   "a1",
			Name:                 "Cozy Manhattan Apartment",
			Description:          "A wonderful place to stay in NYC",
			NeighborhoodOverview: "Great neighborhood with restaurants",
			PropertyType:         "Apartment",
			RoomType:             "Entire home/apt",
			MinimumNights:        "2",
			Accommodates:         4,
			NumberOfReviews:      25,
			Price:                catalog.MustMoney("150.00"),
			Host: catalog.Host{
				HostID:           "host001",
				HostName:         "Sarah Johnson",
				HostResponseTime: "within an hour",
				HostIsSuperhost:  true,
			},
			Address: catalog.Address{
				Market:  "New York",
				Country: "United States",
				Location: &catalog.Location{
					Type:        "Point",
					Coordinates: []float64{-73.9857, 40.7484},
				},
			},
			Availability: catalog.Availability{Availability30: 15},
			ReviewScores: catalog.ReviewScores{ReviewScoresRating: intPtr(95)},
			Reviews:      []catalog.Review{{ID: "rev1", ListingID: "a1"}},
		},
		{
			ID:              "a2",
			Name:            "Brooklyn Loft Studio",
			Description:     "Spacious loft with industrial design",
			PropertyType:    "Loft",
			RoomType:        "Private room",
			MinimumNights:   "3",
			Accommodates:    2,
			NumberOfReviews: 0,
			Price:           catalog.MustMoney("120.00"),
			Host: catalog.Host{
				HostID:   "host002",
				HostName: "Mike Chen",
			},
			Address: catalog.Address{
				Market:  "New York",
				Country: "United States",
				Location: &catalog.Location{
					Type:        "Point",
					Coordinates: []float64{-73.9442, 40.6782},
				},
			},
			Availability: catalog.Availability{Availability30: 0},
			ReviewScores: catalog.ReviewScores{ReviewScoresRating: intPtr(88)},
		},
		{
			ID:              "a3",
			Name:            "Barcelona Beach House",
			Description:     "Sunny house near the beach",
			PropertyType:    "House",
			RoomType:        "Entire home/apt",
			MinimumNights:   "2",
			Accommodates:    6,
			NumberOfReviews: 8,
			Price:           catalog.MustMoney("200.00"),
			Host: catalog.Host{
				HostID:   "host001",
				HostName: "Sarah Johnson",
			},
			Address: catalog.Address{
				Market:  "Barcelona",
				Country: "Spain",
			},
			Availability: catalog.Availability{Availability30: 20},
		},
	}
}
