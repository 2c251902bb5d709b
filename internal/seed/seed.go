// Package seed loads a small sample dataset into an empty store so the
// service is explorable out of the box.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"staybase/internal/catalog"
	"staybase/internal/storage"
)

// Run inserts the sample listings unless the store already holds data.
func Run(ctx context.Context, store storage.Store) error {
	count, err := store.Count(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if count > 0 {
		slog.Info("Data already exists, skipping sample data loading", "count", count)
		return nil
	}

	ls := SampleListings()
	if err := store.InsertMany(ctx, ls); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	slog.Info("Sample data loaded", "count", len(ls))
	return nil
}

// SampleListings returns the three demo listings. Also used as fixtures in
// tests.
func SampleListings() []catalog.Listing {
	now := time.Now().UTC()
	return []catalog.Listing{
		{
			ID:                   "sample001",
			ListingURL:           "https://www.airbnb.com/rooms/sample001",
			Name:                 "Cozy Manhattan Apartment",
			Summary:              "Beautiful apartment in the heart of Manhattan",
			Description:          "A wonderful place to stay in NYC with all amenities",
			NeighborhoodOverview: "Great neighborhood with restaurants and shops",
			PropertyType:         "Apartment",
			RoomType:             "Entire home/apt",
			BedType:              "Real Bed",
			MinimumNights:        "2",
			MaximumNights:        "30",
			Accommodates:         4,
			Bedrooms:             2,
			Beds:                 2,
			NumberOfReviews:      25,
			Bathrooms:            catalog.MustMoney("2.0"),
			Price:                catalog.MustMoney("150.00"),
			CleaningFee:          catalog.MustMoney("50.00"),
			SecurityDeposit:      catalog.MustMoney("100.00"),
			LastScraped:          &now,
			Amenities:            []string{"Wifi", "Kitchen", "Air conditioning", "Heating"},
			Host: catalog.Host{
				HostID:           "host001",
				HostName:         "Sarah Johnson",
				HostLocation:     "New York, NY",
				HostResponseTime: "within an hour",
				HostResponseRate: intPtr(98),
				HostIsSuperhost:  true,
				HostVerifications: []string{
					"email", "phone", "government_id",
				},
			},
			Address: catalog.Address{
				Street:      "Midtown, New York, NY, United States",
				Suburb:      "Midtown",
				Market:      "New York",
				Country:     "United States",
				CountryCode: "US",
				Location: &catalog.Location{
					Type:            "Point",
					Coordinates:     []float64{-73.9857, 40.7484},
					IsLocationExact: true,
				},
			},
			Availability: catalog.Availability{
				Availability30:  15,
				Availability60:  40,
				Availability90:  65,
				Availability365: 280,
			},
			ReviewScores: catalog.ReviewScores{
				ReviewScoresAccuracy:    intPtr(9),
				ReviewScoresCleanliness: intPtr(10),
				ReviewScoresRating:      intPtr(95),
			},
			Reviews: []catalog.Review{{
				ID:           "rev001",
				Date:         &now,
				ListingID:    "sample001",
				ReviewerID:   "reviewer001",
				ReviewerName: "John Smith",
				Comments:     "Amazing place, great location!",
			}},
		},
		{
			ID:                   "sample002",
			ListingURL:           "https://www.airbnb.com/rooms/sample002",
			Name:                 "Brooklyn Loft Studio",
			Summary:              "Modern loft in trendy Brooklyn",
			Description:          "Spacious loft with industrial design and modern amenities",
			NeighborhoodOverview: "Hip Brooklyn neighborhood with cafes and galleries",
			PropertyType:         "Loft",
			RoomType:             "Entire home/apt",
			BedType:              "Real Bed",
			MinimumNights:        "3",
			MaximumNights:        "90",
			Accommodates:         2,
			Bedrooms:             1,
			Beds:                 1,
			NumberOfReviews:      15,
			Bathrooms:            catalog.MustMoney("1.0"),
			Price:                catalog.MustMoney("120.00"),
			CleaningFee:          catalog.MustMoney("40.00"),
			SecurityDeposit:      catalog.MustMoney("0.00"),
			LastScraped:          &now,
			Amenities:            []string{"Wifi", "Kitchen", "Workspace"},
			Host: catalog.Host{
				HostID:           "host002",
				HostName:         "Mike Chen",
				HostLocation:     "Brooklyn, NY",
				HostResponseTime: "within a few hours",
				HostResponseRate: intPtr(92),
				HostIsSuperhost:  false,
				HostVerifications: []string{
					"email", "phone",
				},
			},
			Address: catalog.Address{
				Street:      "Williamsburg, Brooklyn, NY, United States",
				Suburb:      "Williamsburg",
				Market:      "New York",
				Country:     "United States",
				CountryCode: "US",
				Location: &catalog.Location{
					Type:            "Point",
					Coordinates:     []float64{-73.9442, 40.6782},
					IsLocationExact: true,
				},
			},
			Availability: catalog.Availability{
				Availability30:  8,
				Availability60:  25,
				Availability90:  50,
				Availability365: 200,
			},
			ReviewScores: catalog.ReviewScores{
				ReviewScoresAccuracy:    intPtr(9),
				ReviewScoresCleanliness: intPtr(9),
				ReviewScoresRating:      intPtr(88),
			},
			Reviews: []catalog.Review{{
				ID:           "rev002",
				Date:         &now,
				ListingID:    "sample002",
				ReviewerID:   "reviewer002",
				ReviewerName: "Emma Wilson",
				Comments:     "Loved the industrial design and the neighborhood is fantastic!",
			}},
		},
		{
			ID:                   "sample003",
			ListingURL:           "https://www.airbnb.com/rooms/sample003",
			Name:                 "Queens Family House",
			Summary:              "Spacious family house in Queens",
			Description:          "Perfect for families visiting NYC, quiet neighborhood",
			NeighborhoodOverview: "Family-friendly area with parks and schools",
			PropertyType:         "House",
			RoomType:             "Entire home/apt",
			BedType:              "Real Bed",
			MinimumNights:        "2",
			MaximumNights:        "60",
			Accommodates:         6,
			Bedrooms:             3,
			Beds:                 3,
			NumberOfReviews:      8,
			Bathrooms:            catalog.MustMoney("2.5"),
			Price:                catalog.MustMoney("200.00"),
			CleaningFee:          catalog.MustMoney("75.00"),
			SecurityDeposit:      catalog.MustMoney("150.00"),
			LastScraped:          &now,
			Amenities:            []string{"Wifi", "Kitchen", "Free parking", "Backyard"},
			Host: catalog.Host{
				HostID:           "host003",
				HostName:         "Maria Garcia",
				HostLocation:     "Queens, NY",
				HostResponseTime: "within a day",
				HostResponseRate: intPtr(85),
				HostIsSuperhost:  false,
				HostVerifications: []string{
					"email",
				},
			},
			Address: catalog.Address{
				Street:      "Astoria, Queens, NY, United States",
				Suburb:      "Astoria",
				Market:      "New York",
				Country:     "United States",
				CountryCode: "US",
				Location: &catalog.Location{
					Type:            "Point",
					Coordinates:     []float64{-73.7949, 40.7282},
					IsLocationExact: false,
				},
			},
			Availability: catalog.Availability{
				Availability30:  20,
				Availability60:  45,
				Availability90:  70,
				Availability365: 320,
			},
			ReviewScores: catalog.ReviewScores{
				ReviewScoresAccuracy: intPtr(8),
				ReviewScoresRating:   intPtr(82),
			},
		},
	}
}

func intPtr(n int) *int { return &n }
