package catalog

import "time"

// Listing is the aggregate root of the catalog: one rentable property with
// its embedded host, address, availability, review scores and reviews.
// Field names follow the source dataset (collection "listingsAndReviews").
type Listing struct {
	ID                   string     `bson:"_id" json:"id"`
	ListingURL           string     `bson:"listing_url,omitempty" json:"listingUrl,omitempty"`
	Name                 string     `bson:"name" json:"name"`
	Summary              string     `bson:"summary,omitempty" json:"summary,omitempty"`
	Space                string     `bson:"space,omitempty" json:"space,omitempty"`
	Description          string     `bson:"description,omitempty" json:"description,omitempty"`
	NeighborhoodOverview string     `bson:"neighborhood_overview,omitempty" json:"neighborhoodOverview,omitempty"`
	Notes                string     `bson:"notes,omitempty" json:"notes,omitempty"`
	Transit              string     `bson:"transit,omitempty" json:"transit,omitempty"`
	Access               string     `bson:"access,omitempty" json:"access,omitempty"`
	Interaction          string     `bson:"interaction,omitempty" json:"interaction,omitempty"`
	HouseRules           string     `bson:"house_rules,omitempty" json:"houseRules,omitempty"`
	PropertyType         string     `bson:"property_type,omitempty" json:"propertyType,omitempty"`
	RoomType             string     `bson:"room_type,omitempty" json:"roomType,omitempty"`
	BedType              string     `bson:"bed_type,omitempty" json:"bedType,omitempty"`
	CancellationPolicy   string     `bson:"cancellation_policy,omitempty" json:"cancellationPolicy,omitempty"`
	LastScraped          *time.Time `bson:"last_scraped,omitempty" json:"lastScraped,omitempty"`
	CalendarLastScraped  *time.Time `bson:"calendar_last_scraped,omitempty" json:"calendarLastScraped,omitempty"`
	FirstReview          *time.Time `bson:"first_review,omitempty" json:"firstReview,omitempty"`
	LastReview           *time.Time `bson:"last_review,omitempty" json:"lastReview,omitempty"`

	// The source stores stay-length bounds as free-form strings. They are
	// kept opaque: nothing validates or computes on them.
	MinimumNights string `bson:"minimum_nights,omitempty" json:"minimumNights,omitempty"`
	MaximumNights string `bson:"maximum_nights,omitempty" json:"maximumNights,omitempty"`

	Accommodates    int `bson:"accommodates" json:"accommodates"`
	Bedrooms        int `bson:"bedrooms" json:"bedrooms"`
	Beds            int `bson:"beds" json:"beds"`
	NumberOfReviews int `bson:"number_of_reviews" json:"numberOfReviews"`

	Bathrooms       Money `bson:"bathrooms" json:"bathrooms"`
	Price           Money `bson:"price" json:"price"`
	SecurityDeposit Money `bson:"security_deposit" json:"securityDeposit"`
	CleaningFee     Money `bson:"cleaning_fee" json:"cleaningFee"`
	ExtraPeople     Money `bson:"extra_people" json:"extraPeople"`
	GuestsIncluded  Money `bson:"guests_included" json:"guestsIncluded"`

	Amenities []string `bson:"amenities,omitempty" json:"amenities,omitempty"`

	Images       Images       `bson:"images,omitempty" json:"images,omitempty"`
	Host         Host         `bson:"host,omitempty" json:"host,omitempty"`
	Address      Address      `bson:"address,omitempty" json:"address,omitempty"`
	Availability Availability `bson:"availability,omitempty" json:"availability,omitempty"`
	ReviewScores ReviewScores `bson:"review_scores,omitempty" json:"reviewScores,omitempty"`
	Reviews      []Review     `bson:"reviews,omitempty" json:"reviews,omitempty"`

	// Like state. Likes must always equal len(Fans); both are mutated only
	// through the like counter's atomic compound update.
	Likes int64    `bson:"likes" json:"likes"`
	Fans  []string `bson:"fans,omitempty" json:"fans,omitempty"`
}

// HasFan reports local membership of userID in the fan set. Store-level
// membership tests go through Store.HasFan instead.
func (l *Listing) HasFan(userID string) bool {
	for _, f := range l.Fans {
		if f == userID {
			return true
		}
	}
	return false
}

// Host carries identity and reputation attributes of a listing's host.
type Host struct {
	HostID                 string   `bson:"host_id,omitempty" json:"hostId,omitempty"`
	HostURL                string   `bson:"host_url,omitempty" json:"hostUrl,omitempty"`
	HostName               string   `bson:"host_name,omitempty" json:"hostName,omitempty"`
	HostLocation           string   `bson:"host_location,omitempty" json:"hostLocation,omitempty"`
	HostAbout              string   `bson:"host_about,omitempty" json:"hostAbout,omitempty"`
	HostResponseTime       string   `bson:"host_response_time,omitempty" json:"hostResponseTime,omitempty"`
	HostThumbnailURL       string   `bson:"host_thumbnail_url,omitempty" json:"hostThumbnailUrl,omitempty"`
	HostPictureURL         string   `bson:"host_picture_url,omitempty" json:"hostPictureUrl,omitempty"`
	HostNeighbourhood      string   `bson:"host_neighbourhood,omitempty" json:"hostNeighbourhood,omitempty"`
	HostResponseRate       *int     `bson:"host_response_rate,omitempty" json:"hostResponseRate,omitempty"`
	HostIsSuperhost        bool     `bson:"host_is_superhost" json:"hostIsSuperhost"`
	HostHasProfilePic      bool     `bson:"host_has_profile_pic" json:"hostHasProfilePic"`
	HostIdentityVerified   bool     `bson:"host_identity_verified" json:"hostIdentityVerified"`
	HostListingsCount      int      `bson:"host_listings_count,omitempty" json:"hostListingsCount,omitempty"`
	HostTotalListingsCount int      `bson:"host_total_listings_count,omitempty" json:"hostTotalListingsCount,omitempty"`
	HostVerifications      []string `bson:"host_verifications,omitempty" json:"hostVerifications,omitempty"`
}

// Address locates a listing. Location follows the GeoJSON point convention:
// coordinates are [longitude, latitude].
type Address struct {
	Street         string    `bson:"street,omitempty" json:"street,omitempty"`
	Suburb         string    `bson:"suburb,omitempty" json:"suburb,omitempty"`
	GovernmentArea string    `bson:"government_area,omitempty" json:"governmentArea,omitempty"`
	Market         string    `bson:"market,omitempty" json:"market,omitempty"`
	Country        string    `bson:"country,omitempty" json:"country,omitempty"`
	CountryCode    string    `bson:"country_code,omitempty" json:"countryCode,omitempty"`
	Location       *Location `bson:"location,omitempty" json:"location,omitempty"`
}

type Location struct {
	Type            string    `bson:"type,omitempty" json:"type,omitempty"`
	Coordinates     []float64 `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	IsLocationExact bool      `bson:"is_location_exact" json:"isLocationExact"`
}

// LonLat returns the point's coordinates, reporting false when the point is
// missing or malformed (wrong arity or out of range).
func (loc *Location) LonLat() (lon, lat float64, ok bool) {
	if loc == nil || len(loc.Coordinates) != 2 {
		return 0, 0, false
	}
	lon, lat = loc.Coordinates[0], loc.Coordinates[1]
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return 0, 0, false
	}
	return lon, lat, true
}

type Availability struct {
	Availability30  int `bson:"availability_30" json:"availability30"`
	Availability60  int `bson:"availability_60" json:"availability60"`
	Availability90  int `bson:"availability_90" json:"availability90"`
	Availability365 int `bson:"availability_365" json:"availability365"`
}

// ReviewScores holds the per-category scores. Pointers distinguish "never
// rated" from a zero score; averages must skip missing ratings.
type ReviewScores struct {
	ReviewScoresAccuracy      *int `bson:"review_scores_accuracy,omitempty" json:"reviewScoresAccuracy,omitempty"`
	ReviewScoresCleanliness   *int `bson:"review_scores_cleanliness,omitempty" json:"reviewScoresCleanliness,omitempty"`
	ReviewScoresCheckin       *int `bson:"review_scores_checkin,omitempty" json:"reviewScoresCheckin,omitempty"`
	ReviewScoresCommunication *int `bson:"review_scores_communication,omitempty" json:"reviewScoresCommunication,omitempty"`
	ReviewScoresLocation      *int `bson:"review_scores_location,omitempty" json:"reviewScoresLocation,omitempty"`
	ReviewScoresValue         *int `bson:"review_scores_value,omitempty" json:"reviewScoresValue,omitempty"`
	ReviewScoresRating        *int `bson:"review_scores_rating,omitempty" json:"reviewScoresRating,omitempty"`
}

// Review is immutable once attached to a listing; there is no update path.
type Review struct {
	ID           string     `bson:"_id" json:"id"`
	Date         *time.Time `bson:"date,omitempty" json:"date,omitempty"`
	ListingID    string     `bson:"listing_id,omitempty" json:"listingId,omitempty"`
	ReviewerID   string     `bson:"reviewer_id,omitempty" json:"reviewerId,omitempty"`
	ReviewerName string     `bson:"reviewer_name,omitempty" json:"reviewerName,omitempty"`
	Comments     string     `bson:"comments,omitempty" json:"comments,omitempty"`
}

type Images struct {
	ThumbnailURL string `bson:"thumbnail_url,omitempty" json:"thumbnailUrl,omitempty"`
	MediumURL    string `bson:"medium_url,omitempty" json:"mediumUrl,omitempty"`
	PictureURL   string `bson:"picture_url,omitempty" json:"pictureUrl,omitempty"`
	XLPictureURL string `bson:"xl_picture_url,omitempty" json:"xlPictureUrl,omitempty"`
}
