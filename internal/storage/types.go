package storage

import (
	"context"
	"errors"

	"staybase/internal/catalog"
)

var (
	// ErrNotFound is returned when a listing is not found
	ErrNotFound = errors.New("listing not found")
	// ErrExists is returned when trying to insert a listing that already exists
	ErrExists = errors.New("listing already exists")
	// ErrPreconditionFailed is returned when a conditional update matched the
	// listing but not its precondition (e.g. the fan-set membership filter)
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrTransient marks store timeouts and connection failures; callers may
	// retry, the operation did not necessarily apply
	ErrTransient = errors.New("transient store failure")
)

// Filter is a single field predicate, store-agnostic.
type Filter struct {
	Field string      `json:"field"`
	Op    string      `json:"op"`
	Value interface{} `json:"value"`
}

// Predicate is the conjunction of its filters. An empty predicate matches
// every listing.
type Predicate []Filter

// Filter operators.
const (
	OpEq  = "=="
	OpNe  = "!="
	OpGt  = ">"
	OpGte = ">="
	OpLt  = "<"
	OpLte = "<="
	OpIn  = "in"
	// OpContains matches a case-insensitive substring of a text field.
	OpContains = "contains"
)

// Order represents a sort order
type Order struct {
	Field     string `json:"field"`
	Direction string `json:"direction"` // "asc" or "desc"
}

const (
	Asc  = "asc"
	Desc = "desc"
)

// Query represents a listing query: Match filters are ANDed together,
// MatchAny filters are ORed and then ANDed with Match.
type Query struct {
	Match    Predicate `json:"match"`
	MatchAny Predicate `json:"matchAny"`
	OrderBy  []Order   `json:"orderBy"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}

// Accumulator computes one grouped value.
type Accumulator struct {
	Name  string `json:"name"`  // result key
	Op    string `json:"op"`    // count, avg, min, max
	Field string `json:"field"` // document field path; unused for count
}

const (
	AccCount = "count"
	AccAvg   = "avg"
	AccMin   = "min"
	AccMax   = "max"
)

// AggregationPlan describes a single-pass grouped aggregation. OrderBy
// fields refer to accumulator names, or "key.<field>" for group key parts.
type AggregationPlan struct {
	GroupBy      []string      `json:"groupBy"`
	Accumulators []Accumulator `json:"accumulators"`
	OrderBy      []Order       `json:"orderBy"`
	Limit        int           `json:"limit"`
}

// GroupResult is one aggregation group. Key maps the last segment of each
// GroupBy path to the group's key value (nil for an absent field); Values
// maps accumulator names to computed values.
type GroupResult struct {
	Key    map[string]interface{} `json:"key"`
	Values map[string]interface{} `json:"values"`
}

// LikeDelta is the atomic compound like update: the counter increment and
// the fan-set mutation are applied as one indivisible store operation,
// guarded by a membership precondition so a retried or duplicate request
// cannot double-apply.
type LikeDelta struct {
	UserID string
	// Add increments the counter and inserts UserID into the fan set;
	// otherwise the counter is decremented and UserID removed.
	Add bool
}

// Store is the document-store boundary. The catalog core depends on this
// interface only, never on a concrete backend.
type Store interface {
	// FindOne retrieves a listing by id.
	FindOne(ctx context.Context, id string) (*catalog.Listing, error)

	// Find executes a query and returns matching listings.
	Find(ctx context.Context, q Query) ([]catalog.Listing, error)

	// Exists reports whether a listing with the given id exists.
	Exists(ctx context.Context, id string) (bool, error)

	// Count counts listings matching the predicate.
	Count(ctx context.Context, p Predicate) (int64, error)

	// Insert creates a new listing. Fails with ErrExists on duplicate id.
	Insert(ctx context.Context, l *catalog.Listing) error

	// InsertMany upserts listings in bulk (insert-or-replace by id).
	InsertMany(ctx context.Context, ls []catalog.Listing) error

	// Replace overwrites an existing listing wholesale, carrying the stored
	// like counter and fan set over within the same atomic update.
	// ErrNotFound if absent.
	Replace(ctx context.Context, l *catalog.Listing) error

	// Delete removes a listing by id. ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// DeleteMany removes all listings matching the predicate and returns
	// the deleted count.
	DeleteMany(ctx context.Context, p Predicate) (int64, error)

	// UpdateMany sets fields on every listing matching the predicate and
	// returns the modified count. The like fields are not reachable
	// through this path.
	UpdateMany(ctx context.Context, p Predicate, set map[string]interface{}) (int64, error)

	// ApplyLikeDelta applies the compound like update atomically.
	// ErrNotFound if the listing is absent, ErrPreconditionFailed if the
	// membership precondition did not hold.
	ApplyLikeDelta(ctx context.Context, id string, delta LikeDelta) error

	// HasFan is a store-level containment test of userID in the listing's
	// fan set. ErrNotFound if the listing is absent.
	HasFan(ctx context.Context, id string, userID string) (bool, error)

	// Aggregate executes a grouped aggregation in a single pass.
	Aggregate(ctx context.Context, plan AggregationPlan) ([]GroupResult, error)

	// Close closes the connection to the backend
	Close(ctx context.Context) error
}
