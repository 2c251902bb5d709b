package listings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybase/internal/catalog"
	"staybase/internal/storage"
)

func TestSearchCriteria_Predicate(t *testing.T) {
	// Absent fields contribute no constraint.
	assert.Empty(t, SearchCriteria{}.Predicate())

	maxPrice := catalog.MustMoney("130.00")
	p := SearchCriteria{
		PropertyType:    strPtr("Apartment"),
		MinAccommodates: intPtr(2),
		MaxPrice:        &maxPrice,
		Country:         strPtr("United States"),
	}.Predicate()

	require.Len(t, p, 4)
	assert.Equal(t, storage.Filter{Field: "property_type", Op: storage.OpEq, Value: "Apartment"}, p[0])
	assert.Equal(t, storage.Filter{Field: "accommodates", Op: storage.OpGte, Value: 2}, p[1])
	assert.Equal(t, storage.Filter{Field: "price", Op: storage.OpLte, Value: maxPrice}, p[2])
	assert.Equal(t, storage.Filter{Field: "address.country", Op: storage.OpEq, Value: "United States"}, p[3])
}

func TestFindByCustomCriteria_MaxPrice(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)

	maxPrice := catalog.MustMoney("130.00")
	ls, err := svc.FindByCustomCriteria(context.Background(), SearchCriteria{MaxPrice: &maxPrice})
	require.NoError(t, err)
	require.Len(t, ls, 1)
	assert.Equal(t, "a2", ls[0].ID)
}

func TestFindByCustomCriteria_AllFilters(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)

	maxPrice := catalog.MustMoney("180.00")
	ls, err := svc.FindByCustomCriteria(context.Background(), SearchCriteria{
		PropertyType:    strPtr("Apartment"),
		MinAccommodates: intPtr(3),
		MaxPrice:        &maxPrice,
		Country:         strPtr("United States"),
	})
	require.NoError(t, err)
	require.Len(t, ls, 1)
	assert.Equal(t, "a1", ls[0].ID)
}

func TestFindByCustomCriteria_NoFilters(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)

	// No filter matches everything, ordered by price descending.
	ls, err := svc.FindByCustomCriteria(context.Background(), SearchCriteria{})
	require.NoError(t, err)
	require.Len(t, ls, 3)
	assert.Equal(t, "a3", ls[0].ID)
	assert.Equal(t, "a1", ls[1].ID)
	assert.Equal(t, "a2", ls[2].ID)
}

func TestFindByCustomCriteria_EmptyResult(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)

	ls, err := svc.FindByCustomCriteria(context.Background(), SearchCriteria{
		PropertyType: strPtr("Castle"),
	})
	require.NoError(t, err)
	assert.Empty(t, ls)
}
