package listings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybase/internal/catalog"
	"staybase/internal/storage"
)

func TestFindAll_OrderedByID(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)

	ls, err := svc.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, ls, 3)
	assert.Equal(t, "a1", ls[0].ID)
	assert.Equal(t, "a2", ls[1].ID)
	assert.Equal(t, "a3", ls[2].ID)
}

func TestFindAllPaginated(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)

	page, err := svc.FindAllPaginated(context.Background(), 0, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, "a1", page.Items[0].ID)

	page, err = svc.FindAllPaginated(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "a3", page.Items[0].ID)

	// A page beyond the data is empty, not an error.
	page, err = svc.FindAllPaginated(context.Background(), 5, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(3), page.Total)
}

func TestFindAllPaginated_InvalidArgs(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.FindAllPaginated(context.Background(), -1, 10)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.FindAllPaginated(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFindWithReviews(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)

	page, err := svc.FindWithReviews(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "a1", page.Items[0].ID)
	assert.Equal(t, "a3", page.Items[1].ID)
	assert.Equal(t, int64(2), page.Total)
}

func TestFindByID(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)

	l, err := svc.FindByID(context.Background(), "a2")
	require.NoError(t, err)
	assert.Equal(t, "Brooklyn Loft Studio", l.Name)

	_, err = svc.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = svc.FindByID(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestExistsByID(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)

	ok, err := svc.ExistsByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ExistsByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreate_AssignsIDs(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), &catalog.Listing{
		Name:    "New Place",
		Reviews: []catalog.Review{{Comments: "nice"}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.Reviews[0].ID)

	stored, err := svc.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Place", stored.Name)
}

func TestCreate_Invalid(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), &catalog.Listing{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Counter and fan set must arrive consistent.
	_, err = svc.Create(context.Background(), &catalog.Listing{
		Name:  "Bad Likes",
		Likes: 3,
		Fans:  []string{"u1"},
	})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreate_DuplicateID(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)

	_, err := svc.Create(context.Background(), &catalog.Listing{ID: "a1", Name: "Dup"})
	assert.ErrorIs(t, err, storage.ErrExists)
}

func TestReplace_PreservesLikeState(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)
	require.NoError(t, svc.AddLike(context.Background(), "a1", "u1"))

	_, err := svc.Replace(context.Background(), &catalog.Listing{
		ID:   "a1",
		Name: "Renamed Apartment",
	})
	require.NoError(t, err)

	stored, err := svc.FindByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed Apartment", stored.Name)
	assert.Equal(t, int64(1), stored.Likes)
	assert.Equal(t, []string{"u1"}, stored.Fans)
}

func TestReplace_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Replace(context.Background(), &catalog.Listing{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteByID(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)

	require.NoError(t, svc.DeleteByID(context.Background(), "a1"))
	_, err := svc.FindByID(context.Background(), "a1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteByID(context.Background(), "a1"), storage.ErrNotFound)
}

func TestSaveAll(t *testing.T) {
	svc, _ := newTestService(t)

	ls := testListings()
	ls[0].Name = "Overwritten"
	require.NoError(t, svc.SaveAll(context.Background(), ls))

	// Upsert semantics: saving again replaces, never duplicates.
	require.NoError(t, svc.SaveAll(context.Background(), testListings()))

	all, err := svc.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "Cozy Manhattan Apartment", all[0].Name)
}

func TestSaveAll_RejectsInconsistentLikeState(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.SaveAll(context.Background(), []catalog.Listing{
		{Name: "ok"},
		{Name: "bad", Likes: 1},
	})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDeleteByPropertyType(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)

	n, err := svc.DeleteByPropertyType(context.Background(), "Apartment")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.DeleteByPropertyType(context.Background(), "Castle")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSimpleFinders(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)
	ctx := context.Background()

	ls, err := svc.FindByPropertyType(ctx, "Loft")
	require.NoError(t, err)
	require.Len(t, ls, 1)
	assert.Equal(t, "a2", ls[0].ID)

	ls, err = svc.FindByRoomType(ctx, "Entire home/apt")
	require.NoError(t, err)
	assert.Len(t, ls, 2)

	ls, err = svc.FindByHostName(ctx, "Sarah Johnson")
	require.NoError(t, err)
	assert.Len(t, ls, 2)

	ls, err = svc.FindByMarket(ctx, "Barcelona")
	require.NoError(t, err)
	require.Len(t, ls, 1)
	assert.Equal(t, "a3", ls[0].ID)

	ls, err = svc.FindByCountry(ctx, "United States")
	require.NoError(t, err)
	assert.Len(t, ls, 2)

	ls, err = svc.FindByMinimumNights(ctx, "3")
	require.NoError(t, err)
	require.Len(t, ls, 1)
	assert.Equal(t, "a2", ls[0].ID)

	_, err = svc.FindByPropertyType(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFindSuperhostListings(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)

	ls, err := svc.FindSuperhostListings(context.Background())
	require.NoError(t, err)
	require.Len(t, ls, 1)
	assert.Equal(t, "a1", ls[0].ID)
}

func TestFindAvailable(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)

	ls, err := svc.FindAvailable(context.Background())
	require.NoError(t, err)
	require.Len(t, ls, 2)
	assert.Equal(t, "a1", ls[0].ID)
	assert.Equal(t, "a3", ls[1].ID)
}

func TestFindByPriceRange(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)

	ls, err := svc.FindByPriceRange(context.Background(),
		catalog.MustMoney("120.00"), catalog.MustMoney("150.00"))
	require.NoError(t, err)
	require.Len(t, ls, 2)
	// Ordered by price ascending; both bounds are inclusive.
	assert.Equal(t, "a2", ls[0].ID)
	assert.Equal(t, "a1", ls[1].ID)

	_, err = svc.FindByPriceRange(context.Background(),
		catalog.MustMoney("200"), catalog.MustMoney("100"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSearchByText(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)

	// Case-insensitive containment over name, description and
	// neighborhood overview.
	ls, err := svc.SearchByText(context.Background(), "LOFT")
	require.NoError(t, err)
	require.Len(t, ls, 1)
	assert.Equal(t, "a2", ls[0].ID)

	ls, err = svc.SearchByText(context.Background(), "restaurants")
	require.NoError(t, err)
	require.Len(t, ls, 1)
	assert.Equal(t, "a1", ls[0].ID)

	ls, err = svc.SearchByText(context.Background(), "no such phrase anywhere")
	require.NoError(t, err)
	assert.Empty(t, ls)

	_, err = svc.SearchByText(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUpdatePriceByPropertyType(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)

	n, err := svc.UpdatePriceByPropertyType(context.Background(), "Apartment", catalog.MustMoney("175.00"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	l, err := svc.FindByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, 0, l.Price.Cmp(catalog.MustMoney("175.00")))

	_, err = svc.UpdatePriceByPropertyType(context.Background(), "Apartment", catalog.MustMoney("-1"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUpdateHostResponseTime(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)

	n, err := svc.UpdateHostResponseTime(context.Background(), "host001", "within a day")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	for _, id := range []string{"a1", "a3"} {
		l, err := svc.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "within a day", l.Host.HostResponseTime)
	}
}

func TestOpContext_RespectsCallerDeadline(t *testing.T) {
	svc, _ := newTestService(t, testListings()...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.FindAll(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}
