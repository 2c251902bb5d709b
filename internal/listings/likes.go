package listings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"staybase/internal/storage"
)

// The like state machine per (listing, user) pair has two states, NOT_LIKED
// and LIKED. AddLike and RemoveLike are its only transitions; each is one
// atomic compound store update so likes == len(fans) can never be observed
// broken, even when distinct users race on the same listing. A retried call
// whose first attempt did apply hits the membership precondition and
// reports the state error instead of double-applying.

// AddLike transitions (listingID, userID) from NOT_LIKED to LIKED:
// increment the counter and insert the user into the fan set in one
// indivisible operation. ErrAlreadyLiked when already in LIKED;
// storage.ErrNotFound when the listing is absent.
func (s *Service) AddLike(ctx context.Context, listingID, userID string) error {
	if err := validateLikeArgs(listingID, userID); err != nil {
		return err
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	err := s.store.ApplyLikeDelta(ctx, listingID, storage.LikeDelta{UserID: userID, Add: true})
	if errors.Is(err, storage.ErrPreconditionFailed) {
		return fmt.Errorf("%w: listing %s, user %s", ErrAlreadyLiked, listingID, userID)
	}
	if err != nil {
		return err
	}
	slog.Debug("like added", "listing_id", listingID, "user_id", userID)
	return nil
}

// RemoveLike transitions (listingID, userID) from LIKED to NOT_LIKED,
// symmetric to AddLike. ErrNotLiked when the user is not a fan.
func (s *Service) RemoveLike(ctx context.Context, listingID, userID string) error {
	if err := validateLikeArgs(listingID, userID); err != nil {
		return err
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	err := s.store.ApplyLikeDelta(ctx, listingID, storage.LikeDelta{UserID: userID, Add: false})
	if errors.Is(err, storage.ErrPreconditionFailed) {
		return fmt.Errorf("%w: listing %s, user %s", ErrNotLiked, listingID, userID)
	}
	if err != nil {
		return err
	}
	slog.Debug("like removed", "listing_id", listingID, "user_id", userID)
	return nil
}

// GetLikeCount reads the counter. A missing listing is storage.ErrNotFound,
// distinct from a zero count. An observed counter / fan-set mismatch is a
// defect and surfaces as ErrInconsistent rather than being repaired.
func (s *Service) GetLikeCount(ctx context.Context, listingID string) (int64, error) {
	if listingID == "" {
		return 0, fmt.Errorf("%w: empty listing id", ErrInvalidArgument)
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	l, err := s.store.FindOne(ctx, listingID)
	if err != nil {
		return 0, err
	}
	if l.Likes != int64(len(l.Fans)) {
		return 0, fmt.Errorf("%w: listing %s has counter %d but %d fans",
			ErrInconsistent, listingID, l.Likes, len(l.Fans))
	}
	return l.Likes, nil
}

// HasLiked is a store-level membership test against the fan set; it never
// fetches the whole set.
func (s *Service) HasLiked(ctx context.Context, listingID, userID string) (bool, error) {
	if err := validateLikeArgs(listingID, userID); err != nil {
		return false, err
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.store.HasFan(ctx, listingID, userID)
}

func validateLikeArgs(listingID, userID string) error {
	if listingID == "" {
		return fmt.Errorf("%w: empty listing id", ErrInvalidArgument)
	}
	if userID == "" {
		return fmt.Errorf("%w: empty user id", ErrInvalidArgument)
	}
	return nil
}
