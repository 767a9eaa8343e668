package store

import (
	"github.com/diewo77/listings-api/internal/models"
	"go.uber.org/zap"
)

// ListSavedForUser returns the user's bookmarks with their listings loaded.
func (s *Store) ListSavedForUser(userID string) ([]models.Saved, error) {
	saved := []models.Saved{}
	err := s.db.Preload("Listing").
		Where("user_id = ?", userID).
		Order("saved_id").
		Find(&saved).Error
	if err != nil {
		return nil, wrap("list saved", err)
	}
	return saved, nil
}

func (s *Store) FindSaved(userID string, listingID uint) (*models.Saved, error) {
	var sv models.Saved
	if err := s.db.Where("user_id = ? AND listing_id = ?", userID, listingID).First(&sv).Error; err != nil {
		return nil, wrap("find saved", err)
	}
	return &sv, nil
}

// SaveListing inserts a bookmark without checking that the user or listing
// exist. A repeated (user, listing) pair surfaces as ErrDuplicate.
func (s *Store) SaveListing(userID string, listingID uint) (*models.Saved, error) {
	sv := models.Saved{UserID: userID, ListingID: listingID}
	if err := s.db.Create(&sv).Error; err != nil {
		return nil, wrap("save listing", err)
	}
	return &sv, nil
}

// DeleteSaved removes the bookmark matching both userID and listingID.
func (s *Store) DeleteSaved(userID string, listingID uint) (*models.Saved, error) {
	sv, err := s.FindSaved(userID, listingID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Delete(sv).Error; err != nil {
		return nil, wrap("delete saved", err)
	}
	s.log.Info("saved listing deleted", zap.String("user_id", userID), zap.Uint("listing_id", listingID))
	return sv, nil
}
