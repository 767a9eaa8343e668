package store

import (
	"errors"

	"github.com/diewo77/listings-api/internal/models"
	"go.uber.org/zap"
)

// ListListings returns every listing in insertion order.
func (s *Store) ListListings() ([]models.Listing, error) {
	listings := []models.Listing{}
	if err := s.db.Order("id").Find(&listings).Error; err != nil {
		return nil, wrap("list listings", err)
	}
	return listings, nil
}

// ListListingsByUser returns the listings owned by userID in insertion order.
func (s *Store) ListListingsByUser(userID string) ([]models.Listing, error) {
	listings := []models.Listing{}
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&listings).Error; err != nil {
		return nil, wrap("list listings by user", err)
	}
	return listings, nil
}

func (s *Store) FindListing(id uint) (*models.Listing, error) {
	var l models.Listing
	if err := s.db.First(&l, id).Error; err != nil {
		return nil, wrap("find listing", err)
	}
	return &l, nil
}

// CreateListing inserts l and sets l.ID.
func (s *Store) CreateListing(l *models.Listing) error {
	l.ID = 0
	return wrap("create listing", s.db.Create(l).Error)
}

// UpdateListing overwrites every field of listing id. No row is created when
// id does not exist.
func (s *Store) UpdateListing(id uint, fields models.ListingFields) (*models.Listing, error) {
	l, err := s.FindListing(id)
	if err != nil {
		return nil, err
	}
	l.ListingFields = fields
	// Select("*") writes zero values too; Save would fall back to an insert
	// if the row vanished in between.
	res := s.db.Model(l).Select("*").Updates(l)
	if res.Error != nil {
		return nil, wrap("update listing", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, wrap("update listing", ErrNotFound)
	}
	return l, nil
}

// DeleteListing removes listing id and returns its last values.
func (s *Store) DeleteListing(id uint) (*models.Listing, error) {
	s.log.Debug("looking up listing for deletion", zap.Uint("listing_id", id))
	l, err := s.FindListing(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Warn("listing not found for deletion", zap.Uint("listing_id", id))
		} else {
			s.log.Error("listing lookup failed", zap.Uint("listing_id", id), zap.Error(err))
		}
		return nil, err
	}
	if err := s.db.Delete(l).Error; err != nil {
		s.log.Error("listing deletion failed", zap.Uint("listing_id", id), zap.Error(err))
		return nil, wrap("delete listing", err)
	}
	s.log.Info("listing deleted", zap.Uint("listing_id", id))
	return l, nil
}
