package store

import (
	"github.com/diewo77/listings-api/internal/models"
	"gorm.io/gorm"
)

func (s *Store) FindUser(userID string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("user_id = ?", userID).First(&u).Error; err != nil {
		return nil, wrap("find user", err)
	}
	return &u, nil
}

// FindUserWithRelations loads the user together with owned listings and bookmarks.
func (s *Store) FindUserWithRelations(userID string) (*models.User, error) {
	var u models.User
	err := s.db.
		Preload("Listings", func(db *gorm.DB) *gorm.DB { return db.Order("listings.id") }).
		Preload("SavedListings", func(db *gorm.DB) *gorm.DB { return db.Order("saved.saved_id") }).
		Where("user_id = ?", userID).
		First(&u).Error
	if err != nil {
		return nil, wrap("find user", err)
	}
	u.EnsureCollections()
	return &u, nil
}

// CreateUser inserts a user. It does not check for an existing user_id; a
// collision surfaces as ErrDuplicate.
func (s *Store) CreateUser(userID, fullName string) (*models.User, error) {
	u := models.User{UserID: userID, FullName: fullName}
	if err := s.db.Create(&u).Error; err != nil {
		return nil, wrap("create user", err)
	}
	u.EnsureCollections()
	return &u, nil
}
