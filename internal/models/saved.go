package models

// Saved is a bookmark linking a user to a listing. A user can bookmark a
// given listing at most once (idx_saved_user_listing).
type Saved struct {
	SavedID   uint   `gorm:"primaryKey" json:"saved_id"`
	UserID    string `gorm:"size:128;not null;uniqueIndex:idx_saved_user_listing" json:"user_id"`
	ListingID uint   `gorm:"not null;uniqueIndex:idx_saved_user_listing;index" json:"listing_id"`

	// Bookmarks go away with their listing.
	Listing *Listing `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"listing,omitempty"`
}

func (Saved) TableName() string { return "saved" }
