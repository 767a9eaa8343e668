package models

// User is identified by the user_id issued by the external identity provider.
// Users are created once and never updated or deleted through the API.
type User struct {
	UserID   string `gorm:"primaryKey;size:128" json:"user_id"`
	FullName string `gorm:"size:255;not null" json:"full_name"`

	// Listings owned by the user. Declaring the has-many here creates the
	// listings.user_id -> users.user_id foreign key.
	Listings []Listing `gorm:"foreignKey:UserID;references:UserID" json:"listings"`
	// SavedListings are the user's bookmarks.
	SavedListings []Saved `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"saved_listings"`
}

// EnsureCollections replaces nil relations with empty slices so they encode as [] instead of null.
func (u *User) EnsureCollections() {
	if u.Listings == nil {
		u.Listings = []Listing{}
	}
	if u.SavedListings == nil {
		u.SavedListings = []Saved{}
	}
}
