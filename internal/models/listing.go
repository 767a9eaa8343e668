package models

// ListingFields is every client-supplied attribute of a listing. An update
// replaces all of them at once.
type ListingFields struct {
	Title       string  `gorm:"size:255;not null" json:"title"`
	Price       string  `gorm:"size:64;not null" json:"price"`
	Address     string  `gorm:"size:500;not null" json:"address"`
	Description string  `gorm:"type:text;not null" json:"description"`
	ImageURI    *string `gorm:"size:1024" json:"image_uri"`

	// UserID is the owner; UserFullName is a copy of the owner's name taken at write time.
	UserID       string `gorm:"size:128;not null;index" json:"user_id"`
	UserFullName string `gorm:"size:255;not null" json:"user_full_name"`

	// Property attributes. Free-form strings except Parking.
	Area             string `gorm:"size:64;not null" json:"area"`
	Bedrooms         string `gorm:"size:32;not null" json:"bedrooms"`
	Bathrooms        string `gorm:"size:32;not null" json:"bathrooms"`
	Stories          string `gorm:"size:32;not null" json:"stories"`
	MainRoad         string `gorm:"column:mainroad;size:32;not null" json:"mainroad"`
	GuestRoom        string `gorm:"column:guestroom;size:32;not null" json:"guestroom"`
	FurnishingStatus string `gorm:"size:64;not null" json:"furnishing_status"`
	Basement         string `gorm:"size:32;not null" json:"basement"`
	HotWaterHeating  string `gorm:"size:32;not null" json:"hot_water_heating"`
	AirConditioning  string `gorm:"size:32;not null" json:"air_conditioning"`
	Parking          int    `gorm:"not null" json:"parking"`
	PreferredArea    string `gorm:"size:64;not null" json:"preferred_area"`
}

// Listing is a property record. The id is assigned by the store.
type Listing struct {
	ID uint `gorm:"primaryKey" json:"id"`
	ListingFields
}

// HasImage reports whether an image reference is set.
func (l *Listing) HasImage() bool {
	return l.ImageURI != nil && *l.ImageURI != ""
}
