package model

type Venue struct {
	DTO
	Name        string `gorm:"size:150;not null" json:"name"`
	Slug        string `gorm:"size:170;uniqueIndex;not null" json:"slug"`
	Address     string `gorm:"size:255;not null" json:"address"`
	City        string `gorm:"size:100;index" json:"city"`
	Capacity    int    `gorm:"not null" json:"capacity"`
	OrganizerId uint   `gorm:"index" json:"organizerId"`
	Organizer   *User  `gorm:"foreignKey:OrganizerId" json:"organizer,omitempty"`
}

type VenueInput struct {
	Name     string `json:"name" validate:"required,min=2,max=150"`
	Address  string `json:"address" validate:"required,max=255"`
	City     string `json:"city" validate:"required,max=100"`
	Capacity int    `json:"capacity" validate:"required,gt=0"`
}

type FilterVenueInput struct {
	Pagination
	SearchKey string `query:"searchKey"`
	City      string `query:"city"`
}
