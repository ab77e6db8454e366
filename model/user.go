package model

type User struct {
	DTO
	Name     string  `gorm:"size:100;not null" json:"name"`
	Email    string  `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Phone    *string `gorm:"size:20;uniqueIndex" json:"phone"`
	Password string  `gorm:"not null" json:"-"`
	Role     string  `gorm:"size:20;not null;index" json:"role"`
	IsActive bool    `gorm:"not null" json:"isActive"`
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,e164|numeric"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileInput struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone *string `json:"phone" validate:"omitempty,e164|numeric"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

type UpdateUserRoleInput struct {
	Role string `json:"role" validate:"required,oneof=ADMIN ORGANIZER USER"`
}

type UpdateUserActiveInput struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type FilterUserInput struct {
	Pagination
	SearchKey string `query:"searchKey"`
	Role      string `query:"role" validate:"omitempty,oneof=ADMIN ORGANIZER USER"`
}
