package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleCustomer     UserRole = "customer"
	RoleEventCompany UserRole = "event_company"
	RoleCaterer      UserRole = "caterer"
	RoleTransport    UserRole = "transport"
	RolePhotographer UserRole = "photographer"
	RoleFreelancer   UserRole = "freelancer"
	RoleJobseeker    UserRole = "jobseeker"
	RoleAdmin        UserRole = "admin"
)

// CompanyRoles are the provider roles targeted when a bid request asks for a
// whole team.
var CompanyRoles = []UserRole{RoleEventCompany, RoleCaterer, RoleTransport, RolePhotographer}

// ProviderRoles are all roles allowed to bid on requests and receive bookings.
var ProviderRoles = []UserRole{RoleEventCompany, RoleCaterer, RoleTransport, RolePhotographer, RoleFreelancer}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	FullName     string   `json:"full_name" gorm:"size:255;not null"`
	Email        string   `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"size:255;not null"`
	Role         UserRole `json:"role" gorm:"type:varchar(20);not null;default:'customer'"`
	// Categories lists the event types an event company serves, used when
	// matching providers to new bid requests.
	Categories []string  `json:"categories" gorm:"serializer:json"`
	Approved   bool      `json:"approved" gorm:"default:false"`
	IsActive   bool      `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	// Customers and jobseekers do not go through manual vetting
	if u.Role == RoleCustomer || u.Role == RoleJobseeker {
		u.Approved = true
	}
	return nil
}

// IsValidRole checks if the user role is valid
func (u *User) IsValidRole() bool {
	switch u.Role {
	case RoleCustomer, RoleEventCompany, RoleCaterer, RoleTransport,
		RolePhotographer, RoleFreelancer, RoleJobseeker, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsProvider checks if the user can offer services
func (u *User) IsProvider() bool {
	for _, r := range ProviderRoles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// IsCustomer checks if the user is a customer
func (u *User) IsCustomer() bool {
	return u.Role == RoleCustomer
}

// HasCategory reports whether the provider declared the given event type
func (u *User) HasCategory(eventType string) bool {
	for _, c := range u.Categories {
		if c == eventType {
			return true
		}
	}
	return false
}
