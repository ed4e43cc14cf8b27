package models

import "time"

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// User lives in the main database. Site users are unique per (site, company);
// manager and admin usernames are unique globally. Both constraints are
// partial indexes so the two populations don't collide.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:120;index:uniq_staff_username,unique,where:role <> 'user';index:uniq_site_username,unique,where:role = 'user'" json:"username"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Role         string `gorm:"size:20;default:user" json:"role"`
	Site         string `gorm:"size:120;index:uniq_site_username,unique" json:"site"`
	Company      string `gorm:"size:120;index:uniq_site_username,unique" json:"company"`

	// Creator snapshot; forms the two-level forest walked by the
	// ownership resolver (manager -> admin -> user).
	CreatedByID       *uint  `gorm:"index" json:"createdById"`
	CreatedByUsername string `gorm:"size:120" json:"createdByUsername"`
	CreatedByRole     string `gorm:"size:20" json:"createdByRole"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
