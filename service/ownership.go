package service

import (
	"sort"

	"gorm.io/gorm"

	"github.com/Psychotichub/report/models"
)

// OwnedUsers returns the accounts inside a manager's creation tree: direct
// reports plus accounts created by admins the manager created. Two explicit
// stages, never a recursive walk — the role model admits no deeper forest,
// and keeping it as two queries enforces that structurally.
func OwnedUsers(db *gorm.DB, managerID uint) ([]models.User, error) {
	var direct []models.User
	if err := db.Where("created_by_id = ?", managerID).Find(&direct).Error; err != nil {
		return nil, err
	}

	var adminIDs []uint
	for _, u := range direct {
		if u.Role == models.RoleAdmin {
			adminIDs = append(adminIDs, u.ID)
		}
	}

	if len(adminIDs) == 0 {
		return direct, nil
	}

	var second []models.User
	if err := db.Where("created_by_id IN ?", adminIDs).Find(&second).Error; err != nil {
		return nil, err
	}
	return append(direct, second...), nil
}

// OwnedUsernames is the visibility set for a manager: their own username plus
// every username in their creation tree. Lookup failures degrade to the
// manager alone — errors must narrow access, never widen it.
func OwnedUsernames(db *gorm.DB, managerID uint, managerUsername string) []string {
	users, err := OwnedUsers(db, managerID)
	if err != nil {
		return []string{managerUsername}
	}

	seen := map[string]bool{managerUsername: true}
	for _, u := range users {
		seen[u.Username] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
