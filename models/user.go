package models

import "time"

type User struct {
	UserID    int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname string     `gorm:"column:user_lname" json:"user_lname"`
	Email     string     `gorm:"column:email;unique" json:"email"`
	Password  string     `gorm:"column:password" json:"-"`
	CreateAt  time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	JournalRoles []JournalRole `gorm:"foreignKey:UserID" json:"journal_roles,omitempty"`
}

// TableName specifies the table name for User.
func (User) TableName() string {
	return "users"
}

// Journal role names. Editors and section editors make binding decisions;
// recommend-only participants may record recommendations but never decide.
const (
	RoleEditor        = "editor"
	RoleSectionEditor = "section_editor"
	RoleRecommendOnly = "recommend_only"
	RoleReviewer      = "reviewer"
	RoleAuthor        = "author"
)

// JournalRole grants a user a role on one journal.
type JournalRole struct {
	JournalRoleID int        `gorm:"primaryKey;column:journal_role_id" json:"journal_role_id"`
	JournalID     int        `gorm:"column:journal_id" json:"journal_id"`
	UserID        int        `gorm:"column:user_id" json:"user_id"`
	Role          string     `gorm:"column:role" json:"role"`
	CreateAt      time.Time  `gorm:"column:create_at" json:"create_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName specifies the table name for JournalRole.
func (JournalRole) TableName() string {
	return "journal_roles"
}
