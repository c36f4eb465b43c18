package domain

import "time"

// SysUser is an account in the local identity store. Password holds a
// bcrypt hash and is never serialized.
type SysUser struct {
	ID         int64     `json:"id,string" form:"id"`
	Username   string    `gorm:"size:150;uniqueIndex" json:"username" form:"username"`
	Email      string    `gorm:"size:254;index" json:"email" form:"email"`
	FirstName  string    `gorm:"size:150" json:"first_name" form:"first_name"`
	LastName   string    `gorm:"size:150" json:"last_name" form:"last_name"`
	Password   string    `json:"-" form:"-"`
	DateJoined time.Time `json:"date_joined"`
	LastLogin  time.Time `json:"last_login"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName Specify table name
func (SysUser) TableName() string {
	return "sys_user"
}
