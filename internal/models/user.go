// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package models

import "time"

// Status is the account status of a user.
type Status string

const (
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusBlocked
}

// ParseStatus returns the status named by s. Unknown values, including the
// "all" filter option, yield the empty status.
func ParseStatus(s string) Status {
	if st := Status(s); st.Valid() {
		return st
	}
	return ""
}

// Role is the platform role of a user.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleOwner:
		return true
	}
	return false
}

// CanAdminister reports whether the role may use the admin dashboard.
func (r Role) CanAdminister() bool {
	return r == RoleAdmin || r == RoleOwner
}

// Admin is a row of the admins listing.
type Admin struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Avatar    string    `json:"avatar,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsBlocked reports whether the admin is blocked.
func (a Admin) IsBlocked() bool {
	return a.Status == StatusBlocked
}

// User is the signed-in principal returned by GET /users/me.
type User struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
}

// Initial returns the upper-cased first letter of the user's name, used as
// the avatar fallback.
func (u User) Initial() string {
	for _, r := range u.FullName {
		return string([]rune{toUpper(r)})
	}
	return "?"
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

// CreateAdminPayload is the body of POST /users/admin.
type CreateAdminPayload struct {
	FullName string `json:"fullName" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
}

// UpdateAdminPayload is the body of PUT /users/admins.
type UpdateAdminPayload struct {
	AdminID  string `json:"adminId" validate:"required"`
	FullName string `json:"fullName" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
}

// CreateMemberPayload is the body of POST /users/member.
type CreateMemberPayload struct {
	FullName string `json:"fullName" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
}

// SignInPayload is the body of the admin and member sign-in endpoints.
type SignInPayload struct {
	Email string `json:"email" validate:"required,email"`
}

// AdminIDPayload is the body of the block and unblock endpoints.
type AdminIDPayload struct {
	AdminID string `json:"adminId"`
}
