package domain

import "time"

// UserRole defines the role a user holds within their company.
type UserRole string

const (
	RoleUser       UserRole = "USER"
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
)

// AuthProvider identifies how a user authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User represents a user of the application in the domain.
// A user belongs to exactly one company; SUPER_ADMIN users can read across
// companies but their row still carries the company that provisioned them.
type User struct {
	UserID       string   `json:"userID" db:"user_id"`
	CompanyID    string   `json:"companyID" db:"company_id"`
	Username     string   `json:"username" db:"username"`
	Email        string   `json:"email" db:"email"`
	Name         string   `json:"name" db:"name"`
	Role         UserRole `json:"role" db:"role"`
	PasswordHash string   `json:"-" db:"password_hash"`

	AuthProvider   AuthProvider `json:"-" db:"auth_provider"`
	ProviderUserID string       `json:"-" db:"provider_user_id"`
	EmailVerified  bool         `json:"-" db:"email_verified"`

	RefreshTokenHash       string     `json:"-" db:"refresh_token_hash"`
	RefreshTokenExpiryTime *time.Time `json:"-" db:"refresh_token_expiry_time"`

	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// IsSuperAdmin reports whether the user holds the cross-company role.
func (u User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// IsAdmin reports whether the user administers their own company.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// GoogleUserInfo holds the user fields returned by Google's userinfo endpoint.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
