package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// User permissions
	PermissionTransactionRead  = "transaction:read"
	PermissionTransactionWrite = "transaction:write"
	PermissionChangePassword   = "user:change-password"
	PermissionUserRead         = "user:read"
	PermissionUserWrite        = "user:write"

	// Compliance permissions
	PermissionComplianceRead  = "compliance:read"
	PermissionComplianceWrite = "compliance:write"
	PermissionRuleManage      = "compliance:rules"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case "admin":
		return []string{
			PermissionTransactionRead,
			PermissionTransactionWrite,
			PermissionUserRead,
			PermissionUserWrite,
			PermissionChangePassword,
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionComplianceRead,
			PermissionComplianceWrite,
			PermissionRuleManage,
		}
	case "compliance":
		return []string{
			PermissionTransactionRead,
			PermissionUserRead,
			PermissionChangePassword,
			PermissionComplianceRead,
			PermissionComplianceWrite,
		}
	case "user":
		return []string{
			PermissionTransactionRead,
			PermissionTransactionWrite,
			PermissionUserRead,
			PermissionChangePassword,
		}
	default:
		return []string{}
	}
}
