package domain

// Role is the normalized application role. The backend's role strings are
// mapped to exactly one of these at the session boundary.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// adminRoleName is the backend's representation of the admin role.
const adminRoleName = "ROLE_ADMIN"

// NormalizeRole maps a backend role name to an application role. Anything
// that is not the admin role, including an empty string, is a customer.
func NormalizeRole(roleName string) Role {
	if roleName == adminRoleName {
		return RoleAdmin
	}
	return RoleCustomer
}

// Account is the account record as returned by the accounts service
type Account struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	RoleID   string `json:"roleId"`
	RoleName string `json:"roleName"`
}

// User is the normalized identity held by a session and persisted across
// restarts
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UserFromAccount normalizes an account record into a session identity.
func UserFromAccount(a Account) User {
	return User{
		ID:    a.ID,
		Name:  a.Name,
		Email: a.Email,
		Role:  NormalizeRole(a.RoleName),
	}
}

// AccountSearch holds filter and pagination parameters for the accounts
// search endpoint.
type AccountSearch struct {
	ID       string
	Name     string
	Email    string
	RoleName string
	Page     int
	Size     int
	Sort     []string
}
