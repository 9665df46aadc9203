package domain

const (
	RoleOperator = "Operator"
	RoleManager  = "Manager"
)

// User models an authenticated actor in the system.
type User struct {
	ID     string `json:"id" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Role   string `json:"role" validate:"required"`
	Avatar string `json:"avatar,omitempty"`
}
