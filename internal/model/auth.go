package model

// RoleAdmin is the only role issued today.
const RoleAdmin = "admin"

// User is the authenticated principal carried in tokens.
type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginRequest is the payload for POST /login.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=128"`
}
