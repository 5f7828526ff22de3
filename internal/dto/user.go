package dto

// UserListRequest GET /users
type UserListRequest struct {
	Role string `form:"role" binding:"omitempty,oneof=student faculty committee"`
	PaginationRequest
}

// UserResponse user directory entry
type UserResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	RollNumber string `json:"roll_number,omitempty"`
	Department string `json:"department,omitempty"`
}
