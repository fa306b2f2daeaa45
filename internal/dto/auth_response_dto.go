package dto

// LoginRequest defines the credentials for the member panel login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	MemberID string `json:"memberID"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	Token    string `json:"token"`
}

// RegisterMemberResponse is returned after a successful placement.
type RegisterMemberResponse struct {
	Member MemberResponse `json:"member"`
}
