package dto

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	RealName string `json:"real_name"`
	Email    string `json:"email"`
}

// LoginResponse is intentionally flat (no envelope); the frontend login page
// reads token and user directly.
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

type ResetPasswordInput struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// UploadResponse is the flat shape returned by POST /upload.
type UploadResponse struct {
	FileType string `json:"file_type"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int    `json:"size"`
}
