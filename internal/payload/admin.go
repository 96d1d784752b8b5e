package payload

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"current_password"     validate:"required"`
	NewPassword        string `json:"new_password"         validate:"required"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required,eqfield=NewPassword"`
}

type DashboardResponse struct {
	Username string `json:"username"`
}
