package users

const (
	TopicPasswordReset = "user.password.reset"

	EventPasswordResetRequested = "PasswordResetRequested"
)

type PasswordResetRequestedPayload struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	ResetURL string `json:"reset_url"`
}
