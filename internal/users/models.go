package users

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Gender    string    `json:"gender"`
	Role      string    `json:"role"`
	Address   Address   `json:"address"`
	CreatedAt time.Time `json:"createdAt"`

	// bcrypt hash; never serialized
	PasswordHash string `json:"-"`
}
