package domain

// Credentials is the email/password pair submitted by the sign-up and
// sign-in forms. Values are sent as typed; nothing is validated client-side.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
