package domain

// SessionKey is the fixed key the session token is stored under.
const SessionKey = "sessionId"

// Session is the session token issued by the auth service.
type Session struct {
	ID string `json:"sessionId"`
}

// Short returns a display form of the token: the first 8 runes followed by
// an ellipsis, or the whole token if it is short.
func (s Session) Short() string {
	r := []rune(s.ID)
	if len(r) <= 8 {
		return s.ID
	}
	return string(r[:8]) + "…"
}
