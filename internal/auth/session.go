package auth

// SessionData represents the authenticated session context for a request
type SessionData struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}
