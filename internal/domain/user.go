package domain

import "time"

// Role is the authorization role carried in the auth token.
type Role string

const (
	RoleUser    Role = "user"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// User represents a platform user. Registration and password handling live
// outside the core; the core reads profiles and mutates QuizPoints.
type User struct {
	ID         string
	Name       string
	Email      string
	IsAdmin    bool
	Role       Role
	QuizPoints int
	// Extra carries free-form document fields that the core never relies on.
	Extra     map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Caller is the authenticated identity attached to a request.
type Caller struct {
	ID   string
	Role Role
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	QuizPoints int    `json:"quiz_points"`
}
