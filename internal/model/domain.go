package model

import "time"

// User is a row of the users table. Password holds either a bcrypt hash or,
// for rows provisioned out of band, the cleartext value.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	UserID   string `json:"user_id"`
	Password string `json:"-"`
}

// Event is one usage record of the api_execution_logs table.
type Event struct {
	ID                int       `json:"id"`
	UserID            string    `json:"user_id"`
	Endpoint          string    `json:"endpoint"`
	ExecutionTime     time.Time `json:"execution_time"`
	DurationMs        int       `json:"duration_ms"`
	ResponseSizeBytes int       `json:"response_size_bytes"`
	StatusCode        int       `json:"status_code"`
}

// Identity is the caller extracted from a verified access token.
type Identity struct {
	Username string `json:"username"`
	UserID   string `json:"user_id"`
}

// UsageInput carries the measured metadata of the call being recorded.
type UsageInput struct {
	Endpoint          string
	DurationMs        int
	ResponseSizeBytes int
	StatusCode        int
}
