package responses

import "time"

type Login struct {
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName,omitempty"`
}
