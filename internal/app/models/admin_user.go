package models

// AdminUser is the practice staff member the login webhook authenticated.
type AdminUser struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
	Role        string `json:"role,omitempty"`
}
