package models

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           int64  `json:"iduser"`
	GivenName    string `json:"nombre"`
	FamilyName   string `json:"apellido"`
	UserName     string `json:"username"`
	PasswordHash string `json:"-"`
}
