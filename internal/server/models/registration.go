package models

// Registration is a new account request.
type Registration struct {
	GivenName  string
	FamilyName string
	UserName   string
	Password   string
}
