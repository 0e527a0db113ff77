package models

// AppUser is the identity carried by the console session. It is derived from
// the access token's claims, never fetched separately.
type AppUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IsSuperadmin bool   `json:"isSuperadmin"`
}
