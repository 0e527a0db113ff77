package models

import "github.com/mtamaramu/fleet-admin/enums"

type Organization struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// UserOrganization is the raw membership record linking a user to an
// organization, as returned by the UserOrganizationService.
type UserOrganization struct {
	UserID         string     `json:"userId"`
	OrganizationID string     `json:"organizationId"`
	Role           enums.Role `json:"role"`
	IsDefault      bool       `json:"isDefault"`
}

// Membership is a UserOrganization joined with the organization detail, the
// shape the session store keeps and the organization switcher renders.
type Membership struct {
	OrganizationID   string     `json:"organizationId"`
	OrganizationName string     `json:"organizationName"`
	Role             enums.Role `json:"role"`
	IsDefault        bool       `json:"isDefault"`
}
