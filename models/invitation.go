package models

import "github.com/mtamaramu/fleet-admin/enums"

type Invitation struct {
	ID             string                 `json:"id"`
	OrganizationID string                 `json:"organizationId"`
	Email          string                 `json:"email"`
	Role           enums.Role             `json:"role"`
	Status         enums.InvitationStatus `json:"status"`
	Token          string                 `json:"token"`
	CreatedAt      string                 `json:"createdAt,omitempty"`
	ExpiresAt      string                 `json:"expiresAt,omitempty"`
}
