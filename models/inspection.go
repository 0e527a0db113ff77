package models

import "github.com/mtamaramu/fleet-admin/enums"

type Inspection struct {
	ID             string                 `json:"id"`
	OrganizationID string                 `json:"organizationId"`
	CarID          string                 `json:"carId"`
	Status         enums.InspectionStatus `json:"status"`
	ScheduledAt    string                 `json:"scheduledAt,omitempty"`
	CompletedAt    string                 `json:"completedAt,omitempty"`
}
