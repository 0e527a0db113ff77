package models

type Car struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	PlateNumber    string `json:"plateNumber"`
	Maker          string `json:"maker"`
	Model          string `json:"model"`
	Year           int32  `json:"year"`
}
