package models

type StoredFile struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`
	ContentType    string `json:"contentType"`
	Size           int64  `json:"size"`
	UploadedAt     string `json:"uploadedAt,omitempty"`
}
