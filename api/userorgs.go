package api

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/mtamaramu/fleet-admin/models"
)

type UserOrganizationAPI struct {
	client *resty.Client
}

func NewUserOrganizationAPI(client *resty.Client) *UserOrganizationAPI {
	return &UserOrganizationAPI{client: client}
}

type listUserOrganizationsByUserRequest struct {
	UserID string `json:"userId"`
}

type listUserOrganizationsByUserResponse struct {
	UserOrganizations []models.UserOrganization `json:"userOrganizations"`
}

// ListByUser returns the raw membership records for a user.
func (a *UserOrganizationAPI) ListByUser(ctx context.Context, userID string) ([]models.UserOrganization, error) {
	var resp listUserOrganizationsByUserResponse
	err := call(ctx, a.client, "UserOrganizationService", "ListUserOrganizationsByUser",
		listUserOrganizationsByUserRequest{UserID: userID}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.UserOrganizations, nil
}
