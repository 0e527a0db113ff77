package api

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/mtamaramu/fleet-admin/models"
)

type UserAPI struct {
	client *resty.Client
}

func NewUserAPI(client *resty.Client) *UserAPI {
	return &UserAPI{client: client}
}

type listUsersRequest struct {
	PageSize int32 `json:"pageSize,omitempty"`
}

type listUsersResponse struct {
	Users []models.AppUser `json:"users"`
}

func (a *UserAPI) List(ctx context.Context, pageSize int32) ([]models.AppUser, error) {
	var resp listUsersResponse
	err := call(ctx, a.client, "UserService", "ListUsers",
		listUsersRequest{PageSize: pageSize}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Users, nil
}
