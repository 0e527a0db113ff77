package api

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/mtamaramu/fleet-admin/models"
)

type OrganizationAPI struct {
	client *resty.Client
}

func NewOrganizationAPI(client *resty.Client) *OrganizationAPI {
	return &OrganizationAPI{client: client}
}

type getOrganizationRequest struct {
	ID string `json:"id"`
}

type getOrganizationResponse struct {
	Organization *models.Organization `json:"organization"`
}

func (a *OrganizationAPI) Get(ctx context.Context, id string) (*models.Organization, error) {
	var resp getOrganizationResponse
	err := call(ctx, a.client, "OrganizationService", "GetOrganization",
		getOrganizationRequest{ID: id}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Organization == nil {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("organization %s not found", id)}
	}
	return resp.Organization, nil
}

type listOrganizationsRequest struct {
	PageSize int32 `json:"pageSize,omitempty"`
}

type listOrganizationsResponse struct {
	Organizations []models.Organization `json:"organizations"`
}

func (a *OrganizationAPI) List(ctx context.Context, pageSize int32) ([]models.Organization, error) {
	var resp listOrganizationsResponse
	err := call(ctx, a.client, "OrganizationService", "ListOrganizations",
		listOrganizationsRequest{PageSize: pageSize}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Organizations, nil
}

type createOrganizationRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type createOrganizationResponse struct {
	Organization *models.Organization `json:"organization"`
}

func (a *OrganizationAPI) Create(ctx context.Context, name string) (*models.Organization, error) {
	req := createOrganizationRequest{Name: name}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid organization: %w", err)
	}

	var resp createOrganizationResponse
	if err := call(ctx, a.client, "OrganizationService", "CreateOrganization", req, &resp); err != nil {
		return nil, err
	}
	return resp.Organization, nil
}

type deleteOrganizationRequest struct {
	ID string `json:"id"`
}

func (a *OrganizationAPI) Delete(ctx context.Context, id string) error {
	return call(ctx, a.client, "OrganizationService", "DeleteOrganization",
		deleteOrganizationRequest{ID: id}, nil)
}
