package api

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/mtamaramu/fleet-admin/models"
)

type InspectionAPI struct {
	client *resty.Client
}

func NewInspectionAPI(client *resty.Client) *InspectionAPI {
	return &InspectionAPI{client: client}
}

type listInspectionsRequest struct {
	CarID    string `json:"carId,omitempty"`
	PageSize int32  `json:"pageSize,omitempty"`
}

type listInspectionsResponse struct {
	Inspections []models.Inspection `json:"inspections"`
}

func (a *InspectionAPI) List(ctx context.Context, carID string, pageSize int32) ([]models.Inspection, error) {
	var resp listInspectionsResponse
	err := call(ctx, a.client, "InspectionService", "ListInspections",
		listInspectionsRequest{CarID: carID, PageSize: pageSize}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Inspections, nil
}

type createInspectionRequest struct {
	CarID       string `json:"carId" validate:"required"`
	ScheduledAt string `json:"scheduledAt,omitempty"`
}

type createInspectionResponse struct {
	Inspection *models.Inspection `json:"inspection"`
}

func (a *InspectionAPI) Create(ctx context.Context, carID, scheduledAt string) (*models.Inspection, error) {
	req := createInspectionRequest{CarID: carID, ScheduledAt: scheduledAt}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid inspection: %w", err)
	}

	var resp createInspectionResponse
	if err := call(ctx, a.client, "InspectionService", "CreateInspection", req, &resp); err != nil {
		return nil, err
	}
	return resp.Inspection, nil
}
