package api

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/mtamaramu/fleet-admin/models"
)

type CarAPI struct {
	client *resty.Client
}

func NewCarAPI(client *resty.Client) *CarAPI {
	return &CarAPI{client: client}
}

type listCarsRequest struct {
	PageSize int32 `json:"pageSize,omitempty"`
}

type listCarsResponse struct {
	Cars []models.Car `json:"cars"`
}

func (a *CarAPI) List(ctx context.Context, pageSize int32) ([]models.Car, error) {
	var resp listCarsResponse
	err := call(ctx, a.client, "CarService", "ListCars",
		listCarsRequest{PageSize: pageSize}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Cars, nil
}

type createCarRequest struct {
	PlateNumber string `json:"plateNumber" validate:"required"`
	Maker       string `json:"maker"`
	Model       string `json:"model"`
	Year        int32  `json:"year" validate:"omitempty,gte=1950,lte=2100"`
}

type createCarResponse struct {
	Car *models.Car `json:"car"`
}

func (a *CarAPI) Create(ctx context.Context, plate, maker, model string, year int32) (*models.Car, error) {
	req := createCarRequest{PlateNumber: plate, Maker: maker, Model: model, Year: year}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid car: %w", err)
	}

	var resp createCarResponse
	if err := call(ctx, a.client, "CarService", "CreateCar", req, &resp); err != nil {
		return nil, err
	}
	return resp.Car, nil
}

type deleteCarRequest struct {
	ID string `json:"id"`
}

func (a *CarAPI) Delete(ctx context.Context, id string) error {
	return call(ctx, a.client, "CarService", "DeleteCar", deleteCarRequest{ID: id}, nil)
}
