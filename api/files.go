package api

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/mtamaramu/fleet-admin/models"
)

type FileAPI struct {
	client *resty.Client
}

func NewFileAPI(client *resty.Client) *FileAPI {
	return &FileAPI{client: client}
}

type listFilesRequest struct {
	PageSize int32 `json:"pageSize,omitempty"`
}

type listFilesResponse struct {
	Files []models.StoredFile `json:"files"`
}

func (a *FileAPI) List(ctx context.Context, pageSize int32) ([]models.StoredFile, error) {
	var resp listFilesResponse
	err := call(ctx, a.client, "FileService", "ListFiles",
		listFilesRequest{PageSize: pageSize}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Files, nil
}

type uploadFileRequest struct {
	Name        string `json:"name" validate:"required"`
	ContentType string `json:"contentType"`
	// Content is base64 over the wire, matching proto bytes JSON encoding.
	Content []byte `json:"content" validate:"required"`
}

type uploadFileResponse struct {
	File *models.StoredFile `json:"file"`
}

func (a *FileAPI) Upload(ctx context.Context, name, contentType string, content []byte) (*models.StoredFile, error) {
	req := uploadFileRequest{Name: name, ContentType: contentType, Content: content}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid file upload: %w", err)
	}

	var resp uploadFileResponse
	if err := call(ctx, a.client, "FileService", "UploadFile", req, &resp); err != nil {
		return nil, err
	}
	return resp.File, nil
}

type deleteFileRequest struct {
	ID string `json:"id"`
}

func (a *FileAPI) Delete(ctx context.Context, id string) error {
	return call(ctx, a.client, "FileService", "DeleteFile", deleteFileRequest{ID: id}, nil)
}
