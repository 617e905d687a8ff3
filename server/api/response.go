package api

import (
	"tedbus_server/server/common/transport/httpresp"
	"tedbus_server/server/domain"
)

type ErrorResponse = httpresp.ErrorResponse
type IDResponse = httpresp.IDResponse
type MessageResponse = httpresp.MessageResponse
type UploadResponse = httpresp.UploadResponse

type CreatedResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type PostsResponse struct {
	Posts []domain.Post `json:"posts"`
}

type DocumentsResponse struct {
	Documents []domain.Document `json:"documents"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func NewCreatedResponse(id string) CreatedResponse {
	return CreatedResponse{Success: true, ID: id}
}

func NewPostsResponse(posts []domain.Post) PostsResponse {
	return PostsResponse{Posts: posts}
}

func NewDocumentsResponse(docs []domain.Document) DocumentsResponse {
	return DocumentsResponse{Documents: docs}
}

func NewHealthResponse(status string) HealthResponse {
	return HealthResponse{Status: status}
}
