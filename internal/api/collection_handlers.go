package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readwellapp/readwell-server/internal/domain"
)

func (s *Server) registerCollectionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCollections",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections",
		Summary:     "List collections",
		Tags:        []string{"Collections"},
	}, s.handleListCollections)

	huma.Register(s.api, huma.Operation{
		OperationID: "createCollection",
		Method:      http.MethodPost,
		Path:        "/api/v1/collections",
		Summary:     "Create collection",
		Tags:        []string{"Collections"},
	}, s.handleCreateCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCollection",
		Method:      http.MethodDelete,
		Path:        "/api/v1/collections/{id}",
		Summary:     "Delete collection",
		Tags:        []string{"Collections"},
	}, s.handleDeleteCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCollectionDocuments",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections/{id}/documents",
		Summary:     "Get collection documents",
		Tags:        []string{"Collections"},
	}, s.handleGetCollectionDocuments)

	huma.Register(s.api, huma.Operation{
		OperationID: "addDocumentToCollection",
		Method:      http.MethodPost,
		Path:        "/api/v1/collections/{id}/documents/{documentID}",
		Summary:     "Add document to collection",
		Tags:        []string{"Collections"},
	}, s.handleAddDocumentToCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeDocumentFromCollection",
		Method:      http.MethodDelete,
		Path:        "/api/v1/collections/{id}/documents/{documentID}",
		Summary:     "Remove document from collection",
		Tags:        []string{"Collections"},
	}, s.handleRemoveDocumentFromCollection)
}

// === DTOs ===

// CreateCollectionRequest is the request body for creating a collection.
type CreateCollectionRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100" doc:"Collection name"`
	ParentID string `json:"parent_id,omitempty" doc:"Optional parent collection"`
}

// CreateCollectionInput wraps the create collection request for Huma.
type CreateCollectionInput struct {
	Body CreateCollectionRequest
}

// CollectionOutput wraps a single collection response.
type CollectionOutput struct {
	Body *domain.Collection
}

// CollectionListOutput wraps a collection list response.
type CollectionListOutput struct {
	Body struct {
		Collections []*domain.Collection `json:"collections"`
	}
}

// CollectionIDInput identifies a collection by path parameter.
type CollectionIDInput struct {
	ID string `path:"id" doc:"Collection ID"`
}

// CollectionDocumentInput identifies a collection/document pair.
type CollectionDocumentInput struct {
	ID         string `path:"id" doc:"Collection ID"`
	DocumentID string `path:"documentID" doc:"Document ID"`
}

// === Handlers ===

func (s *Server) handleListCollections(ctx context.Context, _ *struct{}) (*CollectionListOutput, error) {
	collections, err := s.services.Collections.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	out := &CollectionListOutput{}
	out.Body.Collections = collections
	return out, nil
}

func (s *Server) handleCreateCollection(ctx context.Context, input *CreateCollectionInput) (*CollectionOutput, error) {
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}
	coll, err := s.services.Collections.CreateCollection(ctx, input.Body.Name, input.Body.ParentID)
	if err != nil {
		return nil, err
	}
	return &CollectionOutput{Body: coll}, nil
}

func (s *Server) handleDeleteCollection(ctx context.Context, input *CollectionIDInput) (*EmptyOutput, error) {
	if err := s.services.Collections.DeleteCollection(ctx, input.ID); err != nil {
		return nil, err
	}
	return &EmptyOutput{}, nil
}

func (s *Server) handleGetCollectionDocuments(ctx context.Context, input *CollectionIDInput) (*DocumentListOutput, error) {
	docs, err := s.services.Collections.GetCollectionDocuments(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	out := &DocumentListOutput{}
	out.Body.Documents = docs
	return out, nil
}

func (s *Server) handleAddDocumentToCollection(ctx context.Context, input *CollectionDocumentInput) (*EmptyOutput, error) {
	if err := s.services.Collections.AddDocument(ctx, input.ID, input.DocumentID); err != nil {
		return nil, err
	}
	return &EmptyOutput{}, nil
}

func (s *Server) handleRemoveDocumentFromCollection(ctx context.Context, input *CollectionDocumentInput) (*EmptyOutput, error) {
	if err := s.services.Collections.RemoveDocument(ctx, input.ID, input.DocumentID); err != nil {
		return nil, err
	}
	return &EmptyOutput{}, nil
}
