package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readwellapp/readwell-server/internal/domain"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTag",
		Method:      http.MethodPost,
		Path:        "/api/v1/tags",
		Summary:     "Create tag",
		Tags:        []string{"Tags"},
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Delete tag",
		Tags:        []string{"Tags"},
	}, s.handleDeleteTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTagDocuments",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{id}/documents",
		Summary:     "Get tagged documents",
		Tags:        []string{"Tags"},
	}, s.handleGetTagDocuments)

	huma.Register(s.api, huma.Operation{
		OperationID: "tagDocument",
		Method:      http.MethodPost,
		Path:        "/api/v1/documents/{id}/tags/{tagID}",
		Summary:     "Tag document",
		Tags:        []string{"Tags"},
	}, s.handleTagDocument)

	huma.Register(s.api, huma.Operation{
		OperationID: "untagDocument",
		Method:      http.MethodDelete,
		Path:        "/api/v1/documents/{id}/tags/{tagID}",
		Summary:     "Untag document",
		Tags:        []string{"Tags"},
	}, s.handleUntagDocument)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDocumentTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/documents/{id}/tags",
		Summary:     "Get document tags",
		Tags:        []string{"Tags"},
	}, s.handleGetDocumentTags)
}

// === DTOs ===

// CreateTagRequest is the request body for creating a tag.
type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=50" doc:"Tag name"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"Display color"`
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Body CreateTagRequest
}

// TagOutput wraps a single tag response.
type TagOutput struct {
	Body *domain.Tag
}

// TagListOutput wraps a tag list response.
type TagListOutput struct {
	Body struct {
		Tags []*domain.Tag `json:"tags"`
	}
}

// TagIDInput identifies a tag by path parameter.
type TagIDInput struct {
	ID string `path:"id" doc:"Tag ID"`
}

// DocumentTagInput identifies a document/tag pair.
type DocumentTagInput struct {
	ID    string `path:"id" doc:"Document ID"`
	TagID string `path:"tagID" doc:"Tag ID"`
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*TagListOutput, error) {
	tags, err := s.services.Tags.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	out := &TagListOutput{}
	out.Body.Tags = tags
	return out, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}
	tag, err := s.services.Tags.CreateTag(ctx, input.Body.Name, input.Body.Color)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: tag}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *TagIDInput) (*EmptyOutput, error) {
	if err := s.services.Tags.DeleteTag(ctx, input.ID); err != nil {
		return nil, err
	}
	return &EmptyOutput{}, nil
}

func (s *Server) handleGetTagDocuments(ctx context.Context, input *TagIDInput) (*DocumentListOutput, error) {
	docs, err := s.services.Tags.GetTaggedDocuments(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	out := &DocumentListOutput{}
	out.Body.Documents = docs
	return out, nil
}

func (s *Server) handleTagDocument(ctx context.Context, input *DocumentTagInput) (*EmptyOutput, error) {
	if err := s.services.Tags.TagDocument(ctx, input.ID, input.TagID); err != nil {
		return nil, err
	}
	return &EmptyOutput{}, nil
}

func (s *Server) handleUntagDocument(ctx context.Context, input *DocumentTagInput) (*EmptyOutput, error) {
	if err := s.services.Tags.UntagDocument(ctx, input.ID, input.TagID); err != nil {
		return nil, err
	}
	return &EmptyOutput{}, nil
}

func (s *Server) handleGetDocumentTags(ctx context.Context, input *DocumentIDInput) (*TagListOutput, error) {
	tags, err := s.services.Tags.GetDocumentTags(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	out := &TagListOutput{}
	out.Body.Tags = tags
	return out, nil
}
