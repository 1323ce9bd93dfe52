package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/store"
)

func TestCreateTag_SlugDerivation(t *testing.T) {
	st := newTestStore(t)
	svc := NewTagService(st, testLogger())

	tag, err := svc.CreateTag(context.Background(), "Science Fiction", "#3366ff")
	require.NoError(t, err)
	assert.Equal(t, "science-fiction", tag.Slug)
	assert.Equal(t, "Science Fiction", tag.Name)
}

func TestCreateTag_DuplicateSlug(t *testing.T) {
	st := newTestStore(t)
	svc := NewTagService(st, testLogger())

	_, err := svc.CreateTag(context.Background(), "To Read", "")
	require.NoError(t, err)

	// Different casing normalizes to the same slug.
	_, err = svc.CreateTag(context.Background(), "to read", "")
	require.Error(t, err)
	se, ok := err.(*store.Error)
	require.True(t, ok)
	assert.Equal(t, store.ErrAlreadyExists.Code, se.Code)
}

func TestCreateTag_EmptyName(t *testing.T) {
	st := newTestStore(t)
	svc := NewTagService(st, testLogger())

	_, err := svc.CreateTag(context.Background(), "   ", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestTagDocument_Lifecycle(t *testing.T) {
	st := newTestStore(t)
	svc := NewTagService(st, testLogger())

	doc := mustCreateDocument(t, st, "Dune")
	tag, err := svc.CreateTag(context.Background(), "Favorites", "")
	require.NoError(t, err)

	require.NoError(t, svc.TagDocument(context.Background(), doc.ID, tag.ID))
	require.NoError(t, svc.TagDocument(context.Background(), doc.ID, tag.ID)) // idempotent

	docs, err := svc.GetTaggedDocuments(context.Background(), tag.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, doc.ID, docs[0].ID)

	require.NoError(t, svc.UntagDocument(context.Background(), doc.ID, tag.ID))
	docs, err = svc.GetTaggedDocuments(context.Background(), tag.ID)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
