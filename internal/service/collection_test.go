package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readwellapp/readwell-server/internal/errors"
)

func TestCreateCollection_Nesting(t *testing.T) {
	st := newTestStore(t)
	svc := NewCollectionService(st, testLogger())

	parent, err := svc.CreateCollection(context.Background(), "Research", "")
	require.NoError(t, err)

	child, err := svc.CreateCollection(context.Background(), "Biology", parent.ID)
	require.NoError(t, err)
	assert.Equal(t, parent.ID, child.ParentID)

	// One level deep only.
	_, err = svc.CreateCollection(context.Background(), "Genetics", child.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestCollectionMembership(t *testing.T) {
	st := newTestStore(t)
	svc := NewCollectionService(st, testLogger())

	doc := mustCreateDocument(t, st, "Dune")
	coll, err := svc.CreateCollection(context.Background(), "Summer Reading", "")
	require.NoError(t, err)

	require.NoError(t, svc.AddDocument(context.Background(), coll.ID, doc.ID))
	require.NoError(t, svc.AddDocument(context.Background(), coll.ID, doc.ID)) // idempotent

	docs, err := svc.GetCollectionDocuments(context.Background(), coll.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, doc.ID, docs[0].ID)

	require.NoError(t, svc.RemoveDocument(context.Background(), coll.ID, doc.ID))
	docs, err = svc.GetCollectionDocuments(context.Background(), coll.ID)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDeleteCollection_OrphansChildren(t *testing.T) {
	st := newTestStore(t)
	svc := NewCollectionService(st, testLogger())

	parent, err := svc.CreateCollection(context.Background(), "Research", "")
	require.NoError(t, err)
	child, err := svc.CreateCollection(context.Background(), "Biology", parent.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCollection(context.Background(), parent.ID))

	got, err := svc.GetCollection(context.Background(), child.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ParentID)
}
