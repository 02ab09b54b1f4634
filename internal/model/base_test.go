package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDBaseBeforeCreateAssignsID(t *testing.T) {
	post := &Post{CourseID: 1, UserID: 2, Title: "提问"}

	require.NoError(t, post.BeforeCreate(nil))

	_, err := uuid.Parse(post.ID)
	assert.NoError(t, err)
}

func TestUUIDBaseBeforeCreateKeepsExistingID(t *testing.T) {
	existing := GenerateUUID()
	comment := &Comment{PostID: existing, UserID: 2, Content: "回复"}
	comment.ID = existing

	require.NoError(t, comment.BeforeCreate(nil))

	assert.Equal(t, existing, comment.ID)
}

func TestGenerateUUIDIsUnique(t *testing.T) {
	assert.NotEqual(t, GenerateUUID(), GenerateUUID())
}
