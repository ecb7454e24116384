package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Wrapping(t *testing.T) {
	cause := errors.New("pq: duplicate key")
	err := NewDuplicateKeyError("User", "email", cause)

	assert.Equal(t, "User with this email already exists: pq: duplicate key", err.Error())
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("create: %w", err)
	assert.Equal(t, CodeDuplicateKey, ErrorCode(wrapped))
	assert.True(t, IsCode(wrapped, CodeDuplicateKey))
}

func TestErrorCode_Defaults(t *testing.T) {
	assert.Equal(t, CodeInternal, ErrorCode(errors.New("boom")))
	assert.False(t, IsCode(nil, CodeInternal))
	assert.Equal(t, CodeNotFound, ErrorCode(NewNotFoundError("Post", 3)))
	assert.Equal(t, CodeForeignKeyViolation, ErrorCode(NewForeignKeyError("User", 9, nil)))
	assert.Equal(t, CodeBadRequest, ErrorCode(NewBadRequestError("bad")))
}

func TestOptional_UnmarshalJSON(t *testing.T) {
	var req struct {
		Content   Optional[string] `json:"content"`
		Published Optional[bool]   `json:"published"`
		AuthorID  Optional[uint]   `json:"authorId"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"content":"","published":null}`), &req))

	assert.True(t, req.Content.Set)
	assert.False(t, req.Content.Null)
	assert.Equal(t, "", req.Content.Value)

	assert.True(t, req.Published.Set)
	assert.True(t, req.Published.Null)
	assert.Nil(t, req.Published.Ptr())

	assert.False(t, req.AuthorID.Set)
}

func TestOptional_RejectsWrongType(t *testing.T) {
	var req struct {
		AuthorID Optional[uint] `json:"authorId"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"authorId":"abc"}`), &req))
}

func TestOptional_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Optional[string] `json:"a"`
		B Optional[string] `json:"b"`
	}{A: Some("x")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":null}`, string(b))

	p := Some(7).Ptr()
	require.NotNil(t, p)
	assert.Equal(t, 7, *p)
	assert.Nil(t, Null[int]().Ptr())
}
