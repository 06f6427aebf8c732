package repository

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestMapReferenceErrorForeignKey(t *testing.T) {
	err := mapReferenceError(&pq.Error{Code: "23503", Message: "insert violates foreign key"})
	assert.ErrorIs(t, err, ErrReferenceNotFound)
}

func TestMapReferenceErrorOtherPqCode(t *testing.T) {
	src := &pq.Error{Code: "23505", Message: "duplicate key"}
	err := mapReferenceError(src)
	assert.NotErrorIs(t, err, ErrReferenceNotFound)
	assert.Equal(t, error(src), err)
}

func TestMapReferenceErrorPlainError(t *testing.T) {
	src := errors.New("connection reset")
	assert.Equal(t, src, mapReferenceError(src))
}

func TestMapReferenceErrorNil(t *testing.T) {
	assert.NoError(t, mapReferenceError(nil))
}
