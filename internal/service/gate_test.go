package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	granted := []string{"POST /api/v1/jobs", "GET /api/v1/jobs/:id"}

	assert.NoError(t, Authorize(granted, "/api/v1/jobs", "POST"))
	assert.NoError(t, Authorize(granted, "/api/v1/jobs/:id", "get"))

	assert.ErrorIs(t, Authorize(granted, "/api/v1/jobs", "DELETE"), ErrPermissionDenied)
	assert.ErrorIs(t, Authorize(granted, "/api/v1/resumes", "POST"), ErrPermissionDenied)
	assert.ErrorIs(t, Authorize(nil, "/api/v1/jobs", "POST"), ErrPermissionDenied)
}
