package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/api/internal/config"
)

func TestPublicURL(t *testing.T) {
	cfg := config.StorageConfig{Endpoint: "127.0.0.1:9000", Bucket: "files"}
	assert.Equal(t, "http://127.0.0.1:9000/files/resume/a.pdf", PublicURL(cfg, "resume/a.pdf"))

	cfg.UseSSL = true
	assert.Equal(t, "https://127.0.0.1:9000/files/a.pdf", PublicURL(cfg, "/a.pdf"))

	cfg.PublicURL = "https://cdn.example.com/"
	assert.Equal(t, "https://cdn.example.com/files/a.pdf", PublicURL(cfg, "a.pdf"))
}

func TestNewObjectStoreParsesSchemeEndpoint(t *testing.T) {
	store, err := NewObjectStore(config.StorageConfig{
		Endpoint:  "https://minio.example.com",
		Bucket:    "files",
		AccessKey: "key",
		SecretKey: "secret",
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "minio.example.com", store.Client().EndpointURL().Host)
	assert.Equal(t, "https", store.Client().EndpointURL().Scheme)
}
