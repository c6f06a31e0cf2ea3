package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client, err := NewClient(Config{
		Endpoint:  "localhost:9000",
		AccessKey: "testkey",
		SecretKey: "testsecret",
		Bucket:    "feeds",
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestSplitEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		useSSL   bool
		host     string
		secure   bool
	}{
		{"Bare", "localhost:9000", false, "localhost:9000", false},
		{"BareWithSSL", "minio.internal", true, "minio.internal", true},
		{"HTTPS", "https://s3.amazonaws.com", false, "s3.amazonaws.com", true},
		{"HTTP", "http://minio:9000", false, "minio:9000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, secure := splitEndpoint(tt.endpoint, tt.useSSL)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.secure, secure)
		})
	}
}

func TestConfig_Timeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, Config{}.Timeout())
	assert.Equal(t, 5*time.Second, Config{TimeoutSeconds: 5}.Timeout())
}
