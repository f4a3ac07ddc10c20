package httpclient

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientBuilder(t *testing.T) {
	logger := zerolog.Nop()
	builder := NewHTTPClientBuilder(logger)

	client, err := builder.
		WithTimeout(15 * time.Second).
		WithUserAgent("test-agent").
		WithFollowRedirects(false).
		WithInsecureSkipVerify(true).
		WithMaxRedirects(5).
		WithMaxErrorBodySize(128).
		WithHeader("X-Trace", "1").
		Build()

	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.Equal(t, 15*time.Second, client.config.Timeout)
	assert.Equal(t, "test-agent", client.config.UserAgent)
	assert.False(t, client.config.FollowRedirects)
	assert.True(t, client.config.InsecureSkipVerify)
	assert.Equal(t, 5, client.config.MaxRedirects)
	assert.Equal(t, 128, client.config.MaxErrorBodySize)
	assert.Equal(t, "1", client.config.CustomHeaders["X-Trace"])
}

func TestHTTPClientBuilder_DefaultValues(t *testing.T) {
	logger := zerolog.Nop()
	builder := NewHTTPClientBuilder(logger)

	client, err := builder.Build()
	require.NoError(t, err)

	defaults := DefaultHTTPClientConfig()

	assert.NotNil(t, client)
	assert.Equal(t, 120*time.Second, client.config.Timeout)
	assert.Equal(t, defaults.UserAgent, client.config.UserAgent)
	assert.Equal(t, defaults.FollowRedirects, client.config.FollowRedirects)
	assert.False(t, client.config.InsecureSkipVerify)
	assert.Equal(t, defaults.MaxRedirects, client.config.MaxRedirects)
}

func TestHTTPClientBuilder_InvalidSettings(t *testing.T) {
	_, err := NewHTTPClientBuilder(zerolog.Nop()).WithTimeout(-time.Second).Build()
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = NewHTTPClientBuilder(zerolog.Nop()).WithProxy("://bad").Build()
	assert.ErrorContains(t, err, "failed to parse proxy URL")
}

func TestHTTPClientBuilder_HTTP2(t *testing.T) {
	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithHTTP2(true).Build()
	require.NoError(t, err)
	assert.True(t, client.config.EnableHTTP2)
}
