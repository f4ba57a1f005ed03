package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyringRoundTrip(t *testing.T) {
	keyring.MockInit()

	require.NoError(t, Setup(map[KeyType]string{
		KeyGemini:         "gemini-key",
		KeyRouterPassword: "secret",
	}))

	configured := ListConfigured()
	assert.True(t, configured[KeyGemini])
	assert.True(t, configured[KeyRouterPassword])
	assert.False(t, configured[KeyAnthropic])

	assert.Equal(t, "gemini-key", GetOrEnv(KeyGemini, ""))
	assert.Equal(t, "from-env", GetOrEnv(KeyGemini, "from-env"))
	assert.Equal(t, "", GetOrEnv(KeyAnthropic, ""))

	require.NoError(t, ClearAll())
	assert.False(t, ListConfigured()[KeyGemini])
}
