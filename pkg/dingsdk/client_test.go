package dingsdk

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/copperline/dingtalk/pkg/slogx"
	"github.com/copperline/dingtalk/pkg/tokencache"
	"github.com/copperline/dingtalk/pkg/tokencache/drivers/memory"
)

// testClient builds a client backed by store, with every endpoint root
// pointed at serverURL and logging discarded.
func testClient(t *testing.T, store tokencache.Store, serverURL string) *Client {
	t.Helper()

	client, err := New(Config{
		AppID:             "app-id",
		AppSecret:         "app-secret",
		Store:             store,
		RequestsPerSecond: -1,
		Logger:            slogx.New(slogx.Config{Level: "error", Output: io.Discard}),
		APIBaseURL:        serverURL,
		OAPIBaseURL:       serverURL,
		AuthBaseURL:       serverURL,
	})
	require.NoError(t, err)
	return client
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires app id", func(t *testing.T) {
		_, err := New(Config{AppSecret: "s", Store: memory.NewStore()})
		require.Error(t, err)
	})

	t.Run("requires app secret", func(t *testing.T) {
		_, err := New(Config{AppID: "a", Store: memory.NewStore()})
		require.Error(t, err)
	})

	t.Run("requires a store", func(t *testing.T) {
		_, err := New(Config{AppID: "a", AppSecret: "s"})
		require.Error(t, err)
	})

	t.Run("defaults endpoint roots", func(t *testing.T) {
		client, err := New(Config{AppID: "a", AppSecret: "s", Store: memory.NewStore()})
		require.NoError(t, err)
		require.Equal(t, defaultAPIBaseURL, client.apiBaseURL)
		require.Equal(t, defaultOAPIBaseURL, client.oapiBaseURL)
		require.Equal(t, defaultAuthBaseURL, client.authBaseURL)
		require.Equal(t, "a", client.AppID())
	})

	t.Run("fractional rate keeps a usable burst", func(t *testing.T) {
		client, err := New(Config{
			AppID: "a", AppSecret: "s",
			Store:             memory.NewStore(),
			RequestsPerSecond: 0.5,
		})
		require.NoError(t, err)
		require.NotNil(t, client.limiter)
		require.Equal(t, 1, client.limiter.Burst())
	})

	t.Run("single flight wraps the manager", func(t *testing.T) {
		client, err := New(Config{
			AppID: "a", AppSecret: "s",
			Store:        memory.NewStore(),
			SingleFlight: true,
		})
		require.NoError(t, err)
		_, ok := client.tokens.(*tokencache.SingleFlightManager)
		require.True(t, ok)
	})
}
