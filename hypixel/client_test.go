package hypixel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestClient_FetchPlayer_UsesCache(t *testing.T) {
	server, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/player", r.URL.Path)
		assert.Equal(t, "069a79f444e94726a5befca90e38aaf5", r.URL.Query().Get("uuid"))
		assert.Equal(t, "secret", r.Header.Get("API-Key"))
		w.Write([]byte(`{"success": true, "player": {"displayname": "Notch", "karma": 1200}}`))
	})

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "secret"}, NewMemoryCache())
	ctx := context.Background()

	doc, err := client.FetchPlayer(ctx, "069a79f4-44e9-4726-a5be-fca90e38aaf5")
	require.NoError(t, err)
	name, _ := doc.String("player.displayname")
	assert.Equal(t, "Notch", name)

	_, err = client.FetchPlayer(ctx, "069A79F444E94726A5BEFCA90E38AAF5")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_FetchPlayer_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{"null player", http.StatusOK, `{"success": true, "player": null}`},
		{"unsuccessful", http.StatusOK, `{"success": false}`},
		{"404", http.StatusNotFound, `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.payload))
			})
			client := NewClient(ClientConfig{BaseURL: server.URL}, nil)

			doc, err := client.FetchPlayerByName(context.Background(), "Notch")
			assert.ErrorIs(t, err, ErrPlayerNotFound)
			assert.Nil(t, doc)
		})
	}
}

func TestClient_RateLimited(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	client := NewClient(ClientConfig{BaseURL: server.URL}, NewMemoryCache())

	_, err := client.FetchPlayer(context.Background(), "069a79f444e94726a5befca90e38aaf5")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestClient_FetchGuild(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/guild", r.URL.Path)
		assert.Equal(t, "heinz", r.URL.Query().Get("id"))
		w.Write([]byte(guildJSON))
	})
	client := NewClient(ClientConfig{BaseURL: server.URL + "/"}, nil)

	guild, err := client.FetchGuild(context.Background(), "heinz")
	require.NoError(t, err)
	assert.Len(t, guild.Members, 2)
}

func TestClient_InvalidIdentifiers(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:0"}, nil)

	_, err := client.FetchPlayer(context.Background(), "not-a-uuid")
	assert.Error(t, err)

	_, err = client.FetchPlayerByName(context.Background(), "bad name")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}
