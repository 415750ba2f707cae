package evolution

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogelio-fraga-dev/barberbot/internal/config"
)

func TestFormatPhone(t *testing.T) {
	// Local numbers gain the country code.
	assert.Equal(t, "5534988887766", FormatPhone("(34) 98888-7766"))
	assert.Equal(t, "553488887766", FormatPhone("34 8888-7766"))
	// Already international: untouched.
	assert.Equal(t, "5534988887766", FormatPhone("5534988887766"))
	// Short garbage passes through digits-only.
	assert.Equal(t, "123", FormatPhone("1-2-3"))
}

func newTestClient(serverURL string) *Client {
	return NewClient(&config.Config{
		EvolutionBaseURL:  serverURL,
		EvolutionInstance: "barberbot",
		EvolutionAPIKey:   "secret-key",
	})
}

func TestSendTextPostsFormattedPayload(t *testing.T) {
	var gotPath, gotKey string
	var gotBody TextMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apikey")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	require.NoError(t, client.SendText("34988887766", "Olá!"))

	assert.Equal(t, "/message/sendText/barberbot", gotPath)
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "5534988887766", gotBody.Number)
	assert.Equal(t, "Olá!", gotBody.Text)
}

func TestSendTextSurfacesGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"instance disconnected"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	err := newTestClient(server.URL).SendText("34988887766", "Olá!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instance disconnected")
}

func TestFetchMediaBase64(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/getBase64FromMediaMessage/barberbot", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"base64": "aGVsbG8="})
	}))
	defer server.Close()

	b64, err := newTestClient(server.URL).FetchMediaBase64("MSG-1")
	require.NoError(t, err)
	assert.Equal(t, "aGVsbG8=", b64)
}

func TestFetchMediaBase64EmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchMediaBase64("MSG-1")
	assert.Error(t, err)
}
