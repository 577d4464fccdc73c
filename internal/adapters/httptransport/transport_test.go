package httptransport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostForwardsHeadersAndBody(t *testing.T) {
	var gotMethod, gotVersion, gotSig string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotVersion = r.Header.Get("x-protocol-version")
		gotSig = r.Header.Get("x-auth-sig-0")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte("response-bytes"))
	}))
	defer server.Close()

	transport := New(server.Client())
	resp, err := transport.Post(context.Background(), server.URL, map[string]string{
		"x-protocol-version": "1640",
		"x-auth-sig-0":       "sig",
	}, []byte("request-body"))

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "1640", gotVersion)
	assert.Equal(t, "sig", gotSig)
	assert.Equal(t, []byte("request-body"), gotBody)
	assert.Equal(t, []byte("response-bytes"), resp)
}

func TestPostRejectsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	transport := New(server.Client())
	_, err := transport.Post(context.Background(), server.URL, nil, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestPostHonoursContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	transport := New(server.Client())
	_, err := transport.Post(ctx, server.URL, nil, nil)
	require.Error(t, err)
}

func TestNewDefaultsClient(t *testing.T) {
	transport := New(nil)
	require.NotNil(t, transport.client)
}
