package rpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramAccounts(t *testing.T) {
	var (
		assert  = assert.New(t)
		gotBody map[string]any
	)

	payload := []byte{0xde, 0xad, 0xbe, 0xef}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(http.MethodPost, r.Method)
		assert.Equal("application/json", r.Header.Get("Content-Type"))
		assert.NoError(json.NewDecoder(r.Body).Decode(&gotBody))

		resp := map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"result": []map[string]any{
				{
					"pubkey": "acc1",
					"account": map[string]any{
						"lamports":   uint64(1000),
						"data":       []string{base64.StdEncoding.EncodeToString(payload), "base64"},
						"owner":      "prog1",
						"executable": false,
						"rentEpoch":  uint64(361),
					},
				},
			},
		}
		assert.NoError(json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, WithTimeout(time.Second*5))
	require.NoError(t, err)

	accounts, err := client.ProgramAccounts(context.Background(), "prog1", []Filter{
		{Offset: 0, Bytes: []byte{1, 2, 3}},
		{Offset: 97, Bytes: []byte{4, 5}},
	})
	require.NoError(t, err)

	require.Len(t, accounts, 1)
	assert.Equal("acc1", accounts[0].Pubkey)
	assert.Equal(payload, accounts[0].Account.Data)
	assert.Equal(uint64(1000), accounts[0].Account.Lamports)
	assert.Equal("prog1", accounts[0].Account.Owner)
	assert.Equal(uint64(361), accounts[0].Account.RentEpoch)

	// Wire shape: one getProgramAccounts call with base64-encoded
	// memcmp filters.
	assert.Equal("2.0", gotBody["jsonrpc"])
	assert.Equal("getProgramAccounts", gotBody["method"])

	params := gotBody["params"].([]any)
	require.Len(t, params, 2)
	assert.Equal("prog1", params[0])

	cfg := params[1].(map[string]any)
	assert.Equal("base64", cfg["encoding"])

	filters := cfg["filters"].([]any)
	require.Len(t, filters, 2)

	first := filters[0].(map[string]any)["memcmp"].(map[string]any)
	assert.Equal(float64(0), first["offset"])
	assert.Equal(base64.StdEncoding.EncodeToString([]byte{1, 2, 3}), first["bytes"])
	assert.Equal("base64", first["encoding"])

	second := filters[1].(map[string]any)["memcmp"].(map[string]any)
	assert.Equal(float64(97), second["offset"])
	assert.Equal(base64.StdEncoding.EncodeToString([]byte{4, 5}), second["bytes"])
}

func TestProgramAccountsNoFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		cfg := body["params"].([]any)[1].(map[string]any)
		_, hasFilters := cfg["filters"]
		assert.False(t, hasFilters, "empty filter list must be omitted")

		_, err := w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":[]}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	accounts, err := client.ProgramAccounts(context.Background(), "prog1", nil)
	assert.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestProgramAccountsErrors(t *testing.T) {
	t.Run("RPC_Error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid filter"}}`))
			require.NoError(t, err)
		}))
		defer srv.Close()

		client, err := NewClient(srv.URL)
		require.NoError(t, err)

		_, err = client.ProgramAccounts(context.Background(), "prog1", nil)
		assert.ErrorContains(t, err, "invalid filter")
		assert.ErrorContains(t, err, "-32602")
	})

	t.Run("HTTP_Error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusBadGateway)
		}))
		defer srv.Close()

		client, err := NewClient(srv.URL)
		require.NoError(t, err)

		_, err = client.ProgramAccounts(context.Background(), "prog1", nil)
		assert.ErrorContains(t, err, "unexpected status")
	})

	t.Run("Bad_Data_Encoding", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":[{"pubkey":"acc1","account":{"lamports":1,"data":["%%%","base64"],"owner":"x"}}]}`))
			require.NoError(t, err)
		}))
		defer srv.Close()

		client, err := NewClient(srv.URL)
		require.NoError(t, err)

		_, err = client.ProgramAccounts(context.Background(), "prog1", nil)
		assert.ErrorContains(t, err, "decoding data")
	})

	t.Run("Context_Cancelled", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Second)
		}))
		defer srv.Close()

		client, err := NewClient(srv.URL)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = client.ProgramAccounts(ctx, "prog1", nil)
		assert.Error(t, err)
	})
}
