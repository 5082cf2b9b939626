package faucet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditPostsAddressAndDenom(t *testing.T) {
	var got creditRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/credit", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL + "/")
	require.NoError(t, err)
	require.NoError(t, c.Credit(context.Background(), "wasm1abc", "usponge"))
	require.Equal(t, creditRequest{Address: "wasm1abc", Denom: "usponge"}, got)
}

func TestCreditNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Too many requests for the same address", http.StatusMethodNotAllowed)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)
	err = c.Credit(context.Background(), "wasm1abc", "usponge")

	var fe *Error
	require.True(t, errors.As(err, &fe))
	require.Equal(t, http.StatusMethodNotAllowed, fe.StatusCode)
	require.Contains(t, fe.Error(), "Too many requests")
}

func TestCreditHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithTimeout(5*time.Second))
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = c.Credit(ctx, "wasm1abc", "usponge")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewValidatesURL(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
	_, err = New("ftp://faucet")
	require.Error(t, err)

	c, err := New("https://faucet.oysternet.cosmwasm.com/")
	require.NoError(t, err)
	require.Equal(t, "https://faucet.oysternet.cosmwasm.com", c.baseURL)

	require.Error(t, c.Credit(context.Background(), "", "usponge"))
}
