package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomer_Success(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/customers", r.URL.Path)
		w.Write([]byte(`{"customer":{"_id":"c1","name":"Ana","email":"ana@example.com","dni":"12345678"}}`))
	}))
	defer srv.Close()

	customer, err := client.CreateCustomer(context.Background(), CustomerRequest{
		Name: "Ana", Email: "ana@example.com", DNI: "12345678",
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", customer.ID)
	assert.Equal(t, "12345678", customer.DNI)
}

func TestCreateCustomer_ConflictBecomesTypedError(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"customer with DNI 12345678 already exists"}`))
	}))
	defer srv.Close()

	_, err := client.CreateCustomer(context.Background(), CustomerRequest{DNI: "12345678"})
	require.ErrorIs(t, err, ErrDuplicateIdentity)
}

func TestCreateOrGetCustomer_FallsBackToDNILookup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/customers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"duplicate"}`))
	})
	mux.HandleFunc("/customers/dni/12345678", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"customers":[{"_id":"c9","name":"Ana","dni":"12345678"}]}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()
	client := NewClient(srv.URL, 2*time.Second)

	customer, err := client.CreateOrGetCustomer(context.Background(), CustomerRequest{
		Name: "Ana", Email: "ana@example.com", DNI: "12345678",
	})
	require.NoError(t, err)
	assert.Equal(t, "c9", customer.ID)
}

func TestCreateOrGetCustomer_NonConflictErrorPropagates(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"db down"}`))
	}))
	defer srv.Close()

	_, err := client.CreateOrGetCustomer(context.Background(), CustomerRequest{DNI: "12345678"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateIdentity)

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "db down", remote.Message)
}

func TestCustomerByDNI_Empty(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"customers":[]}`))
	}))
	defer srv.Close()

	_, err := client.CustomerByDNI(context.Background(), "12345678")
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusNotFound, remote.StatusCode)
}
