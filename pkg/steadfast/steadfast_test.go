package steadfast_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bazaar/pkg/steadfast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *steadfast.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return steadfast.NewClient(steadfast.Config{
		BaseURL:   server.URL,
		APIKey:    "test-api-key",
		SecretKey: "test-secret-key",
	})
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+8801712345678", "01712345678"},
		{"8801712345678", "01712345678"},
		{"01712345678", "01712345678"},
		{"1712345678", "01712345678"},
		{"017-1234 5678", "01712345678"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, steadfast.NormalizePhone(tc.in), "input %q", tc.in)
	}
}

func TestCreateConsignment(t *testing.T) {
	var gotReq steadfast.ConsignmentRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/create_order", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("Api-Key"))
		assert.Equal(t, "test-secret-key", r.Header.Get("Secret-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": 200,
			"consignment": map[string]interface{}{
				"consignment_id": 424242,
				"invoice":        gotReq.Invoice,
				"tracking_code":  "TRK-424242",
				"status":         "in_review",
			},
		})
	})

	consignment, err := client.CreateConsignment(context.Background(), steadfast.ConsignmentRequest{
		Invoice:          "ORD-1",
		RecipientName:    "Test Customer",
		RecipientPhone:   "+8801712345678",
		RecipientAddress: "12 Test Road, Dhaka",
		CODAmount:        30.00,
		TotalLot:         3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(424242), consignment.ConsignmentID)
	assert.Equal(t, "TRK-424242", consignment.TrackingCode)
	assert.Equal(t, "in_review", consignment.Status)

	// Phone was normalized before it went over the wire.
	assert.Equal(t, "01712345678", gotReq.RecipientPhone)
}

func TestCreateConsignmentInvalidPhone(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.CreateConsignment(context.Background(), steadfast.ConsignmentRequest{
		Invoice:          "ORD-2",
		RecipientName:    "Test Customer",
		RecipientPhone:   "12345",
		RecipientAddress: "12 Test Road, Dhaka",
		CODAmount:        10.00,
	})
	require.Error(t, err)

	var apiErr *steadfast.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, steadfast.KindRejected, apiErr.Kind)
	assert.False(t, called, "invalid phone must not reach the courier")
}

func TestCreateConsignmentRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  400,
			"message": "invoice already used",
		})
	})

	_, err := client.CreateConsignment(context.Background(), validRequest())
	var apiErr *steadfast.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, steadfast.KindRejected, apiErr.Kind)
	assert.Contains(t, apiErr.Message, "invoice already used")
}

func TestCreateConsignmentAuthFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.CreateConsignment(context.Background(), validRequest())
	var apiErr *steadfast.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, steadfast.KindAuthFailure, apiErr.Kind)
}

func TestCreateConsignmentNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := steadfast.NewClient(steadfast.Config{
		BaseURL:   server.URL,
		APIKey:    "k",
		SecretKey: "s",
	})
	server.Close() // force a connection failure

	_, err := client.CreateConsignment(context.Background(), validRequest())
	var apiErr *steadfast.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, steadfast.KindNetwork, apiErr.Kind)
}

func TestDisabledClient(t *testing.T) {
	client := steadfast.NewClient(steadfast.Config{})
	assert.False(t, client.Enabled())

	_, err := client.CreateConsignment(context.Background(), validRequest())
	assert.True(t, errors.Is(err, steadfast.ErrDisabled))

	_, err = client.StatusByConsignment(context.Background(), 1)
	assert.True(t, errors.Is(err, steadfast.ErrDisabled))

	_, err = client.Balance(context.Background())
	assert.True(t, errors.Is(err, steadfast.ErrDisabled))
}

func TestStatusLookups(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/status_by_cid/424242", "/status_by_invoice/ORD-1", "/status_by_trackingcode/TRK-424242":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":          200,
				"delivery_status": "delivered",
			})
		default:
			http.NotFound(w, r)
		}
	})

	status, err := client.StatusByConsignment(context.Background(), 424242)
	require.NoError(t, err)
	assert.Equal(t, "delivered", status)

	status, err = client.StatusByInvoice(context.Background(), "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "delivered", status)

	status, err = client.StatusByTrackingCode(context.Background(), "TRK-424242")
	require.NoError(t, err)
	assert.Equal(t, "delivered", status)
}

func TestBalance(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_balance", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":          200,
			"current_balance": 1250.50,
		})
	})

	balance, err := client.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1250.50, balance)
}

func validRequest() steadfast.ConsignmentRequest {
	return steadfast.ConsignmentRequest{
		Invoice:          "ORD-1",
		RecipientName:    "Test Customer",
		RecipientPhone:   "01712345678",
		RecipientAddress: "12 Test Road, Dhaka",
		CODAmount:        10.00,
	}
}
