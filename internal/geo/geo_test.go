package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveAddress(t *testing.T, body reverseResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(body)
	}))
}

func TestLabelPriority(t *testing.T) {
	cases := []struct {
		name string
		resp reverseResponse
		want string
	}{
		{"city wins", reverseResponse{Address: Address{City: "Lahore", Town: "Model Town"}}, "Lahore"},
		{"town next", reverseResponse{Address: Address{Town: "Murree", County: "Rawalpindi"}}, "Murree"},
		{"village next", reverseResponse{Address: Address{Village: "Saidpur"}}, "Saidpur"},
		{"suburb next", reverseResponse{Address: Address{Suburb: "Gulberg", Postcode: "54000"}}, "Gulberg"},
		{"county next", reverseResponse{Address: Address{County: "Kasur"}}, "Kasur"},
		{"postcode next", reverseResponse{Address: Address{Postcode: "54000"}}, "54000"},
		{"display name truncated", reverseResponse{DisplayName: "Badshahi Mosque, Walled City, Lahore, Punjab"}, "Badshahi Mosque, Walled City"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveAddress(t, tt.resp)
			defer srv.Close()

			got := NewClient(srv.URL).Label(context.Background(), 31.5880, 74.3107)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabelFallsBackToCoordinates(t *testing.T) {
	// Empty response body at all: no address, no display name.
	srv := serveAddress(t, reverseResponse{})
	defer srv.Close()

	got := NewClient(srv.URL).Label(context.Background(), 31.5880, 74.3107)
	assert.Equal(t, "31.5880, 74.3107", got)
}

func TestLabelNetworkFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close() // connection refused from here on

	got := NewClient(srv.URL).Label(context.Background(), 31.5880, 74.3107)
	assert.Equal(t, "31.5880, 74.3107", got)
}

func TestLabelNonOKFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	got := NewClient(srv.URL).Label(context.Background(), 31.5880, 74.3107)
	assert.Equal(t, "31.5880, 74.3107", got)
}
