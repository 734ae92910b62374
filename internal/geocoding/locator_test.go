package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLocator_Locate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "success", "lat": 48.0833, "lon": 7.3667, "city": "Colmar"}`))
	}))
	defer server.Close()

	loc, err := NewLocator(server.URL, nil).Locate(context.Background())
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if loc.Latitude != 48.0833 || loc.Longitude != 7.3667 {
		t.Errorf("Locate() = %v, %v", loc.Latitude, loc.Longitude)
	}
	if loc.CityName != "" {
		t.Errorf("CityName = %q, want empty so it is reverse geocoded", loc.CityName)
	}
}

func TestLocator_Failure(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"api failure", http.StatusOK, `{"status": "fail", "message": "private range"}`},
		{"invalid coordinates", http.StatusOK, `{"status": "success", "lat": 123, "lon": 7}`},
		{"http error", http.StatusTooManyRequests, ``},
		{"bad json", http.StatusOK, `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			if _, err := NewLocator(server.URL, nil).Locate(context.Background()); err == nil {
				t.Error("Locate() should fail")
			}
		})
	}
}

func TestNewLocator_DefaultURL(t *testing.T) {
	if l := NewLocator("", nil); l.url != DefaultLocatorURL {
		t.Errorf("url = %s, want %s", l.url, DefaultLocatorURL)
	}
}
