package location_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"yckf-go/internal/config"
	"yckf-go/internal/location"
	"yckf-go/internal/testutil"
)

func TestHTTPProvider(t *testing.T) {
	ctx := context.Background()
	clock := testutil.FixedClock()

	t.Run("decodes the fix and stamps the time", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"latitude": 6.524379, "longitude": 3.379206, "accuracy": 25}`))
		}))
		defer srv.Close()

		p := location.NewHTTPProvider(config.LocationConfig{Endpoint: srv.URL}, clock)
		loc, err := p.CurrentLocation(ctx)
		if err != nil {
			t.Fatalf("CurrentLocation() error = %v", err)
		}
		if loc == nil {
			t.Fatal("CurrentLocation() returned nil fix")
		}
		if loc.Latitude != 6.524379 || loc.Longitude != 3.379206 || loc.Accuracy != 25 {
			t.Errorf("fix = %+v", loc)
		}
		if loc.Timestamp != clock.Now().UnixMilli() {
			t.Errorf("Timestamp = %d, want %d", loc.Timestamp, clock.Now().UnixMilli())
		}
	})

	t.Run("no endpoint means unavailable, not an error", func(t *testing.T) {
		p := location.NewHTTPProvider(config.LocationConfig{}, clock)
		loc, err := p.CurrentLocation(ctx)
		if err != nil {
			t.Fatalf("CurrentLocation() error = %v", err)
		}
		if loc != nil {
			t.Errorf("fix = %+v, want nil", loc)
		}
	})

	t.Run("non-200 answers are errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "denied", http.StatusForbidden)
		}))
		defer srv.Close()

		p := location.NewHTTPProvider(config.LocationConfig{Endpoint: srv.URL}, clock)
		if _, err := p.CurrentLocation(ctx); err == nil {
			t.Error("CurrentLocation() expected error for 403")
		}
	})

	t.Run("garbage bodies are errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		p := location.NewHTTPProvider(config.LocationConfig{Endpoint: srv.URL}, clock)
		if _, err := p.CurrentLocation(ctx); err == nil {
			t.Error("CurrentLocation() expected error for a garbage body")
		}
	})
}
