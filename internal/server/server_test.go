package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/raaihank/phi-cleanse/internal/catalog"
	"github.com/raaihank/phi-cleanse/internal/config"
	"github.com/raaihank/phi-cleanse/internal/detect"
	"github.com/raaihank/phi-cleanse/internal/mapping"
	"github.com/raaihank/phi-cleanse/internal/sanitize"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.GetDefaults()
	cfg.Server.RateLimit.Enabled = false
	cfg.Events.Enabled = false
	cfg.Engine.ConfigsDir = t.TempDir()

	cat := catalog.FromEntries([]catalog.Entry{
		{PrimaryField: "full_name", Aliases: []string{"patient name", "name"}},
		{PrimaryField: "ssn", Aliases: []string{"social security number"}},
	}, zap.NewNop())

	return New(Options{
		Config:   cfg,
		Detector: detect.New(cat, cfg.Engine.FuzzyThreshold, zap.NewNop()),
		Store:    mapping.NewFileStore(t.TempDir(), zap.NewNop()),
		Sanitize: sanitize.Options{Logger: zap.NewNop()},
	}, zap.NewNop())
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("Unexpected status: %q", resp["status"])
	}
}

func TestInfoEndpoint(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodGet, "/info", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["service"] != "phi-cleanse" {
		t.Errorf("Unexpected service name: %v", resp["service"])
	}
}

func TestDetectEndpoint(t *testing.T) {
	s := testServer(t)

	t.Run("classifies columns", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/v1/detect", map[string]interface{}{
			"columns": []string{"patient name", "ssn", "notes"},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Detected map[string]detect.Result `json:"detected"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if len(resp.Detected) != 2 {
			t.Errorf("Expected 2 detections, got %v", resp.Detected)
		}
		if resp.Detected["patient name"].FieldType != "full_name" {
			t.Errorf("Unexpected detection: %+v", resp.Detected["patient name"])
		}
	})

	t.Run("rejects empty column list", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/v1/detect", map[string]interface{}{})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/detect", bytes.NewBufferString("{nope"))
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})
}

func TestSanitizeEndpoint(t *testing.T) {
	s := testServer(t)

	body := map[string]interface{}{
		"table": map[string]interface{}{
			"columns": []string{"name", "ssn"},
			"rows": [][]string{
				{"John Smith", "111-22-3333"},
				{"Jane Doe", "444-55-6666"},
			},
		},
		"fields": map[string]interface{}{
			"name": map[string]interface{}{"field_type": "full_name", "preserve_format": true},
			"ssn":  map[string]interface{}{"field_type": "ssn", "preserve_format": true},
		},
	}

	rec := doJSON(t, s, http.MethodPost, "/v1/sanitize", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp sanitizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if resp.Table.Rows[0][0] == "John Smith" {
		t.Error("name column was not sanitized")
	}
	if resp.Table.Rows[0][1] == "111-22-3333" {
		t.Error("ssn column was not sanitized")
	}
	if len(resp.Detected) != 2 {
		t.Errorf("Expected detection results in the response, got %v", resp.Detected)
	}
}

func TestSanitizeEndpointValidation(t *testing.T) {
	s := testServer(t)

	t.Run("missing table", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/v1/sanitize", map[string]interface{}{})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("table too small", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/v1/sanitize", map[string]interface{}{
			"table": map[string]interface{}{"columns": []string{"only"}, "rows": [][]string{{"x"}}},
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("overlapping groups", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/v1/sanitize", map[string]interface{}{
			"table": map[string]interface{}{
				"columns": []string{"name", "ssn"},
				"rows":    [][]string{{"a", "b"}},
			},
			"common_records": map[string][]string{
				"g1": {"name"},
				"g2": {"name"},
			},
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})
}

func TestConfigurationEndpoints(t *testing.T) {
	s := testServer(t)

	cfg := map[string]interface{}{
		"field_configs": map[string]interface{}{
			"name": map[string]interface{}{"field_type": "full_name", "preserve_format": true, "consistent_mapping": true},
		},
		"common_records": map[string][]string{"patient": {"name"}},
	}

	t.Run("put saves", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPut, "/v1/configurations/intake", cfg)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("list shows saved names", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/v1/configurations", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}

		var resp map[string][]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if len(resp["configurations"]) != 1 || resp["configurations"][0] != "intake" {
			t.Errorf("Unexpected configurations: %v", resp)
		}
	})

	t.Run("get returns the saved configuration", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/v1/configurations/intake", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}

		var resp struct {
			FieldConfigs map[string]struct {
				FieldType string `json:"field_type"`
			} `json:"field_configs"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.FieldConfigs["name"].FieldType != "full_name" {
			t.Errorf("Unexpected configuration: %+v", resp)
		}
	})

	t.Run("get of a missing configuration is 404", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/v1/configurations/nope", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rec.Code)
		}
	})
}

func TestRateLimit(t *testing.T) {
	cfg := config.GetDefaults()
	cfg.Server.RateLimit.Enabled = true
	cfg.Server.RateLimit.RequestsPerMin = 60
	cfg.Server.RateLimit.Burst = 2
	cfg.Events.Enabled = false
	cfg.Engine.ConfigsDir = t.TempDir()

	cat := catalog.FromEntries(nil, zap.NewNop())
	s := New(Options{
		Config:   cfg,
		Detector: detect.New(cat, 0.7, zap.NewNop()),
		Store:    mapping.NewFileStore(t.TempDir(), zap.NewNop()),
		Sanitize: sanitize.Options{Logger: zap.NewNop()},
	}, zap.NewNop())
	defer s.rateLimiter.stop()

	limited := false
	for i := 0; i < 5; i++ {
		rec := doJSON(t, s, http.MethodGet, "/health", nil)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
		}
	}
	if !limited {
		t.Error("Expected the burst to be exhausted within 5 requests")
	}
}
