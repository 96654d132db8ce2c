package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/echomine/planetctl/internal/testutil/testlog"
	"github.com/echomine/planetctl/internal/workspace"
)

const datasetCSV = `Planet ID,Region,Constellation,System,Planet Name,Planet Type,Resource,Richness,Output
1,RegionOfA,C1,Alpha,Alpha I,Temperate,Veldspar,Rich,100
2,RegionOfB,C1,Beta,Beta I,Ice,Ice,Medium,50
3,RegionOfC,C2,Gamma,Gamma I,Lava,Veldspar,Perfect,80
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	log := testlog.Start(t)
	dir := t.TempDir()
	datasetPath := filepath.Join(dir, "deposits.csv")
	if err := os.WriteFile(datasetPath, []byte(datasetCSV), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	ws, err := workspace.Open(workspace.Config{
		DatasetPath: datasetPath,
		DataRoot:    filepath.Join(dir, "data"),
	}, log)
	if err != nil {
		t.Fatalf("open workspace: %v", err)
	}
	t.Cleanup(func() { ws.Close() })

	return NewServer(Config{ListenAddr: ":0"}, ws, log)
}

func do(t *testing.T, s *Server, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return out
}

func TestHealthAndReady(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/health", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status: %d", w.Code)
	}

	w = do(t, s, http.MethodGet, "/ready", nil, "")
	body := decode(t, w)
	if body["planets"].(float64) != 3 {
		t.Fatalf("unexpected ready payload: %v", body)
	}
}

func TestEnumerationEndpoints(t *testing.T) {
	s := newTestServer(t)

	body := decode(t, do(t, s, http.MethodGet, "/api/regions", nil, ""))
	if regions := body["regions"].([]any); len(regions) != 3 {
		t.Fatalf("unexpected regions: %v", regions)
	}

	body = decode(t, do(t, s, http.MethodGet, "/api/systems?constellation=C1", nil, ""))
	if systems := body["systems"].([]any); len(systems) != 2 {
		t.Fatalf("unexpected filtered systems: %v", systems)
	}

	body = decode(t, do(t, s, http.MethodGet, "/api/resources", nil, ""))
	if resources := body["resources"].([]any); len(resources) != 2 {
		t.Fatalf("unexpected resources: %v", resources)
	}
}

func TestMiningUnitsAndRankings(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPut, "/api/prices", []byte(`{"Veldspar":10,"Ice":2}`), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("put prices: %d %s", w.Code, w.Body.String())
	}

	w = do(t, s, http.MethodPut, "/api/mining-units",
		[]byte(`{"planet_id":1,"resource":"Veldspar","units":5}`), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("put mining units: %d %s", w.Code, w.Body.String())
	}
	w = do(t, s, http.MethodPut, "/api/mining-units",
		[]byte(`{"planet_id":2,"resource":"Ice","units":10}`), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("put mining units: %d %s", w.Code, w.Body.String())
	}

	body := decode(t, do(t, s, http.MethodGet, "/api/rankings/planets?n=1", nil, ""))
	planets := body["planets"].([]any)
	if len(planets) != 1 {
		t.Fatalf("expected 1 ranked planet, got %v", planets)
	}
	top := planets[0].(map[string]any)
	if top["value"].(float64) != 5000 {
		t.Fatalf("unexpected top value: %v", top["value"])
	}

	body = decode(t, do(t, s, http.MethodGet, "/api/rankings/systems?n=2", nil, ""))
	systems := body["systems"].([]any)
	first := systems[0].(map[string]any)
	if first["system"] != "Alpha" || first["value"].(float64) != 5000 {
		t.Fatalf("unexpected system ranking: %v", systems)
	}
}

func TestMiningUnitsRejectsUnknownDeposit(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPut, "/api/mining-units",
		[]byte(`{"planet_id":99,"resource":"Veldspar","units":5}`), "application/json")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = do(t, s, http.MethodPut, "/api/mining-units",
		[]byte(`{"planet_id":1,"resource":"Veldspar"}`), "application/json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing units, got %d", w.Code)
	}
}

func TestRoutesSuggestion(t *testing.T) {
	s := newTestServer(t)

	body := decode(t, do(t, s, http.MethodGet, "/api/routes?start=Alpha", nil, ""))
	if candidates := body["candidates"].([]any); len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %v", candidates)
	}

	body = decode(t, do(t, s, http.MethodGet, "/api/routes?start=Alhpa", nil, ""))
	if body["candidates"] != nil {
		t.Fatalf("unknown system should have no candidates: %v", body)
	}
	if body["suggestion"] != "Alpha" {
		t.Fatalf("expected suggestion Alpha, got %v", body["suggestion"])
	}
}

func TestDistributionEndpoint(t *testing.T) {
	s := newTestServer(t)

	body := decode(t, do(t, s, http.MethodGet, "/api/distribution/Veldspar", nil, ""))
	dist := body["distribution"].(map[string]any)
	if dist["RegionOfA"].(float64) != 1 || dist["RegionOfC"].(float64) != 1 {
		t.Fatalf("unexpected distribution: %v", dist)
	}
}

func TestPriceImportEndpoint(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "market-2026-08-29.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("resource,average\nVeldspar,12\nbogus-row,\n")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	w := do(t, s, http.MethodPost, "/api/prices/import", buf.Bytes(), mw.FormDataContentType())
	if w.Code != http.StatusOK {
		t.Fatalf("import: %d %s", w.Code, w.Body.String())
	}

	body := decode(t, do(t, s, http.MethodGet, "/api/prices", nil, ""))
	priceMap := body["prices"].(map[string]any)
	if priceMap["Veldspar"].(float64) != 12 {
		t.Fatalf("imported price missing: %v", priceMap)
	}
}

func TestPriceReplaceEndpoint(t *testing.T) {
	s := newTestServer(t)

	do(t, s, http.MethodPut, "/api/prices", []byte(`{"Veldspar":10}`), "application/json")
	w := do(t, s, http.MethodPost, "/api/prices/replace", []byte(`{"Ice":2}`), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("replace: %d", w.Code)
	}

	body := decode(t, do(t, s, http.MethodGet, "/api/prices", nil, ""))
	priceMap := body["prices"].(map[string]any)
	if _, ok := priceMap["Veldspar"]; ok {
		t.Fatalf("replace should drop old keys: %v", priceMap)
	}
	if priceMap["Ice"].(float64) != 2 {
		t.Fatalf("replace missing new key: %v", priceMap)
	}
}

func TestCorsAndUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", strings.NewReader(""))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown route: %d", w.Code)
	}
}
