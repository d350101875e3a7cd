package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/field15/internal/adapters/http"
	"github.com/samirrijal/field15/internal/core/domain"
	"github.com/samirrijal/field15/internal/core/usecases"
)

// ---- Mock catalog ----

type mockCatalog struct {
	lookupFixFn     func(name string) []domain.Fix
	lookupAirportFn func(icao string) (domain.Airport, bool)
	lookupAirwayFn  func(name string) []domain.ResolvedRoute
	lookupSIDFn     func(name string) []domain.ResolvedRoute
	lookupSTARFn    func(name string) []domain.ResolvedRoute
	sidExitFn       func(name string) []domain.Fix
	starEntryFn     func(name string) []domain.Fix
	statsFn         func() domain.CatalogStats
}

func (m *mockCatalog) LookupFix(name string) []domain.Fix {
	if m.lookupFixFn != nil {
		return m.lookupFixFn(name)
	}
	return nil
}

func (m *mockCatalog) LookupAirport(icao string) (domain.Airport, bool) {
	if m.lookupAirportFn != nil {
		return m.lookupAirportFn(icao)
	}
	return domain.Airport{}, false
}

func (m *mockCatalog) LookupAirway(name string) []domain.ResolvedRoute {
	if m.lookupAirwayFn != nil {
		return m.lookupAirwayFn(name)
	}
	return nil
}

func (m *mockCatalog) LookupSID(name string) []domain.ResolvedRoute {
	if m.lookupSIDFn != nil {
		return m.lookupSIDFn(name)
	}
	return nil
}

func (m *mockCatalog) LookupSTAR(name string) []domain.ResolvedRoute {
	if m.lookupSTARFn != nil {
		return m.lookupSTARFn(name)
	}
	return nil
}

func (m *mockCatalog) SIDExitFixes(name string) []domain.Fix {
	if m.sidExitFn != nil {
		return m.sidExitFn(name)
	}
	return nil
}

func (m *mockCatalog) STAREntryFixes(name string) []domain.Fix {
	if m.starEntryFn != nil {
		return m.starEntryFn(name)
	}
	return nil
}

func (m *mockCatalog) Stats() domain.CatalogStats {
	if m.statsFn != nil {
		return m.statsFn()
	}
	return domain.CatalogStats{LoadedAt: time.Now()}
}

// ---- Mock repositories ----

type mockFixRepo struct {
	searchFn     func(ctx context.Context, query string, limit int) ([]domain.Fix, error)
	findNearbyFn func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Fix, error)
	getAirportFn func(ctx context.Context, icao string) (*domain.Airport, error)
	countsFn     func(ctx context.Context) (map[string]int64, error)
}

func (m *mockFixRepo) UpsertAirports(ctx context.Context, a []domain.Airport) error { return nil }
func (m *mockFixRepo) UpsertNavaids(ctx context.Context, n []domain.Navaid) error   { return nil }
func (m *mockFixRepo) UpsertDesignatedPoints(ctx context.Context, p []domain.DesignatedPoint) error {
	return nil
}
func (m *mockFixRepo) Search(ctx context.Context, query string, limit int) ([]domain.Fix, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return nil, nil
}
func (m *mockFixRepo) FindNearby(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Fix, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, lat, lon, radius, limit)
	}
	return nil, nil
}
func (m *mockFixRepo) GetAirportByICAO(ctx context.Context, icao string) (*domain.Airport, error) {
	if m.getAirportFn != nil {
		return m.getAirportFn(ctx, icao)
	}
	return nil, domain.ErrNotFound
}
func (m *mockFixRepo) Counts(ctx context.Context) (map[string]int64, error) {
	if m.countsFn != nil {
		return m.countsFn(ctx)
	}
	return nil, nil
}

type mockAirwayRepo struct {
	getByDesignatorFn  func(ctx context.Context, designator string) ([]domain.Airway, error)
	segmentsByAirwayFn func(ctx context.Context, airwayAIXMID string) ([]domain.AirwaySegment, error)
}

func (m *mockAirwayRepo) UpsertAirways(ctx context.Context, a []domain.Airway) error { return nil }
func (m *mockAirwayRepo) UpsertSegments(ctx context.Context, s []domain.AirwaySegment) error {
	return nil
}
func (m *mockAirwayRepo) GetByDesignator(ctx context.Context, designator string) ([]domain.Airway, error) {
	if m.getByDesignatorFn != nil {
		return m.getByDesignatorFn(ctx, designator)
	}
	return nil, nil
}
func (m *mockAirwayRepo) SegmentsByAirway(ctx context.Context, airwayAIXMID string) ([]domain.AirwaySegment, error) {
	if m.segmentsByAirwayFn != nil {
		return m.segmentsByAirwayFn(ctx, airwayAIXMID)
	}
	return nil, nil
}

// ---- Test helpers ----

func dp(id, name string, lat, lon float64) domain.Fix {
	return domain.Fix{Kind: domain.FixDesignatedPoint, ID: id, Name: name, Latitude: lat, Longitude: lon}
}

// routeCatalog publishes BAVTA, NOSPA and ODEBU plus the airway UN871
// running through all three.
func routeCatalog() *mockCatalog {
	bavta := dp("dp-bavta", "BAVTA", 52.0, 4.5)
	nospa := dp("dp-nospa", "NOSPA", 52.3, 5.0)
	odebu := dp("dp-odebu", "ODEBU", 52.6, 5.5)

	return &mockCatalog{
		lookupFixFn: func(name string) []domain.Fix {
			switch name {
			case "BAVTA":
				return []domain.Fix{bavta}
			case "NOSPA":
				return []domain.Fix{nospa}
			case "ODEBU":
				return []domain.Fix{odebu}
			}
			return nil
		},
		lookupAirwayFn: func(name string) []domain.ResolvedRoute {
			if name != "UN871" {
				return nil
			}
			return []domain.ResolvedRoute{{
				Name: "UN871",
				Segments: []domain.ResolvedSegment{
					{Start: bavta, End: nospa, Name: "UN871"},
					{Start: nospa, End: odebu, Name: "UN871"},
				},
			}}
		},
	}
}

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	catalog := routeCatalog()
	d := &handler.Dependencies{
		Resolver: usecases.NewResolverService(catalog, nil, nil, nil),
		Navdata:  usecases.NewNavdataService(&mockFixRepo{}, &mockAirwayRepo{}, nil),
		Catalog:  catalog,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

// ---- Resolve handler tests ----

func TestResolveRoute_Success(t *testing.T) {
	app := setupApp(makeDeps())

	body := bytes.NewBufferString(`{"route":"BAVTA UN871 ODEBU"}`)
	req := httptest.NewRequest("POST", "/v1/routes/resolve", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}

	var result struct {
		Segments []domain.Segment `json:"segments"`
		Count    int              `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Count != 2 {
		t.Fatalf("expected 2 segments, got %d", result.Count)
	}
	if result.Segments[0].Name != "UN871" {
		t.Errorf("expected segment named UN871, got %q", result.Segments[0].Name)
	}
}

func TestResolveRoute_MissingRoute(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/routes/resolve", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var apiErr struct {
		Code string `json:"code"`
	}
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "bad_request" {
		t.Errorf("expected bad_request error, got %s", apiErr.Code)
	}
}

func TestResolveRoute_Unknown(t *testing.T) {
	app := setupApp(makeDeps())

	body := bytes.NewBufferString(`{"route":"XXXXX YYYYY"}`)
	req := httptest.NewRequest("POST", "/v1/routes/resolve", body)
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 422 {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestResolveRoute_NoCatalog(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Resolver = usecases.NewResolverService(nil, nil, nil, nil)
	})
	app := setupApp(deps)

	body := bytes.NewBufferString(`{"route":"BAVTA DCT NOSPA"}`)
	req := httptest.NewRequest("POST", "/v1/routes/resolve", body)
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

// ---- Flatten handler tests ----

func TestFlattenRoute_FromRouteString(t *testing.T) {
	app := setupApp(makeDeps())

	body := bytes.NewBufferString(`{"route":"BAVTA UN871 ODEBU"}`)
	req := httptest.NewRequest("POST", "/v1/routes/flatten", body)
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}

	var result struct {
		Points []domain.Point `json:"points"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(result.Points))
	}
	if result.Points[0].Name != "BAVTA" || result.Points[2].Name != "ODEBU" {
		t.Errorf("unexpected point order: %+v", result.Points)
	}
}

func TestFlattenRoute_FromSegments(t *testing.T) {
	app := setupApp(makeDeps())

	body := bytes.NewBufferString(`{"segments":[
		{"start":{"latitude":52,"longitude":4.5,"name":"BAVTA"},"end":{"latitude":52.3,"longitude":5,"name":"NOSPA"}},
		{"start":{"latitude":52.3,"longitude":5,"name":"NOSPA"},"end":{"latitude":52.6,"longitude":5.5,"name":"ODEBU"}}
	]}`)
	req := httptest.NewRequest("POST", "/v1/routes/flatten", body)
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Points []domain.Point `json:"points"`
		Count  int            `json:"count"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Count != 3 {
		t.Fatalf("expected 3 deduplicated points, got %d", result.Count)
	}
}

func TestFlattenRoute_MissingBody(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/routes/flatten", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// ---- Fix handler tests ----

func TestSearchFixes_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Navdata = usecases.NewNavdataService(&mockFixRepo{
			searchFn: func(ctx context.Context, query string, limit int) ([]domain.Fix, error) {
				return []domain.Fix{dp("dp-bavta", "BAVTA", 52, 4.5)}, nil
			},
		}, &mockAirwayRepo{}, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/fixes/search?q=BAV", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var fixes []domain.Fix
	json.NewDecoder(resp.Body).Decode(&fixes)
	if len(fixes) != 1 {
		t.Errorf("expected 1 fix, got %d", len(fixes))
	}
}

func TestSearchFixes_MissingQuery(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/fixes/search", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestNearbyFixes_MissingParams(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/fixes/nearby", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestNearbyFixes_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Navdata = usecases.NewNavdataService(&mockFixRepo{
			findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Fix, error) {
				return []domain.Fix{dp("dp-nospa", "NOSPA", 52.3, 5)}, nil
			},
		}, &mockAirwayRepo{}, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/fixes/nearby?lat=52.3&lon=5&radius=10000", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cc := resp.Header.Get("Cache-Control")
	if cc != "public, max-age=300" {
		t.Errorf("expected Cache-Control header, got %q", cc)
	}
}

func TestGetFix_Success(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/fixes/BAVTA", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var fixes []domain.Fix
	json.NewDecoder(resp.Body).Decode(&fixes)
	if len(fixes) != 1 || fixes[0].Name != "BAVTA" {
		t.Errorf("unexpected fixes: %+v", fixes)
	}
}

func TestGetFix_NotFound(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/fixes/XXXXX", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

// ---- Deprecated points alias ----

func TestGetPoint_DeprecationHeaders(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/points/BAVTA", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if resp.Header.Get("Deprecation") != "true" {
		t.Error("expected Deprecation header on /v1/points")
	}
	if resp.Header.Get("Sunset") == "" {
		t.Error("expected Sunset header on /v1/points")
	}
}

// ---- Airway handler tests ----

func TestGetAirway_Success(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/airways/UN871", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Designator string                 `json:"designator"`
		Variants   []domain.ResolvedRoute `json:"variants"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Designator != "UN871" {
		t.Errorf("expected designator UN871, got %s", result.Designator)
	}
	if len(result.Variants) != 1 || len(result.Variants[0].Segments) != 2 {
		t.Errorf("unexpected variants: %+v", result.Variants)
	}
}

func TestGetAirway_NotFound(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/airways/Z999", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

// Without a loaded catalog the airway endpoint falls back to the
// persisted cycle, mirroring the airport lookup order.
func TestGetAirway_DatabaseFallback(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Catalog = nil
		d.Navdata = usecases.NewNavdataService(&mockFixRepo{}, &mockAirwayRepo{
			getByDesignatorFn: func(ctx context.Context, designator string) ([]domain.Airway, error) {
				if designator != "UN871" {
					return nil, nil
				}
				return []domain.Airway{
					{AIXMID: "rte-un871", Prefix: "U", SecondLetter: "N", Number: "871"},
				}, nil
			},
		}, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/airways/UN871", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Designator string          `json:"designator"`
		Variants   []domain.Airway `json:"variants"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Designator != "UN871" {
		t.Errorf("expected designator UN871, got %s", result.Designator)
	}
	if len(result.Variants) != 1 || result.Variants[0].AIXMID != "rte-un871" {
		t.Errorf("unexpected variants: %+v", result.Variants)
	}
}

func TestAirwaySegments_Pagination(t *testing.T) {
	segments := make([]domain.AirwaySegment, 5)
	for i := range segments {
		segments[i] = domain.AirwaySegment{
			AIXMID:      "seg-" + string(rune('a'+i)),
			RouteFormed: "rte-un871",
		}
	}

	deps := makeDeps(func(d *handler.Dependencies) {
		d.Navdata = usecases.NewNavdataService(&mockFixRepo{}, &mockAirwayRepo{
			segmentsByAirwayFn: func(ctx context.Context, airwayAIXMID string) ([]domain.AirwaySegment, error) {
				return segments, nil
			},
		}, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/airways/rte-un871/segments?offset=2&limit=2", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.AirwaySegment `json:"data"`
		Pagination struct {
			Offset int `json:"offset"`
			Total  int `json:"total"`
		} `json:"pagination"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Pagination.Total != 5 {
		t.Errorf("expected total 5, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 2 {
		t.Errorf("expected 2 segments in page, got %d", len(result.Data))
	}

	link := resp.Header.Get("Link")
	if !strings.Contains(link, `rel="next"`) || !strings.Contains(link, `rel="first"`) {
		t.Errorf("expected pagination links, got %s", link)
	}
}

// ---- Airport handler tests ----

func TestGetAirport_FromCatalog(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		catalog := routeCatalog()
		catalog.lookupAirportFn = func(icao string) (domain.Airport, bool) {
			if icao == "EHAM" {
				return domain.Airport{AIXMID: "ap-eham", ICAO: "EHAM", Name: "AMSTERDAM/SCHIPHOL"}, true
			}
			return domain.Airport{}, false
		}
		d.Catalog = catalog
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/airports/EHAM", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var airport domain.Airport
	json.NewDecoder(resp.Body).Decode(&airport)
	if airport.Name != "AMSTERDAM/SCHIPHOL" {
		t.Errorf("unexpected airport: %+v", airport)
	}
}

func TestGetAirport_NotFound(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/airports/ZZZZ", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetAirport_BadICAO(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/airports/TOOLONG", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// ---- Procedure handler tests ----

func TestGetProcedure_SID(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		catalog := routeCatalog()
		catalog.lookupSIDFn = func(name string) []domain.ResolvedRoute {
			if name != "OBOKA2N" {
				return nil
			}
			return []domain.ResolvedRoute{{Name: "OBOKA2N"}}
		}
		catalog.sidExitFn = func(name string) []domain.Fix {
			return []domain.Fix{dp("dp-bavta", "BAVTA", 52, 4.5)}
		}
		d.Catalog = catalog
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/procedures/OBOKA2N", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		SIDs      []domain.ResolvedRoute `json:"sids"`
		ExitFixes []domain.Fix           `json:"exit_fixes"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.SIDs) != 1 {
		t.Errorf("expected 1 SID, got %d", len(result.SIDs))
	}
	if len(result.ExitFixes) != 1 || result.ExitFixes[0].Name != "BAVTA" {
		t.Errorf("unexpected exit fixes: %+v", result.ExitFixes)
	}
}

func TestGetProcedure_NotFound(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/procedures/NONEX1A", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

// ---- Catalog status ----

func TestCatalogStatus(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		catalog := routeCatalog()
		catalog.statsFn = func() domain.CatalogStats {
			return domain.CatalogStats{DesignatedPoints: 3, Airways: 1, LoadedAt: time.Now()}
		}
		d.Catalog = catalog
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/catalog/status", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Catalog domain.CatalogStats `json:"catalog"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Catalog.DesignatedPoints != 3 {
		t.Errorf("expected 3 designated points, got %d", result.Catalog.DesignatedPoints)
	}
}

// ---- Health handler tests ----

func TestHealth_Returns200(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if result["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", result["status"])
	}
}

func TestReady_CatalogLoaded(t *testing.T) {
	// DB, NATS, Cache nil are reported but only the catalog gates readiness
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/ready", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestReady_NoCatalog(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Catalog = nil
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/ready", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

// ---- X-API-Version header ----

func TestAPIVersionHeader(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	v := resp.Header.Get("X-API-Version")
	if v != "1.0.0" {
		t.Errorf("expected X-API-Version 1.0.0, got %q", v)
	}
}

// ---- GraphQL ----

func TestGraphQL_ResolveRoute(t *testing.T) {
	app := setupApp(makeDeps())

	body := bytes.NewBufferString(`{"query":"{ resolveRoute(route: \"BAVTA UN871 ODEBU\") { name } }"}`)
	req := httptest.NewRequest("POST", "/graphql", body)
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			ResolveRoute []struct {
				Name string `json:"name"`
			} `json:"resolveRoute"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected graphql errors: %v", result.Errors)
	}
	if len(result.Data.ResolveRoute) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(result.Data.ResolveRoute))
	}
}

// A catalog-only deployment has no search index; the GraphQL resolvers
// must return a clean error instead of dereferencing a nil service.
func TestGraphQL_SearchFixes_NoDatabase(t *testing.T) {
	app := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.Navdata = nil
	}))

	body := bytes.NewBufferString(`{"query":"{ searchFixes(query: \"BAV\") { name } }"}`)
	req := httptest.NewRequest("POST", "/graphql", body)
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 graphql error, got %d", len(result.Errors))
	}
	if result.Errors[0].Message != "search index not available" {
		t.Errorf("unexpected error message: %q", result.Errors[0].Message)
	}
}

func TestGraphQL_FixesNearby_NoDatabase(t *testing.T) {
	app := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.Navdata = nil
	}))

	body := bytes.NewBufferString(`{"query":"{ fixesNearby(lat: 52.3, lon: 5.0) { name } }"}`)
	req := httptest.NewRequest("POST", "/graphql", body)
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Errors) != 1 || result.Errors[0].Message != "search index not available" {
		t.Errorf("expected search index error, got %+v", result.Errors)
	}
}

// TestAccessLogMiddleware verifies structured access logging is emitted.
func TestAccessLogMiddleware(t *testing.T) {
	app := fiber.New()

	// Register middleware
	app.Use(handler.AccessLogMiddleware())

	// Simple test route
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	})

	// Make request
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "test-req-123")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	// Verify response body
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "ok") {
		t.Errorf("expected response body to contain 'ok', got %s", string(body))
	}
}
