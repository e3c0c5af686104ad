package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/riskboard/riskboard/internal/domain/report"
	"github.com/riskboard/riskboard/internal/domain/search"
	"github.com/riskboard/riskboard/internal/platform/middleware"
	"github.com/riskboard/riskboard/internal/platform/openfda"
)

// fakeFDA answers like the openFDA event endpoint: time buckets for
// count=receivedate, term buckets for the known indication, and the
// endpoint's 404-with-error-body shape for everything else.
func fakeFDA(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		searchExpr := r.URL.Query().Get("search")
		count := r.URL.Query().Get("count")

		if strings.Contains(searchExpr, "ZZZZ") {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"code":"NOT_FOUND","message":"No matches found!"}}`)
			return
		}

		if count == openfda.CountReceiveDate {
			fmt.Fprint(w, `{"results":[
				{"time":"20031201","count":9},
				{"time":"20100101","count":3},
				{"time":"20100615","count":2},
				{"time":"20120401","count":4}
			]}`)
			return
		}

		fmt.Fprint(w, `{"results":[
			{"term":"METFORMIN","count":120},
			{"term":"INSULIN","count":80}
		]}`)
	}))
}

// newServer wires the echo app the way the serve command does, pointed at
// the fake endpoint and with a short fetch stagger.
func newServer(t *testing.T, fdaURL string) *echo.Echo {
	t.Helper()
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)

	gateway := openfda.NewClient(fdaURL, 2*time.Second, logger)
	coordinator := report.NewCoordinator(gateway, 2*time.Millisecond, logger)
	searchSvc := search.NewService(gateway, 5, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))

	apiV1 := e.Group("/api/v1")
	report.NewHandler(coordinator).RegisterRoutes(apiV1)
	search.NewHandler(searchSvc).RegisterRoutes(apiV1)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return rec
}

func TestReportLifecycle(t *testing.T) {
	fda := fakeFDA(t)
	defer fda.Close()
	e := newServer(t, fda.URL)

	survey := map[string]any{
		"height_cm":      180,
		"weight_kg":      90,
		"age":            55,
		"smokes":         true,
		"activity_level": "sedentary",
	}

	var created report.Report
	rec := doJSON(t, e, http.MethodPost, "/api/v1/reports", survey, &created)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create report: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if created.BMI.Value != 27.8 {
		t.Errorf("expected BMI 27.8, got %v", created.BMI.Value)
	}
	if len(created.Charts) != 10 {
		t.Fatalf("expected 10 charts, got %d", len(created.Charts))
	}
	for _, ch := range created.Charts {
		if ch.Status != report.ChartLoading {
			t.Errorf("chart %d: expected loading at creation, got %s", ch.Rank, ch.Status)
		}
	}

	// Poll until every slot has settled.
	deadline := time.Now().Add(5 * time.Second)
	var current report.Report
	for {
		rec = doJSON(t, e, http.MethodGet, "/api/v1/reports/"+created.ID.String(), nil, &current)
		if rec.Code != http.StatusOK {
			t.Fatalf("get report: expected 200, got %d", rec.Code)
		}
		settled := true
		for _, ch := range current.Charts {
			if ch.Status == report.ChartLoading {
				settled = false
			}
		}
		if settled {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("charts did not settle in time")
		}
		time.Sleep(10 * time.Millisecond)
	}

	for _, ch := range current.Charts {
		if ch.Status != report.ChartReady {
			t.Errorf("chart %d (%s): expected ready, got %s", ch.Rank, ch.Condition, ch.Status)
			continue
		}
		// 2003 records sit below the year floor and must be gone.
		for _, pt := range ch.Series {
			if pt.Year <= "2004" {
				t.Errorf("chart %d: year %s should have been filtered", ch.Rank, pt.Year)
			}
		}
		if len(ch.Series) != 2 {
			t.Errorf("chart %d: expected 2 year buckets, got %d", ch.Rank, len(ch.Series))
		}
	}
}

func TestReportValidationAndLookupErrors(t *testing.T) {
	fda := fakeFDA(t)
	defer fda.Close()
	e := newServer(t, fda.URL)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/reports", map[string]any{"height_cm": 0, "weight_kg": 70}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid survey: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodGet, "/api/v1/reports/not-a-uuid", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad report id: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodGet, "/api/v1/reports/00000000-0000-0000-0000-000000000001", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown report id: expected 404, got %d", rec.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	fda := fakeFDA(t)
	defer fda.Close()
	e := newServer(t, fda.URL)

	var analysis search.Analysis
	rec := doJSON(t, e, http.MethodGet, "/api/v1/search?q=diabetes", nil, &analysis)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if analysis.Kind != search.KindCondition {
		t.Errorf("expected condition match, got %s", analysis.Kind)
	}
	if analysis.Term != "DIABETES" {
		t.Errorf("expected upper-cased term, got %q", analysis.Term)
	}
	if len(analysis.Top) != 2 || analysis.Top[0].Term != "METFORMIN" {
		t.Errorf("unexpected top terms: %+v", analysis.Top)
	}
	if len(analysis.Trend) == 0 {
		t.Error("expected a non-empty trend")
	}
	if !strings.Contains(analysis.Insight, "METFORMIN") {
		t.Errorf("expected insight to name the top term, got %q", analysis.Insight)
	}

	rec = doJSON(t, e, http.MethodGet, "/api/v1/search?q=zzzz", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown query: expected 404, got %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodGet, "/api/v1/search", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing q: expected 400, got %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	fda := fakeFDA(t)
	defer fda.Close()
	e := newServer(t, fda.URL)

	rec := doJSON(t, e, http.MethodGet, "/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("health: expected 200, got %d", rec.Code)
	}
}
