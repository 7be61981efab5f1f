package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callforscience/config"
	"callforscience/i18n"
	"callforscience/models"
	"callforscience/upstream"
	"callforscience/utils"
)

const testCSV = "revista,tematica,tematicaEN,pago,cuartil,resumen,deadline,nombreCFP,link\n" +
	"Revista Uno,biología; química,biology; chemistry,500,Q1,Sí,31/12/2099,CFP Uno,http://uno\n" +
	"Revista Dos,física,physics,1500,Q2,No,31/12/2099,CFP Dos,http://dos\n" +
	"Revista Vieja,historia,history,0,Q3,No,01/01/2000,CFP Vieja,http://vieja\n" +
	",astronomía,astronomy,100,Q1,Sí,31/12/2099,CFP Huerfano,http://x\n"

type stubSource struct {
	body  []byte
	err   error
	calls int
}

func (s *stubSource) Fetch(ctx context.Context) ([]byte, error) {
	s.calls++
	return s.body, s.err
}

func mustBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	bundle, err := i18n.Default("es")
	require.NoError(t, err)
	return bundle
}

func testConfig() *config.Config {
	return &config.Config{
		CacheSMaxAge:    600,
		AllowedOrigins:  []string{"*"},
		DefaultLang:     "es",
		DefaultPageSize: 20,
	}
}

func newTestServer(t *testing.T, src *stubSource) http.Handler {
	t.Helper()
	srv, err := New(testConfig(), src, mustBundle(t), utils.NewNopLogger())
	require.NoError(t, err)
	srv.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }
	return srv.Router()
}

func get(t *testing.T, h http.Handler, target string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, m := range mutate {
		m(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCSVProxyRelaysBody(t *testing.T) {
	src := &stubSource{body: []byte(testCSV)}
	rec := get(t, newTestServer(t, src), "/api/csv")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testCSV, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "s-maxage=600, stale-while-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, 1, src.calls)
}

func TestCSVProxyUpstreamFailure(t *testing.T) {
	src := &stubSource{err: errors.New("upstream: " + upstream.ErrUnavailable.Error())}
	rec := get(t, newTestServer(t, src), "/api/csv")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"CSV unavailable"}`, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Cache-Control"))
	assert.Equal(t, 1, src.calls, "proxy never retries")
}

func TestCSVProxyCORS(t *testing.T) {
	rec := get(t, newTestServer(t, &stubSource{body: []byte(testCSV)}), "/api/csv", func(r *http.Request) {
		r.Header.Set("Origin", "https://example.org")
	})
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

type listingsBody struct {
	Items      []models.Listing `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PerPage    int              `json:"perPage"`
	TotalPages int              `json:"totalPages"`
	Lang       string           `json:"lang"`
}

func decodeListings(t *testing.T, rec *httptest.ResponseRecorder) listingsBody {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body listingsBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestListingsBaseline(t *testing.T) {
	body := decodeListings(t, get(t, newTestServer(t, &stubSource{body: []byte(testCSV)}), "/api/listings"))

	assert.Equal(t, 2, body.Total)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 20, body.PerPage)
	assert.Equal(t, 1, body.TotalPages)
	assert.Equal(t, "es", body.Lang)
	require.Len(t, body.Items, 2)
	assert.Equal(t, "Revista Uno", body.Items[0].Journal)
	assert.Equal(t, "Revista Dos", body.Items[1].Journal)
}

func TestListingsFilters(t *testing.T) {
	h := newTestServer(t, &stubSource{body: []byte(testCSV)})

	body := decodeListings(t, get(t, h, "/api/listings?cuartil=Q2"))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Revista Dos", body.Items[0].Journal)

	body = decodeListings(t, get(t, h, "/api/listings?pago=1000"))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Revista Uno", body.Items[0].Journal)

	body = decodeListings(t, get(t, h, "/api/listings?tematica=physics&lang=en"))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "en", body.Lang)
	assert.Equal(t, "Revista Dos", body.Items[0].Journal)
}

func TestListingsRejectsInvalidCriteria(t *testing.T) {
	h := newTestServer(t, &stubSource{body: []byte(testCSV)})
	for _, target := range []string{
		"/api/listings?cuartil=Q4",
		"/api/listings?resumen=maybe",
		"/api/listings?pago=cheap",
		"/api/listings?pago=NaN",
		"/api/listings?pago=-Inf",
		"/api/listings?perPage=25",
		"/api/listings?page=two",
	} {
		rec := get(t, h, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, rec.Body.String(), models.ErrInvalidCriteria.Error(), target)
	}
}

func TestListingsUpstreamFailure(t *testing.T) {
	rec := get(t, newTestServer(t, &stubSource{err: upstream.ErrUnavailable}), "/api/listings")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"CSV unavailable"}`, rec.Body.String())
}

func TestTopics(t *testing.T) {
	h := newTestServer(t, &stubSource{body: []byte(testCSV)})

	var topics []string
	rec := get(t, h, "/api/topics?lang=en")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &topics))
	assert.Equal(t, []string{"biology", "chemistry", "physics", "history", "astronomy"}, topics, "quarantined rows still suggest topics")

	rec = get(t, newTestServer(t, &stubSource{body: []byte("revista,tematica,tematicaEN,pago,cuartil,resumen,deadline,nombreCFP,link\n")}), "/api/topics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestIndexRendersCards(t *testing.T) {
	rec := get(t, newTestServer(t, &stubSource{body: []byte(testCSV)}), "/?lang=es")

	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, "CFP Uno")
	assert.Contains(t, out, "CFP Dos")
	assert.NotContains(t, out, "CFP Vieja")
	assert.NotContains(t, out, "CFP Huerfano")
	assert.Contains(t, out, "31/dic/2099")
	assert.Contains(t, out, `<option value="astronomía">`)
	assert.Contains(t, out, "2 convocatorias encontradas")
}

func TestIndexLanguageCookie(t *testing.T) {
	h := newTestServer(t, &stubSource{body: []byte(testCSV)})

	rec := get(t, h, "/?lang=en")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "en", rec.Header().Get("Content-Language"))
	assert.Contains(t, rec.Body.String(), "2 calls found")

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == langCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, "en", cookie.Value)

	rec = get(t, h, "/", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: langCookie, Value: "en"}) })
	assert.Equal(t, "en", rec.Header().Get("Content-Language"))

	rec = get(t, h, "/", func(r *http.Request) { r.Header.Set("Accept-Language", "en-US,en;q=0.9") })
	assert.Equal(t, "en", rec.Header().Get("Content-Language"))

	rec = get(t, h, "/")
	assert.Equal(t, "es", rec.Header().Get("Content-Language"))
}

func TestIndexRendersEmptyGridOnFailure(t *testing.T) {
	rec := get(t, newTestServer(t, &stubSource{err: upstream.ErrUnavailable}), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "0 convocatorias encontradas")
	assert.False(t, strings.Contains(rec.Body.String(), `class="wrap pager"`), "pager hidden with no results")
}

func TestIndexIgnoresInvalidFilterValues(t *testing.T) {
	rec := get(t, newTestServer(t, &stubSource{body: []byte(testCSV)}), "/?cuartil=Q2&pago=cheap&perPage=7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CFP Dos")
	assert.NotContains(t, rec.Body.String(), "CFP Uno")
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(t, &stubSource{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
