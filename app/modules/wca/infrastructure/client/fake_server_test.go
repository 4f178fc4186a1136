package wcaclient

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

const (
	testClientID     = "client-123"
	testClientSecret = "secret-456"
	testRedirectURI  = "urn:ietf:wg:oauth:2.0:oob"
	testCode         = "auth-code"
)

type recordedRequest struct {
	Method        string
	Path          string
	Query         url.Values
	Form          url.Values
	Authorization string
	ContentType   string
	Body          string
}

// fakeWCA is an in-process stand-in for the WCA website: OAuth token
// endpoint under /oauth and the API under /api/v0.
type fakeWCA struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	requests []recordedRequest

	grantedScope  string
	accessToken   string
	refreshToken  string
	competitions  map[string]string
	tokenStatus   int
	tokenResponse string
}

func newFakeWCA(t *testing.T) *fakeWCA {
	t.Helper()
	f := &fakeWCA{
		t:            t,
		grantedScope: "public manage_competitions",
		accessToken:  "access-1",
		refreshToken: "refresh-1",
		competitions: map[string]string{
			"RiverCityOpen2020": `{"formatVersion":"1.0","id":"RiverCityOpen2020"}`,
		},
	}

	r := chi.NewRouter()
	r.Post("/oauth/token", f.handleToken)
	r.Route("/api/v0", func(r chi.Router) {
		r.Get("/competitions", f.handleList)
		r.Get("/competitions/{id}/wcif", f.handleFetch)
		r.Patch("/competitions/{id}/wcif", f.handlePatch)
	})

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeWCA) options() []Option {
	return []Option{
		WithBaseURL(f.server.URL + "/api/v0/"),
		WithTokenURL(f.server.URL + "/oauth/token"),
		WithAuthorizeURL(f.server.URL + "/oauth/authorize"),
		WithHTTPClient(f.server.Client()),
	}
}

func (f *fakeWCA) builder(opts ...Option) *Builder {
	creds := Credentials{ClientID: testClientID, ClientSecret: testClientSecret, RedirectURI: testRedirectURI}
	return NewBuilder(creds, append(f.options(), opts...)...)
}

func (f *fakeWCA) record(r *http.Request) recordedRequest {
	body, _ := io.ReadAll(r.Body)
	rec := recordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.Query(),
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          string(body),
	}
	if form, err := url.ParseQuery(string(body)); err == nil && r.URL.Path == "/oauth/token" {
		rec.Form = form
	}
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()
	return rec
}

func (f *fakeWCA) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *fakeWCA) last() recordedRequest {
	reqs := f.Requests()
	if len(reqs) == 0 {
		f.t.Fatal("no requests recorded")
	}
	return reqs[len(reqs)-1]
}

func (f *fakeWCA) handleToken(w http.ResponseWriter, r *http.Request) {
	rec := f.record(r)
	if f.tokenStatus != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.tokenStatus)
		_, _ = io.WriteString(w, `{"error":"invalid_grant","error_description":"The provided authorization grant is invalid"}`)
		return
	}
	if f.tokenResponse != "" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, f.tokenResponse)
		return
	}

	if rec.Form.Get("client_id") != testClientID || rec.Form.Get("client_secret") != testClientSecret {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
		return
	}
	switch rec.Form.Get("grant_type") {
	case "authorization_code":
		if rec.Form.Get("code") != testCode || rec.Form.Get("redirect_uri") != testRedirectURI {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
	case "refresh_token":
		f.mu.Lock()
		current := f.refreshToken
		f.mu.Unlock()
		if rec.Form.Get("refresh_token") != current {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.accessToken = "access-2"
		f.refreshToken = "refresh-2"
		f.mu.Unlock()
	default:
		http.Error(w, `{"error":"unsupported_grant_type"}`, http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	resp := map[string]any{
		"access_token":  f.accessToken,
		"token_type":    "Bearer",
		"expires_in":    7200,
		"refresh_token": f.refreshToken,
		"scope":         f.grantedScope,
		"created_at":    1591981200,
	}
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeWCA) authorized(w http.ResponseWriter, rec recordedRequest) bool {
	f.mu.Lock()
	want := "Bearer " + f.accessToken
	f.mu.Unlock()
	if rec.Authorization != want {
		http.Error(w, `{"error":"Not logged in"}`, http.StatusUnauthorized)
		return false
	}
	return true
}

func (f *fakeWCA) handleFetch(w http.ResponseWriter, r *http.Request) {
	rec := f.record(r)
	if !f.authorized(w, rec) {
		return
	}
	f.mu.Lock()
	doc, ok := f.competitions[chi.URLParam(r, "id")]
	f.mu.Unlock()
	if !ok {
		http.Error(w, `{"error":"Competition not found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, doc)
}

func (f *fakeWCA) handlePatch(w http.ResponseWriter, r *http.Request) {
	rec := f.record(r)
	if !f.authorized(w, rec) {
		return
	}
	if rec.ContentType != "application/json" {
		http.Error(w, `{"error":"unsupported media type"}`, http.StatusUnsupportedMediaType)
		return
	}
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	_, ok := f.competitions[id]
	if ok {
		f.competitions[id] = rec.Body
	}
	f.mu.Unlock()
	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"status":"Successfully saved WCIF"}`)
}

func (f *fakeWCA) handleList(w http.ResponseWriter, r *http.Request) {
	rec := f.record(r)
	if !f.authorized(w, rec) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `[{
		"id": "RiverCityOpen2020",
		"name": "River City Open 2020",
		"registration_open": "2020-03-01T18:00:00.000Z",
		"registration_close": "2020-06-01T06:00:00.000Z",
		"announced_at": "2020-02-20T10:03:00.000Z",
		"start_date": "2020-06-12",
		"end_date": "2020-06-13",
		"competitor_limit": 120,
		"cancelled_at": null,
		"url": "https://www.worldcubeassociation.org/competitions/RiverCityOpen2020",
		"website": "https://rivercity.example.com",
		"short_name": "River City 2020",
		"city": "Sacramento, California",
		"venue_address": "1400 J St, Sacramento, CA 95814",
		"venue_details": "Exhibit Hall A",
		"latitude_degrees": 38.581572,
		"longitude_degrees": -121.4944,
		"country_iso2": "US",
		"event_ids": ["333", "222"],
		"delegates": [{"id": 1, "name": "Dana Delegate"}],
		"organizers": [{"id": 2, "name": "Oak Organizer"}]
	}]`)
}
