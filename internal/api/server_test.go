package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/nerrad567/gray-logic-lamps/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-lamps/internal/infrastructure/kvstore"
	"github.com/nerrad567/gray-logic-lamps/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-lamps/internal/lamp"
)

// testEnv is a started lamp service behind an API server, backed by miniredis.
type testEnv struct {
	srv     *Server
	handler http.Handler
	mr      *miniredis.Miniredis
	lamps   *lamp.Service
}

type testOptions struct {
	hardware       bool
	strictHardware bool
	history        lamp.HistoryRepository
}

func defaultTestOptions() testOptions {
	return testOptions{hardware: true}
}

// newTestEnv creates the environment and runs the startup reset.
func newTestEnv(t *testing.T, opts testOptions) *testEnv {
	t.Helper()
	ctx := context.Background()

	mr := miniredis.RunT(t)
	store, err := kvstore.NewRedis(ctx, config.StoreConfig{
		URL:       "redis://" + mr.Addr(),
		TimeoutMS: 300,
	})
	if err != nil {
		t.Fatalf("NewRedis() error: %v", err)
	}
	t.Cleanup(func() { store.Close() }) //nolint:errcheck // Test cleanup

	log := logging.Discard()
	svc := lamp.NewService(store, lamp.Options{
		StoreTimeout:   300 * time.Millisecond,
		StrictHardware: opts.strictHardware,
	})

	wsCfg := config.WebSocketConfig{
		Enabled:        true,
		Path:           "/ws",
		MaxMessageSize: 8192,
		PingInterval:   30,
		PongTimeout:    10,
	}
	hub := NewHub(wsCfg, log)
	hubCtx, cancel := context.WithCancel(ctx)
	t.Cleanup(cancel)
	go hub.Run(hubCtx)
	svc.AddObserver(hub)

	if opts.history != nil {
		svc.AddObserver(lamp.HistoryObserver(opts.history, log))
	}

	if err := svc.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	srv, err := New(Deps{
		Config: config.APIConfig{
			Host: "127.0.0.1",
			Port: 0,
			Timeouts: config.APITimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
			Hardware: config.HardwareConfig{Enabled: opts.hardware},
		},
		WS:      wsCfg,
		Logger:  log,
		Lamps:   svc,
		History: opts.history,
		Hub:     hub,
		Version: "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	return &testEnv{srv: srv, handler: srv.buildRouter(), mr: mr, lamps: svc}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return e.serve(method, path, body)
}

// serve runs one request through the router. It does not touch testing.T,
// so it may be called from other goroutines.
func (e *testEnv) serve(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

// storedValues returns the raw stored value of every lamp.
func (e *testEnv) storedValues(t *testing.T) map[lamp.Name]string {
	t.Helper()
	out := make(map[lamp.Name]string)
	for _, n := range lamp.All() {
		v, err := e.mr.Get(n.Key())
		if err != nil {
			t.Fatalf("miniredis Get(%s): %v", n.Key(), err)
		}
		out[n] = v
	}
	return out
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("response is not valid JSON: %v (body: %s)", err, w.Body.String())
	}
	return v
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, status, w.Body.String())
	}
	e := decode[Error](t, w)
	if e.Code != code {
		t.Errorf("code = %q, want %q", e.Code, code)
	}
	if e.Status != status {
		t.Errorf("body status = %d, want %d", e.Status, status)
	}
	if e.Message == "" {
		t.Error("error message is empty")
	}
}

// --- Constructor ---

func TestNew_RequiresLogger(t *testing.T) {
	_, err := New(Deps{Lamps: &lamp.Service{}})
	if err == nil {
		t.Error("expected error when logger is nil")
	}
}

func TestNew_RequiresLampService(t *testing.T) {
	_, err := New(Deps{Logger: logging.Discard()})
	if err == nil {
		t.Error("expected error when lamp service is nil")
	}
}

// --- Lamps ---

func TestListLamps_AfterStartup(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())

	w := env.do(t, http.MethodGet, "/lamps", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	got := decode[[]lamp.Lamp](t, w)
	want := []lamp.Lamp{
		{Name: lamp.Lamp1, Status: lamp.StatusOff},
		{Name: lamp.Lamp2, Status: lamp.StatusOff},
		{Name: lamp.Lamp3, Status: lamp.StatusOff},
		{Name: lamp.Lamp4, Status: lamp.StatusOff},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lamps, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("lamps[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestUpdateLamp_WriteThenRead(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())

	for _, name := range lamp.All() {
		for _, status := range []lamp.Status{lamp.StatusOn, lamp.StatusOff, lamp.StatusOn} {
			t.Run(fmt.Sprintf("%s=%s", name, status), func(t *testing.T) {
				body := fmt.Sprintf(`{"name":%q,"status":%q}`, name, status)
				w := env.do(t, http.MethodPost, "/lamp", body)
				if w.Code != http.StatusOK {
					t.Fatalf("POST status = %d, want 200 (body: %s)", w.Code, w.Body.String())
				}
				echo := decode[lamp.Lamp](t, w)
				if echo.Name != name || echo.Status != status {
					t.Errorf("echo = %+v", echo)
				}

				w = env.do(t, http.MethodGet, "/lamp/"+string(name), "")
				if w.Code != http.StatusOK {
					t.Fatalf("GET status = %d, want 200", w.Code)
				}
				got := decode[lamp.Lamp](t, w)
				if got.Name != name || got.Status != status {
					t.Errorf("GET = %+v, want {%s %s}", got, name, status)
				}
			})
		}
	}
}

func TestUpdateLamp_StoresLiteralValue(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())

	env.do(t, http.MethodPost, "/lamp", `{"name":"lamp4","status":"on"}`)
	env.mr.CheckGet(t, "lamps:lamp4", "on")
}

func TestUpdateLamp_ValidationDoesNotMutate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown lamp", body: `{"name":"lamp5","status":"on"}`},
		{name: "invalid status", body: `{"name":"lamp1","status":"maybe"}`},
		{name: "status wrong case", body: `{"name":"lamp1","status":"ON"}`},
		{name: "status with whitespace", body: `{"name":"lamp1","status":" on"}`},
		{name: "numeric status", body: `{"name":"lamp1","status":1}`},
		{name: "numeric name", body: `{"name":1,"status":"on"}`},
		{name: "missing name", body: `{"status":"on"}`},
		{name: "missing status", body: `{"name":"lamp1"}`},
		{name: "empty object", body: `{}`},
		{name: "not json", body: `lamp1=on`},
		{name: "array", body: `[{"name":"lamp1","status":"on"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, defaultTestOptions())
			before := env.storedValues(t)

			w := env.do(t, http.MethodPost, "/lamp", tt.body)
			assertError(t, w, http.StatusUnprocessableEntity, ErrCodeValidation)

			after := env.storedValues(t)
			for n, v := range before {
				if after[n] != v {
					t.Errorf("%s changed from %q to %q", n, v, after[n])
				}
			}
		})
	}
}

func TestUpdateLamp_BodyTooLarge(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())

	body := `{"name":"lamp1","status":"on","pad":"` + strings.Repeat("x", maxRequestBodySize) + `"}`
	w := env.do(t, http.MethodPost, "/lamp", body)
	assertError(t, w, http.StatusRequestEntityTooLarge, ErrCodeValidation)
	env.mr.CheckGet(t, "lamps:lamp1", "off")
}

func TestGetLamp_UnknownName(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())

	for _, path := range []string{"/lamp/lamp5", "/lamp/LAMP1", "/lamp/lamp0"} {
		t.Run(path, func(t *testing.T) {
			w := env.do(t, http.MethodGet, path, "")
			assertError(t, w, http.StatusNotFound, ErrCodeValidation)
		})
	}
}

func TestMalformedState_StrictEndpoints(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())
	env.mr.Set("lamps:lamp2", "garbage")

	w := env.do(t, http.MethodGet, "/lamps", "")
	assertError(t, w, http.StatusInternalServerError, ErrCodeMalformedState)
	if strings.Contains(w.Body.String(), "garbage") {
		t.Error("response leaks the stored value")
	}

	w = env.do(t, http.MethodGet, "/lamp/lamp2", "")
	assertError(t, w, http.StatusInternalServerError, ErrCodeMalformedState)

	w = env.do(t, http.MethodGet, "/lamp/lamp1", "")
	if w.Code != http.StatusOK {
		t.Errorf("GET /lamp/lamp1 status = %d, want 200", w.Code)
	}
}

func TestMalformedState_MissingKey(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())
	env.mr.Del("lamps:lamp3")

	w := env.do(t, http.MethodGet, "/lamp/lamp3", "")
	assertError(t, w, http.StatusInternalServerError, ErrCodeMalformedState)
}

// --- Hardware format ---

func TestListHardware(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())
	env.do(t, http.MethodPost, "/lamp", `{"name":"lamp1","status":"on"}`)
	env.do(t, http.MethodPost, "/lamp", `{"name":"lamp3","status":"on"}`)

	w := env.do(t, http.MethodGet, "/ard", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	got := decode[[]lamp.HardwareLamp](t, w)
	want := []lamp.HardwareLamp{
		{D: "1", S: "1"},
		{D: "2", S: "0"},
		{D: "3", S: "1"},
		{D: "4", S: "0"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ard[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	// Wire format uses the short field names.
	if !strings.Contains(w.Body.String(), `{"d":"3","s":"1"}`) {
		t.Errorf("body = %s, want compact d/s objects", w.Body.String())
	}
}

func TestListHardware_LenientOnMalformedState(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())
	env.mr.Set("lamps:lamp2", "garbage")
	env.mr.Set("lamps:lamp4", "ON")
	env.mr.Set("lamps:lamp1", "on")

	w := env.do(t, http.MethodGet, "/ard", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
	got := decode[[]lamp.HardwareLamp](t, w)
	wantS := []string{"1", "0", "0", "0"}
	for i, s := range wantS {
		if got[i].S != s {
			t.Errorf("ard[%d].s = %q, want %q", i, got[i].S, s)
		}
	}
}

func TestListHardware_Strict(t *testing.T) {
	opts := defaultTestOptions()
	opts.strictHardware = true
	env := newTestEnv(t, opts)
	env.mr.Set("lamps:lamp2", "garbage")

	w := env.do(t, http.MethodGet, "/ard", "")
	assertError(t, w, http.StatusInternalServerError, ErrCodeMalformedState)
}

func TestListHardware_Disabled(t *testing.T) {
	opts := defaultTestOptions()
	opts.hardware = false
	env := newTestEnv(t, opts)

	w := env.do(t, http.MethodGet, "/ard", "")
	assertError(t, w, http.StatusNotFound, ErrCodeNotFound)

	// The standard endpoints are unaffected.
	w = env.do(t, http.MethodGet, "/lamps", "")
	if w.Code != http.StatusOK {
		t.Errorf("GET /lamps status = %d, want 200", w.Code)
	}
}

// --- Store failures ---

func TestStoreUnavailable_AllEndpoints(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())
	storeAddr := env.mr.Addr()
	env.mr.Close()

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/lamps", ""},
		{http.MethodGet, "/ard", ""},
		{http.MethodGet, "/lamp/lamp1", ""},
		{http.MethodPost, "/lamp", `{"name":"lamp1","status":"on"}`},
		{http.MethodGet, "/health", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			done := make(chan *httptest.ResponseRecorder, 1)
			go func() { done <- env.serve(tt.method, tt.path, tt.body) }()

			select {
			case w := <-done:
				assertError(t, w, http.StatusServiceUnavailable, ErrCodeStoreUnavailable)
				if strings.Contains(w.Body.String(), storeAddr) {
					t.Error("response leaks the store address")
				}
			case <-time.After(5 * time.Second):
				t.Fatal("request hung with the store down")
			}
		})
	}
}

// --- Scenario ---

func TestScenario_StartToggleRead(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())

	w := env.do(t, http.MethodGet, "/lamps", "")
	for _, l := range decode[[]lamp.Lamp](t, w) {
		if l.Status != lamp.StatusOff {
			t.Fatalf("%s = %s after startup, want off", l.Name, l.Status)
		}
	}

	w = env.do(t, http.MethodPost, "/lamp", `{"name":"lamp2","status":"on"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("POST status = %d, want 200", w.Code)
	}

	w = env.do(t, http.MethodGet, "/lamp/lamp2", "")
	if got := decode[lamp.Lamp](t, w); got != (lamp.Lamp{Name: lamp.Lamp2, Status: lamp.StatusOn}) {
		t.Errorf("GET /lamp/lamp2 = %+v", got)
	}

	w = env.do(t, http.MethodGet, "/ard", "")
	for _, hw := range decode[[]lamp.HardwareLamp](t, w) {
		want := "0"
		if hw.D == "2" {
			want = "1"
		}
		if hw.S != want {
			t.Errorf("ard d=%s s=%s, want %s", hw.D, hw.S, want)
		}
	}
}

// --- Health ---

func TestHealth(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())

	w := env.do(t, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decode[map[string]any](t, w)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["version"] != "test" {
		t.Errorf("version = %v, want test", body["version"])
	}
}

// --- Routing and middleware ---

func TestNotFoundRoute(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())

	w := env.do(t, http.MethodGet, "/nonexistent", "")
	assertError(t, w, http.StatusNotFound, ErrCodeNotFound)
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())

	w := env.do(t, http.MethodDelete, "/lamp/lamp1", "")
	assertError(t, w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow)
}

func TestRequestID_Generated(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())

	w := env.do(t, http.MethodGet, "/lamps", "")
	if len(w.Header().Get("X-Request-ID")) != 36 {
		t.Errorf("X-Request-ID = %q, want a UUID", w.Header().Get("X-Request-ID"))
	}
}

func TestRequestID_Propagated(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())

	req := httptest.NewRequest(http.MethodGet, "/lamps", nil)
	req.Header.Set("X-Request-ID", "client-supplied")
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "client-supplied" {
		t.Errorf("X-Request-ID = %q, want client-supplied", got)
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		allowed     []string
		origin      string
		wantAllowed bool
	}{
		{name: "empty list allows all", allowed: nil, origin: "http://panel.local", wantAllowed: true},
		{name: "wildcard", allowed: []string{"*"}, origin: "http://panel.local", wantAllowed: true},
		{name: "listed origin", allowed: []string{"http://panel.local"}, origin: "http://panel.local", wantAllowed: true},
		{name: "unlisted origin", allowed: []string{"http://panel.local"}, origin: "http://evil.example", wantAllowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, defaultTestOptions())
			env.srv.cfg.CORS.AllowedOrigins = tt.allowed
			handler := env.srv.buildRouter()

			req := httptest.NewRequest(http.MethodOptions, "/lamp", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusNoContent {
				t.Errorf("preflight status = %d, want 204", w.Code)
			}
			got := w.Header().Get("Access-Control-Allow-Origin")
			if tt.wantAllowed && got != tt.origin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.origin)
			}
			if !tt.wantAllowed && got != "" {
				t.Errorf("Allow-Origin = %q, want empty", got)
			}
		})
	}
}

func TestCORS_PreflightAllowsRequestedMethodAndHeaders(t *testing.T) {
	tests := []struct {
		name        string
		methods     []string
		headers     []string
		reqMethod   string
		reqHeaders  string
		wantMethods string
		wantHeaders string
	}{
		{
			name:        "empty lists echo the request",
			reqMethod:   http.MethodPut,
			reqHeaders:  "authorization, x-client-version",
			wantMethods: http.MethodPut,
			wantHeaders: "authorization, x-client-version",
		},
		{
			name:        "empty lists without request headers",
			wantMethods: "*",
			wantHeaders: "*",
		},
		{
			name:        "configured lists win",
			methods:     []string{"GET", "POST"},
			headers:     []string{"Content-Type"},
			reqMethod:   http.MethodPut,
			reqHeaders:  "authorization",
			wantMethods: "GET, POST",
			wantHeaders: "Content-Type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, defaultTestOptions())
			env.srv.cfg.CORS.AllowedMethods = tt.methods
			env.srv.cfg.CORS.AllowedHeaders = tt.headers
			handler := env.srv.buildRouter()

			req := httptest.NewRequest(http.MethodOptions, "/lamp", nil)
			req.Header.Set("Origin", "http://panel.local")
			if tt.reqMethod != "" {
				req.Header.Set("Access-Control-Request-Method", tt.reqMethod)
			}
			if tt.reqHeaders != "" {
				req.Header.Set("Access-Control-Request-Headers", tt.reqHeaders)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Methods"); got != tt.wantMethods {
				t.Errorf("Allow-Methods = %q, want %q", got, tt.wantMethods)
			}
			if got := w.Header().Get("Access-Control-Allow-Headers"); got != tt.wantHeaders {
				t.Errorf("Allow-Headers = %q, want %q", got, tt.wantHeaders)
			}
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())

	handler := env.srv.recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/lamps", nil))

	assertError(t, w, http.StatusInternalServerError, ErrCodeInternal)
}

// --- Lifecycle ---

func TestServer_StartAndClose(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())

	if err := env.srv.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() before Start should fail")
	}

	if err := env.srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if env.srv.Addr() == "" {
		t.Fatal("Addr() is empty after Start")
	}

	resp, err := http.Get("http://" + env.srv.Addr() + "/lamps")
	if err != nil {
		t.Fatalf("GET /lamps: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	if err := env.srv.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error: %v", err)
	}
	if err := env.srv.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestServer_StartPortInUse(t *testing.T) {
	first := newTestEnv(t, defaultTestOptions())
	if err := first.srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(func() { first.srv.Close() }) //nolint:errcheck // Test cleanup

	second := newTestEnv(t, defaultTestOptions())
	_, port, _ := strings.Cut(first.srv.Addr(), ":")
	fmt.Sscan(port, &second.srv.cfg.Port) //nolint:errcheck // Port comes from a bound listener

	if err := second.srv.Start(context.Background()); err == nil {
		second.srv.Close() //nolint:errcheck // Test cleanup
		t.Error("Start() on a bound port should fail")
	}
}

func TestServer_CloseBeforeStart(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())
	if err := env.srv.Close(); err != nil {
		t.Errorf("Close() before Start error: %v", err)
	}
}

// --- Metrics ---

type fakeConnection bool

func (f fakeConnection) IsConnected() bool { return bool(f) }

func TestMetrics(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())

	w := env.do(t, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	m := decode[SystemMetrics](t, w)
	if m.Version != "test" {
		t.Errorf("version = %q, want test", m.Version)
	}
	if m.Runtime.Goroutines <= 0 {
		t.Errorf("goroutines = %d, want > 0", m.Runtime.Goroutines)
	}
	if m.MQTT != nil || m.Database != nil {
		t.Errorf("optional sections present without integrations: %+v", m)
	}
}

func TestMetrics_WithIntegrations(t *testing.T) {
	env := newTestEnv(t, defaultTestOptions())
	env.srv.mqtt = fakeConnection(true)

	w := env.do(t, http.MethodGet, "/metrics", "")
	m := decode[SystemMetrics](t, w)
	if m.MQTT == nil || !m.MQTT.Connected {
		t.Errorf("mqtt = %+v, want connected", m.MQTT)
	}
}
