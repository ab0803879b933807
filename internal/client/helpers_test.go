package client_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pesakit/pesakit-go/internal/client"
	"github.com/pesakit/pesakit-go/pkg/pesa"
)

// fakeGateway serves the credential endpoint and routes operation calls to
// per-path handlers.
type fakeGateway struct {
	t      *testing.T
	server *httptest.Server

	authCalls atomic.Int32
	opCalls   atomic.Int32

	mu         sync.Mutex
	authStatus int
	authBody   string
	handlers   map[string]http.HandlerFunc
	bodies     map[string][]byte
	tokens     []string
}

func newFakeGateway(t *testing.T) *fakeGateway {
	t.Helper()

	gw := &fakeGateway{
		t:        t,
		handlers: make(map[string]http.HandlerFunc),
		bodies:   make(map[string][]byte),
	}

	gw.server = httptest.NewServer(http.HandlerFunc(gw.serve))
	t.Cleanup(gw.server.Close)

	return gw
}

func (g *fakeGateway) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/oauth/v1/generate" {
		n := g.authCalls.Add(1)

		g.mu.Lock()
		status, body := g.authStatus, g.authBody
		g.mu.Unlock()

		if status == 0 {
			status = http.StatusOK
			body = `{"access_token":"token-` + strconv.Itoa(int(n)) + `","expires_in":"3599"}`
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))

		return
	}

	g.opCalls.Add(1)

	data, _ := io.ReadAll(r.Body)

	g.mu.Lock()
	g.bodies[r.URL.Path] = data
	g.tokens = append(g.tokens, r.Header.Get("Authorization"))
	handler := g.handlers[r.URL.Path]
	g.mu.Unlock()

	if handler == nil {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	handler(w, r)
}

func (g *fakeGateway) handle(path string, handler http.HandlerFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.handlers[path] = handler
}

func (g *fakeGateway) respondJSON(path string, status int, body interface{}) {
	data, err := json.Marshal(body)
	require.NoError(g.t, err)

	g.handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(data)
	})
}

func (g *fakeGateway) failAuth(status int, body string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.authStatus = status
	g.authBody = body
}

func (g *fakeGateway) body(path string) map[string]interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()

	var fields map[string]interface{}
	require.NoError(g.t, json.Unmarshal(g.bodies[path], &fields))

	return fields
}

func (g *fakeGateway) authorizations() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return append([]string(nil), g.tokens...)
}

func (g *fakeGateway) config() *pesa.Config {
	return &pesa.Config{
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		BaseURL:        g.server.URL,
	}
}

func (g *fakeGateway) client(config *pesa.Config) *client.Client {
	g.t.Helper()

	c, err := client.New(config)
	require.NoError(g.t, err)

	return c
}

const (
	testCallback = "https://example.com/callback"
	testResult   = "https://example.com/result"
	testTimeout  = "https://example.com/timeout"
)

var stkPushReply = map[string]string{
	"MerchantRequestID":   "29115-34620561-1",
	"CheckoutRequestID":   "ws_CO_191220191020363925",
	"ResponseCode":        "0",
	"ResponseDescription": "Success. Request accepted for processing",
	"CustomerMessage":     "Success. Request accepted for processing",
}

func stkPushRequest() *pesa.StkPushRequest {
	return &pesa.StkPushRequest{
		BusinessShortCode: "174379",
		Password:          "cGFzc3dvcmQ=",
		Timestamp:         "20240501090405",
		TransactionType:   pesa.TransactionTypePayBill,
		Amount:            1,
		PartyA:            "254708374149",
		PartyB:            "174379",
		PhoneNumber:       "254708374149",
		CallBackURL:       testCallback,
		AccountReference:  "INV-001",
		TransactionDesc:   "Invoice",
	}
}
