package client

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"vibeboxing/internal/app/apptest"
	"vibeboxing/internal/combo"
)

// proxy forwards to a test server, counts requests and can hold one chosen
// request until released.
type proxy struct {
	*httptest.Server
	requests atomic.Int64

	mu      sync.Mutex
	method  string
	path    string
	arrived chan struct{}
	release chan struct{}
}

func newProxy(t *testing.T, backend *apptest.Server) *proxy {
	t.Helper()
	p := &proxy{}
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.requests.Add(1)
		if release := p.take(r); release != nil {
			<-release
		}
		backend.Config.Handler.ServeHTTP(w, r)
	}))
	t.Cleanup(p.Close)
	return p
}

// hold arms the proxy to stop the next method+path request. The returned
// channels report its arrival and let it continue.
func (p *proxy) hold(method, path string) (arrived <-chan struct{}, release chan<- struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.method, p.path = method, path
	p.arrived = make(chan struct{})
	p.release = make(chan struct{})
	return p.arrived, p.release
}

func (p *proxy) take(r *http.Request) chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.release == nil || r.Method != p.method || r.URL.Path != p.path {
		return nil
	}
	release := p.release
	close(p.arrived)
	p.release = nil
	return release
}

func newAPI(t *testing.T, baseURL string) *API {
	t.Helper()
	api, err := NewAPI(baseURL)
	require.NoError(t, err)
	return api
}

func jabCross() ComboDraft {
	return ComboDraft{
		Name:   "Jab-Direto",
		Stance: combo.StanceOrthodox,
		Guard:  "tradicional",
		Steps: []combo.Step{
			{Moves: []combo.Move{{Name: "Jab E ↑", Category: combo.CategoryAttack, Variant: "up"}}},
			{Moves: []combo.Move{}},
			{Moves: []combo.Move{{Name: "Direto D ↑", Category: combo.CategoryAttack, Variant: "up"}}},
		},
	}
}

// recorder collects the statuses a store publishes.
type recorder struct {
	mu       sync.Mutex
	statuses []Status
}

func (r *recorder) record(st State) {
	r.mu.Lock()
	r.statuses = append(r.statuses, st.Status)
	r.mu.Unlock()
}

func (r *recorder) all() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Status(nil), r.statuses...)
}
