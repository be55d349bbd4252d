// internal/testutil/mocks.go
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Nota: Los mocks específicos de domain/ports están en sus respectivos paquetes
// Este archivo contiene solo utilidades genéricas sin dependencias circulares

// Route describe la respuesta de un path en FakeProvider.
type Route struct {
	Status      int
	Body        string
	ContentType string
}

// FakeProvider es un servidor HTTP de pruebas que responde por path
// y registra las peticiones recibidas. Una ruta "path?query" exacta tiene
// prioridad sobre la ruta "path".
type FakeProvider struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]Route
	requests []*http.Request
}

// NewFakeProvider arranca un servidor con las rutas dadas y lo cierra al final del test.
func NewFakeProvider(t *testing.T, routes map[string]Route) *FakeProvider {
	t.Helper()

	fp := &FakeProvider{routes: routes}
	fp.Server = httptest.NewServer(http.HandlerFunc(fp.serve))
	t.Cleanup(fp.Close)
	return fp
}

func (fp *FakeProvider) serve(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	fp.requests = append(fp.requests, r.Clone(r.Context()))
	route, ok := fp.routes[r.URL.Path+"?"+r.URL.RawQuery]
	if !ok {
		route, ok = fp.routes[r.URL.Path]
	}
	fp.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	if route.ContentType == "" {
		route.ContentType = "application/json"
	}
	if route.Status == 0 {
		route.Status = http.StatusOK
	}
	w.Header().Set("Content-Type", route.ContentType)
	w.WriteHeader(route.Status)
	_, _ = w.Write([]byte(route.Body))
}

// Requests retorna una copia de las peticiones recibidas.
func (fp *FakeProvider) Requests() []*http.Request {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return append([]*http.Request(nil), fp.requests...)
}

// RequestCount retorna el número de peticiones recibidas.
func (fp *FakeProvider) RequestCount() int {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return len(fp.requests)
}
