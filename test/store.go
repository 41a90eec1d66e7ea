package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/quay/hound"
)

// Store is a fake artifact store, serving the ping and repository listing
// endpoints, answering HEAD requests for a fixed set of objects, and serving
// JSON documents for package details.
type Store struct {
	*httptest.Server

	mu       sync.Mutex
	apiKey   string
	repos    []hound.Repository
	objects  map[string]struct{}
	docs     map[string]string
	stalled  map[string]struct{}
	failing  map[string]int
	requests []string
}

// NewStore starts a Store holding the named objects and listing the provided
// repositories. It is closed when the test ends.
func NewStore(t testing.TB, repos []hound.Repository, objects ...string) *Store {
	s := &Store{
		repos:   repos,
		objects: make(map[string]struct{}),
		docs:    make(map[string]string),
		stalled: make(map[string]struct{}),
		failing: make(map[string]int),
	}
	for _, o := range objects {
		s.objects[o] = struct{}{}
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// RequireKey makes every endpoint demand the key in the "X-JFrog-Art-Api"
// header.
func (s *Store) RequireKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = key
}

// Document arranges for GET requests for the path to answer with the body
// as JSON. The path also exists for HEAD requests.
func (s *Store) Document(path, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = body
}

// Stall arranges for requests for the path to hang until the client gives up.
func (s *Store) Stall(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stalled[path] = struct{}{}
}

// Fail arranges for requests for the path to answer with the given status.
func (s *Store) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[path] = status
}

// Requests returns every request seen, as "METHOD path".
func (s *Store) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// Probes returns the paths of every HEAD request seen, in order.
func (s *Store) Probes() []string {
	var out []string
	for _, r := range s.Requests() {
		if p, ok := strings.CutPrefix(r, http.MethodHead+" "); ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) serve(w http.ResponseWriter, r *http.Request) {
	p := strings.TrimPrefix(r.URL.Path, "/")
	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+p)
	_, stall := s.stalled[p]
	status, fail := s.failing[p]
	_, exists := s.objects[p]
	doc, hasDoc := s.docs[p]
	key := s.apiKey
	s.mu.Unlock()

	if key != "" && r.Header.Get("X-JFrog-Art-Api") != key {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	switch {
	case fail:
		w.WriteHeader(status)
	case r.Method == http.MethodGet && p == "api/system/ping":
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("OK"))
	case r.Method == http.MethodGet && p == "api/repositories":
		w.Header().Set("Content-Type", "application/json")
		s.mu.Lock()
		defer s.mu.Unlock()
		json.NewEncoder(w).Encode(s.repos)
	case stall:
		<-r.Context().Done()
	case r.Method == http.MethodGet && hasDoc:
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	case r.Method != http.MethodHead:
		w.WriteHeader(http.StatusMethodNotAllowed)
	case exists, hasDoc:
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}
