package guard

import (
	"net/http"
	"strings"
	"sync"
)

// Marker records route visibility at registration time. Routes default to
// protected; public routes are declared explicitly, either one route at a
// time or for a whole path prefix. Lookups resolve the most specific
// declaration: an exact method+path entry wins over any prefix entry, and
// longer prefixes win over shorter ones.
type Marker struct {
	mu       sync.RWMutex
	routes   map[string]bool
	prefixes map[string]bool
}

// NewMarker creates an empty Marker.
func NewMarker() *Marker {
	return &Marker{
		routes:   make(map[string]bool),
		prefixes: make(map[string]bool),
	}
}

// Mark declares the visibility of a single route.
func (m *Marker) Mark(method, path string, public bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[routeKey(method, path)] = public
}

// MarkPrefix declares the visibility of every route under a path prefix.
// Individual routes may override it via Mark.
func (m *Marker) MarkPrefix(prefix string, public bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefixes[prefix] = public
}

// Public reports whether the request targets a route declared public.
func (m *Marker) Public(r *http.Request) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if public, ok := m.routes[routeKey(r.Method, r.URL.Path)]; ok {
		return public
	}

	var (
		best    int = -1
		public  bool
		matched bool
	)
	for prefix, p := range m.prefixes {
		if strings.HasPrefix(r.URL.Path, prefix) && len(prefix) > best {
			best = len(prefix)
			public = p
			matched = true
		}
	}
	return matched && public
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}
