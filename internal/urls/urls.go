// Package urls keeps named route patterns so canonical paths can be built
// from a route name and its parameters. Patterns use gin syntax, so the same
// string is registered on the router and reversed here.
package urls

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Route names used by catalog records.
const (
	MovieDetail = "movie_detail"
	ActorDetail = "actor_detail"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]string{}
)

func init() {
	Register(MovieDetail, "/movie/:slug/")
	Register(ActorDetail, "/actor/:slug/")
}

// Register adds or replaces a named route pattern.
func Register(name, pattern string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = pattern
}

// Pattern returns the gin pattern registered under name.
func Pattern(name string) string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[name]
}

// Reverse builds a path for the named route. Params are key/value pairs and
// every ":key" segment in the pattern must be supplied. Values are
// path-escaped.
func Reverse(name string, params ...string) (string, error) {
	pattern := Pattern(name)
	if pattern == "" {
		return "", fmt.Errorf("no route named %q", name)
	}
	if len(params)%2 != 0 {
		return "", fmt.Errorf("route %q: odd number of params", name)
	}

	values := make(map[string]string, len(params)/2)
	for i := 0; i < len(params); i += 2 {
		values[params[i]] = params[i+1]
	}

	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") && !strings.HasPrefix(seg, "*") {
			continue
		}
		key := seg[1:]
		v, ok := values[key]
		if !ok || v == "" {
			return "", fmt.Errorf("route %q: missing param %q", name, key)
		}
		segments[i] = url.PathEscape(v)
	}
	return strings.Join(segments, "/"), nil
}
