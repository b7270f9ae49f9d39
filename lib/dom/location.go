package dom

import (
	"net/url"
	"sync"
)

// Location is the document's URL. Fragment updates use replace
// semantics only: the current entry is rewritten, never a new history
// entry. Every rewrite is traced so tests can assert on the sequence.
type Location struct {
	mu    sync.Mutex
	url   *url.URL
	trace []string
}

// NewLocation parses a URL into a Location.
func NewLocation(raw string) (*Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &Location{url: u}, nil
}

// Fragment returns the current URL fragment without the leading "#".
func (l *Location) Fragment() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.url.Fragment
}

// ReplaceFragment rewrites the fragment in place.
func (l *Location) ReplaceFragment(fragment string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.url.Fragment = fragment
	l.trace = append(l.trace, l.url.String())
}

// ClearFragment removes the fragment in place.
func (l *Location) ClearFragment() {
	l.ReplaceFragment("")
}

// String returns the full URL.
func (l *Location) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.url.String()
}

// Trace returns the URLs produced by each replacement, oldest first.
func (l *Location) Trace() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.trace))
	copy(out, l.trace)
	return out
}
