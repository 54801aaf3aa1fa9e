// Package naming provides the identifier namespace used to key cross-module
// wiring intents. A Namespace never issues the same identifier twice for its
// lifetime, which is what keeps independently generated source/sink pairs
// from colliding.
package naming

import (
	"fmt"
	"sync"
)

// Namespace is a mutable set of issued identifiers. It is safe for
// concurrent use; the allocation check-then-insert is atomic under one lock.
//
// A Namespace is never reset. Reusing one across repeated circuit builds
// keeps names unique across those builds, which is the intended lifetime.
type Namespace struct {
	mu     sync.Mutex
	issued map[string]struct{}
	next   map[string]int
}

// New creates an empty namespace.
func New() *Namespace {
	return &Namespace{
		issued: make(map[string]struct{}),
		next:   make(map[string]int),
	}
}

// AllocateUnique issues an identifier derived from prefix that has never been
// issued by this namespace. The first request for a free prefix returns it
// unchanged; collisions get the lowest free _N suffix. Always succeeds.
func (n *Namespace) AllocateUnique(prefix string) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	name := prefix
	for {
		if _, taken := n.issued[name]; !taken {
			break
		}
		idx := n.next[prefix] + 1
		n.next[prefix] = idx
		name = fmt.Sprintf("%s_%d", prefix, idx)
	}
	n.issued[name] = struct{}{}
	return name
}

// Exists reports whether name was previously issued by AllocateUnique.
// It never mutates the namespace.
func (n *Namespace) Exists(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.issued[name]
	return ok
}
