// Package elab provides the elaboration context: the explicitly constructed,
// explicitly passed object that owns per-build shared state. There is no
// hidden process-global context; callers who want names to stay unique across
// repeated builds pass the same Context to each build.
package elab

import (
	"sync"

	"github.com/preveen-stack/chisel3/internal/annotation"
	"github.com/preveen-stack/chisel3/internal/naming"
)

// Context owns the identifier namespace and the annotation recorder for one
// or more circuit builds. The namespace is created lazily on first use and is
// never reset for the lifetime of the context.
type Context struct {
	mu          sync.Mutex
	ns          *naming.Namespace
	rec         *annotation.Recorder
	strictNames bool
	sources     map[string]struct{}
}

// Option configures a Context.
type Option func(*Context)

// WithStrictNames makes user-chosen (non-unique) source names fail fast on
// collision with a previously declared source. The default is permissive:
// collisions are left for the downstream transform to detect.
func WithStrictNames() Option {
	return func(c *Context) {
		c.strictNames = true
	}
}

// NewContext creates an elaboration context.
func NewContext(opts ...Option) *Context {
	c := &Context{
		rec:     annotation.NewRecorder(),
		sources: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Namespace returns the context's identifier namespace, creating it on first
// use.
func (c *Context) Namespace() *naming.Namespace {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ns == nil {
		c.ns = naming.New()
	}
	return c.ns
}

// Annotations returns the context's annotation recorder.
func (c *Context) Annotations() *annotation.Recorder {
	return c.rec
}

// StrictNames reports whether strict source-name checking is enabled.
func (c *Context) StrictNames() bool {
	return c.strictNames
}

// DeclareSource notes that a source was declared under name and reports
// whether this is the first declaration. Used for strict-mode collision
// checks; in permissive mode the return value is ignored.
func (c *Context) DeclareSource(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.sources[name]; dup {
		return false
	}
	c.sources[name] = struct{}{}
	return true
}
