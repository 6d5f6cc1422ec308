package modkit

import (
	"net/http"

	phttp "storyport/internal/platform/net/http"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name     string
	Prefix   string
	Mw       []func(http.Handler) http.Handler
	Register func(phttp.Router)
}

// Build applies Option funcs and returns a plain struct
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.register == nil {
		c.register = func(phttp.Router) {}
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Register: c.register,
	}
}

// Mount mounts register under prefix with mw applied; an empty prefix mounts
// on r as a group
func Mount(r phttp.Router, prefix string, mw []func(http.Handler) http.Handler, register func(phttp.Router)) {
	fn := func(sub phttp.Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		register(sub)
	}
	if prefix == "" || prefix == "/" {
		r.Group(fn)
		return
	}
	r.Route(prefix, fn)
}
