// Package module wires the convert service and its routes
package module

import (
	"storyport/internal/core/translate"
	"storyport/internal/modkit"
	phttp "storyport/internal/platform/net/http"

	"storyport/internal/services/convert/domain"
	"storyport/internal/services/convert/emit"
	converthttp "storyport/internal/services/convert/http"
	"storyport/internal/services/convert/ingest"
	"storyport/internal/services/convert/service"
)

// Ports defines the convert module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements modkit.Module
type Module struct {
	deps   modkit.Deps
	opts   Options
	built  modkit.Built
	tables *translate.Tables
	ports  Ports
}

// New validates opts, loads the translation tables and wires the service
func New(deps modkit.Deps, opts Options, mopts ...modkit.Option) (*Module, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	tables := translate.Default()
	if opts.TablesPath != "" {
		t, err := translate.LoadFile(opts.TablesPath)
		if err != nil {
			return nil, err
		}
		tables = t
	}

	svc := service.New(
		ingest.NewParser(),
		emit.NewCSV(),
		tables,
		service.Config{StoryType: opts.StoryType, Workers: opts.Workers},
	)

	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("convert"),
		modkit.WithPrefix("/v1"),
	}, mopts...)...)

	deps.Logger("convert").Debug().
		Str("story_type", opts.StoryType).
		Int("workers", opts.Workers).
		Str("tables", opts.TablesPath).
		Msg("convert module ready")

	return &Module{
		deps:   deps,
		opts:   opts,
		built:  b,
		tables: tables,
		ports:  Ports{Runner: svc},
	}, nil
}

// Name returns the module name
func (m *Module) Name() string { return m.built.Name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Runner returns the conversion port
func (m *Module) Runner() domain.RunnerPort { return m.ports.Runner }

// Tables returns the effective translation tables
func (m *Module) Tables() *translate.Tables { return m.tables }

// MountRoutes mounts POST /v1/convert
func (m *Module) MountRoutes(r phttp.Router) {
	modkit.Mount(r, m.built.Prefix, m.built.Mw, func(rr phttp.Router) {
		converthttp.Register(rr, converthttp.Deps{
			Runner:       m.ports.Runner,
			MaxBodyBytes: m.opts.MaxBodyBytes,
		})
		m.built.Register(rr)
	})
}

var _ modkit.Module = (*Module)(nil)
