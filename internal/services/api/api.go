// Package api composes the serve mode HTTP surface
package api

import (
	"time"

	"storyport/internal/modkit"
	"storyport/internal/platform/config"
	"storyport/internal/platform/logger"
	phttp "storyport/internal/platform/net/http"
	"storyport/internal/platform/net/middleware"

	metahttp "storyport/internal/services/api/meta/http"
	convertmod "storyport/internal/services/convert/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Logger         *logger.Logger
	Convert        convertmod.Options
	CORSOrigins    []string
	Slow           time.Duration
	Timeout        time.Duration
	EnableProfiler bool
}

// OptionsFromConfig reads STORYPORT_HTTP_* and STORYPORT_CONVERT_* keys
func OptionsFromConfig(cfg config.Conf) Options {
	hc := cfg.Prefix("HTTP_")
	return Options{
		Config:         cfg,
		Convert:        convertmod.FromConfig(cfg),
		CORSOrigins:    hc.MayCSV("CORS_ORIGINS", nil),
		Slow:           time.Duration(hc.MayInt("SLOW_MS", 500)) * time.Millisecond,
		Timeout:        time.Duration(hc.MayInt("TIMEOUT_MS", 60_000)) * time.Millisecond,
		EnableProfiler: hc.MayBool("PPROF", false),
	}
}

// Mount builds the modules and mounts them onto r
func Mount(r phttp.Router, opt Options) error {
	deps := modkit.Deps{Log: opt.Logger, Cfg: opt.Config}

	conv, err := convertmod.New(deps, opt.Convert)
	if err != nil {
		return err
	}
	mods := []modkit.Module{conv}

	r.Use(middleware.Stack(middleware.StackOptions{
		CORSOrigins: opt.CORSOrigins,
		Slow:        opt.Slow,
		Timeout:     opt.Timeout,
	})...)

	started := time.Now()
	metahttp.Register(r, metahttp.Deps{ServiceName: "storyport", StartedAt: started})
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	for _, m := range mods {
		m.MountRoutes(r)
		deps.Logger("api").Debug().Str("module", m.Name()).Msg("module mounted")
	}
	return nil
}
