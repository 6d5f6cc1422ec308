package module

import (
	"runtime"

	"storyport/internal/platform/config"
	"storyport/internal/platform/validate"
	"storyport/internal/services/convert/domain"
)

// Options holds configuration options for the convert module
type Options struct {
	StoryType    string `name:"story_type" validate:"required,max=64"`
	Workers      int    `name:"workers" validate:"min=1,max=1024"`
	TablesPath   string `name:"tables" validate:"omitempty,file"`
	MaxBodyBytes int64  `name:"max_body_bytes" validate:"min=1"`
}

// FromConfig reads the convert options with the CONVERT_ prefix
func FromConfig(cfg config.Conf) Options {
	cc := cfg.Prefix("CONVERT_")
	return Options{
		StoryType:    cc.MayString("STORY_TYPE", domain.DefaultStoryType),
		Workers:      cc.MayInt("WORKERS", runtime.NumCPU()),
		TablesPath:   cc.MayString("TABLES", ""),
		MaxBodyBytes: cc.MayInt64("MAX_BODY_BYTES", 32<<20),
	}
}

// Validate checks option bounds
func (o Options) Validate() error { return validate.Struct(o) }
