package cli

import (
	"github.com/grabworks/shotlog/internal/shot"
)

func cmdPrintConfig(o *IO, cfg shot.Config) error {
	o.Printf("store:          %s\n", cfg.StorePathAbs)
	o.Printf("image dir:      %s\n", cfg.ImageDirAbs)
	o.Printf("retention days: %d\n", cfg.RetentionDays)
	o.Printf("default format: %s\n", cfg.DefaultFormat)
	o.Printf("cwd:            %s\n", cfg.EffectiveCwd)

	if cfg.Sources.Global != "" {
		o.Printf("global config:  %s\n", cfg.Sources.Global)
	}

	if cfg.Sources.Project != "" {
		o.Printf("project config: %s\n", cfg.Sources.Project)
	}

	return nil
}
