// Package pipeline runs the ucache stages in order: load and merge, transform,
// filter, save and print.
package pipeline

import (
	"io"

	"github.com/semihalev/ucache/cache"
	"github.com/semihalev/ucache/config"
	"github.com/semihalev/ucache/filter"
	"github.com/semihalev/ucache/printer"
	"github.com/semihalev/ucache/transform"
	"github.com/semihalev/ucache/unbound"
	"github.com/semihalev/zlog/v2"
)

// Plan is a validated configuration ready to run.
type Plan struct {
	cfg config.Config

	filter      filter.Filter
	transformer transform.Transformer
	printer     printer.Printer
}

// Prepare resolves every name in cfg and builds the filter. It performs no
// I/O, so a returned error is always a *config.Error.
func Prepare(cfg config.Config) (*Plan, error) {
	if cfg.MaxDepth < 0 {
		return nil, config.Errorf("maxdepth must not be negative: %d", cfg.MaxDepth)
	}

	f, err := filter.Parse(cfg.Filters)
	if err != nil {
		return nil, err
	}

	t, err := transform.Get(cfg.Transformer, cfg)
	if err != nil {
		return nil, err
	}

	p, err := printer.Get(cfg.Printer)
	if err != nil {
		return nil, err
	}

	return &Plan{cfg: cfg, filter: f, transformer: t, printer: p}, nil
}

// (*Plan).Filter filter return the built filter.
func (p *Plan) Filter() filter.Filter { return p.filter }

// (*Plan).Run run executes the plan, reading a dump from stdin when configured
// and writing printer output to stdout. It returns the filtered store.
func (p *Plan) Run(stdin io.Reader, stdout io.Writer) (*cache.Store, error) {
	loaded := cache.New()
	if p.cfg.LoadFile != "" {
		var err error
		if loaded, err = cache.Load(p.cfg.LoadFile); err != nil {
			return nil, err
		}
	}

	read := cache.New()
	if p.cfg.ReadStdin {
		var err error
		if read, err = unbound.Read(stdin); err != nil {
			return nil, err
		}
	}

	merged := loaded.Merge(read)
	zlog.Debug("Caches merged", "loaded", loaded.Len(), "read", read.Len(), "merged", merged.Len())

	transformed := p.transformer.Transform(merged)
	filtered := transformed.Filter(p.filter)

	zlog.Debug("Cache filtered", "transformer", p.transformer.Name(), "before", transformed.Len(), "after", filtered.Len())

	if p.cfg.SaveFile != "" {
		if err := filtered.Save(p.cfg.SaveFile); err != nil {
			return nil, err
		}
	}

	if p.printer != nil {
		if err := p.printer.Print(stdout, filtered.Records()); err != nil {
			return nil, err
		}
	}

	return filtered, nil
}

// Run prepares cfg and runs it.
func Run(cfg config.Config, stdin io.Reader, stdout io.Writer) error {
	p, err := Prepare(cfg)
	if err != nil {
		return err
	}

	_, err = p.Run(stdin, stdout)
	return err
}
