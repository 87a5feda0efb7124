// Package printer renders records in the output formats understood by hosts
// files, unbound-control and unbound's cache loader.
package printer

import (
	"bufio"
	"io"
	"iter"
	"sort"

	"github.com/semihalev/ucache/config"
	"github.com/semihalev/ucache/record"
)

// Printer writes records to w.
type Printer interface {
	Name() string
	Print(w io.Writer, records iter.Seq[record.Record]) error
}

// LineFunc renders one record, returning false to leave it out.
type LineFunc func(r record.Record) (string, bool)

// Lines prints one line per record produced by a LineFunc, optionally
// wrapped in fixed header and trailer lines.
type Lines struct {
	name    string
	line    LineFunc
	header  []string
	trailer []string
}

// NewLines return new line printer.
func NewLines(name string, line LineFunc) *Lines {
	return &Lines{name: name, line: line}
}

// (*Lines).Name name return printer name.
func (p *Lines) Name() string { return p.name }

// (*Lines).Print print writes header, one line per accepted record and trailer.
func (p *Lines) Print(w io.Writer, records iter.Seq[record.Record]) error {
	bw := bufio.NewWriter(w)

	for _, l := range p.header {
		if _, err := bw.WriteString(l + "\n"); err != nil {
			return err
		}
	}

	for r := range records {
		l, ok := p.line(r)
		if !ok {
			continue
		}
		if _, err := bw.WriteString(l + "\n"); err != nil {
			return err
		}
	}

	for _, l := range p.trailer {
		if _, err := bw.WriteString(l + "\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

var printers = map[string]func() Printer{
	"hosts":                func() Printer { return NewLines("hosts", Hosts) },
	"unbound_local":        func() Printer { return NewLines("unbound_local", UnboundLocal) },
	"unbound_local_remove": func() Printer { return NewLines("unbound_local_remove", UnboundLocalRemove) },
	"unbound_cache":        func() Printer { return NewUnboundCache() },
	"zone":                 func() Printer { return NewLines("zone", Zone) },
}

// List return names of the available printers.
func List() (list []string) {
	for name := range printers {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

// Get returns the printer called name. An empty name returns nil, meaning
// nothing is printed.
func Get(name string) (Printer, error) {
	if name == "" {
		return nil, nil
	}

	new, ok := printers[name]
	if !ok {
		return nil, config.Errorf("unknown printer %q, one of %v", name, List())
	}

	return new(), nil
}
