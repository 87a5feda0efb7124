// Package unbound reads the rrset section of an unbound cache dump
// (unbound-control dump_cache) into a record store.
package unbound

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/semihalev/ucache/cache"
	"github.com/semihalev/ucache/record"
	"github.com/semihalev/zlog/v2"
)

// Section markers of the dump format.
const (
	StartRRSetCache = "START_RRSET_CACHE"
	EndRRSetCache   = "END_RRSET_CACHE"
	StartMsgCache   = "START_MSG_CACHE"
	EndMsgCache     = "END_MSG_CACHE"
	EOF             = "EOF"
)

const maxLineSize = 1 << 20

// ParseError reports a data line that could not be turned into a record.
type ParseError struct {
	Line    int
	Text    string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Message, e.Text)
}

// Read parses a dump. The first line is a header and is skipped, lines
// starting with ';' are comments and parsing stops at END_RRSET_CACHE.
// Every other line must hold at least five fields:
//
//	<name> <ttl> <class> <type> <rdata...>
//
// The TTL is ignored. A malformed line aborts the whole read.
func Read(r io.Reader) (*cache.Store, error) {
	s := cache.New()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineno := 0
	if scanner.Scan() {
		lineno++
	}

	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())

		if line == EndRRSetCache {
			break
		}
		if line != "" && line[0] == ';' {
			continue
		}

		f := splitFields(line, 5)
		if len(f) < 5 {
			return nil, &ParseError{Line: lineno, Text: line, Message: "expected at least 5 fields"}
		}

		s.Add(record.New(f[0], f[3], f[2], f[4]))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read cache dump: %w", err)
	}

	zlog.Debug("Cache dump parsed", "lines", lineno, "records", s.Len())

	return s, nil
}

// splitFields splits s around runs of white space into at most n fields.
// The last field keeps the rest of the line, inner white space included.
func splitFields(s string, n int) []string {
	var fields []string

	for len(fields) < n-1 {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		if s == "" {
			return fields
		}

		end := strings.IndexFunc(s, unicode.IsSpace)
		if end < 0 {
			return append(fields, s)
		}

		fields = append(fields, s[:end])
		s = s[end:]
	}

	if s = strings.TrimLeftFunc(s, unicode.IsSpace); s != "" {
		fields = append(fields, s)
	}

	return fields
}
