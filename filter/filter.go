// Package filter implements the boolean record predicates of ucache and the
// RPN parser that builds them from command line tokens.
package filter

import (
	"net"
	"regexp"
	"strings"

	"github.com/semihalev/ucache/record"
	"github.com/yl2chen/cidranger"
)

// Filter is a predicate over records. Filters are stateless once built.
type Filter interface {
	Match(r record.Record) bool
	String() string
}

// AlwaysTrue matches every record.
type AlwaysTrue struct{}

// (AlwaysTrue).Match match always returns true.
func (AlwaysTrue) Match(record.Record) bool { return true }

func (AlwaysTrue) String() string { return "true" }

// ByType matches records whose type equals Type exactly.
type ByType struct {
	Type string
}

// (ByType).Match match reports whether the record type is t.Type.
func (t ByType) Match(r record.Record) bool { return r.Type == t.Type }

func (t ByType) String() string { return "type:" + t.Type }

// ByName matches records whose owner name starts with a match of Pattern.
type ByName struct {
	Pattern *regexp.Regexp
	source  string
}

// NewByName compiles expr, matched at the start of the name.
func NewByName(expr string) (ByName, error) {
	re, err := compilePrefix(expr)
	if err != nil {
		return ByName{}, err
	}
	return ByName{Pattern: re, source: expr}, nil
}

// (ByName).Match match tests the pattern against the owner name.
func (n ByName) Match(r record.Record) bool { return matchPrefix(n.Pattern, r.Name) }

func (n ByName) String() string { return "name:" + n.source }

// ByIP matches A and AAAA records whose rdata starts with a match of Pattern.
// Any other record type never matches.
type ByIP struct {
	Pattern *regexp.Regexp
	source  string
}

// NewByIP compiles expr, matched at the start of the address.
func NewByIP(expr string) (ByIP, error) {
	re, err := compilePrefix(expr)
	if err != nil {
		return ByIP{}, err
	}
	return ByIP{Pattern: re, source: expr}, nil
}

// (ByIP).Match match tests the pattern against address records only.
func (i ByIP) Match(r record.Record) bool {
	if !r.IsAddress() {
		return false
	}
	return matchPrefix(i.Pattern, r.Rdata)
}

func (i ByIP) String() string { return "ip:" + i.source }

// ByNet matches A and AAAA records whose address lies in one of the networks.
type ByNet struct {
	ranger cidranger.Ranger
	source string
}

// NewByNet builds a network filter from a comma separated CIDR list.
func NewByNet(cidrs string) (ByNet, error) {
	ranger := cidranger.NewPCTrieRanger()

	for _, cidr := range strings.Split(cidrs, ",") {
		_, network, err := net.ParseCIDR(strings.TrimSpace(cidr))
		if err != nil {
			return ByNet{}, err
		}

		if err := ranger.Insert(cidranger.NewBasicRangerEntry(*network)); err != nil {
			return ByNet{}, err
		}
	}

	return ByNet{ranger: ranger, source: cidrs}, nil
}

// (ByNet).Match match reports whether an address record falls inside the networks.
func (n ByNet) Match(r record.Record) bool {
	if !r.IsAddress() {
		return false
	}

	ip := net.ParseIP(r.Rdata)
	if ip == nil {
		return false
	}

	ok, err := n.ranger.Contains(ip)
	return err == nil && ok
}

func (n ByNet) String() string { return "net:" + n.source }

// And matches when every child matches.
type And struct {
	Filters []Filter
}

// (And).Match match evaluates every child.
func (a And) Match(r record.Record) bool {
	result := true
	for _, f := range a.Filters {
		if !f.Match(r) {
			result = false
		}
	}
	return result
}

func (a And) String() string { return join(a.Filters, " and ") }

// Or matches when at least one child matches.
type Or struct {
	Filters []Filter
}

// (Or).Match match evaluates every child.
func (o Or) Match(r record.Record) bool {
	result := false
	for _, f := range o.Filters {
		if f.Match(r) {
			result = true
		}
	}
	return result
}

func (o Or) String() string { return join(o.Filters, " or ") }

// Not negates its child.
type Not struct {
	Filter Filter
}

// (Not).Match match negates the child result.
func (n Not) Match(r record.Record) bool { return !n.Filter.Match(r) }

func (n Not) String() string { return "not " + n.Filter.String() }

func compilePrefix(expr string) (*regexp.Regexp, error) {
	return regexp.Compile(expr)
}

// matchPrefix reports whether re matches s starting at its first byte. The
// leftmost match starts at 0 whenever any match there exists.
func matchPrefix(re *regexp.Regexp, s string) bool {
	loc := re.FindStringIndex(s)
	return loc != nil && loc[0] == 0
}

func join(filters []Filter, sep string) string {
	parts := make([]string, len(filters))
	for i, f := range filters {
		parts[i] = f.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}
