package transform

import (
	"github.com/semihalev/ucache/cache"
	"github.com/semihalev/ucache/config"
	"github.com/semihalev/ucache/record"
	"github.com/semihalev/zlog/v2"
)

func init() {
	Register(cnameName, func(cfg config.Config) Transformer {
		return NewCNAME(cfg.MaxDepth, nil)
	})
}

// CNAME flattens alias chains. For every CNAME record each name along the
// chain gets a direct record for every address the chain ends in, following
// at most MaxDepth aliases. Cycles are not detected; the depth bound is what
// ends them.
type CNAME struct {
	MaxDepth int

	// Owner selects the CNAME records that are chased, nil chases all.
	Owner cache.Matcher
}

// NewCNAME return new CNAME transformer.
func NewCNAME(maxDepth int, owner cache.Matcher) *CNAME {
	return &CNAME{MaxDepth: maxDepth, Owner: owner}
}

// (*CNAME).Name name return transformer name.
func (c *CNAME) Name() string { return cnameName }

// (*CNAME).Transform transform returns a copy of s with the flattened records added.
func (c *CNAME) Transform(s *cache.Store) *cache.Store {
	out := s.Merge(cache.New())

	found := newRecordSet()
	aliases := 0

	for r := range s.Records() {
		if !r.IsAlias() {
			continue
		}
		if c.Owner != nil && !c.Owner.Match(r) {
			continue
		}

		aliases++
		found.union(c.resolve(s, r, 0))
	}

	added := 0
	for _, r := range found.items {
		if containsRecord(s, r) {
			continue
		}
		out.Add(r)
		added++
	}

	zlog.Debug("CNAME chains flattened", "aliases", aliases, "synthesized", added, "maxdepth", c.MaxDepth)

	return out
}

// resolve returns the addresses reachable from r together with a record
// binding r's owner to each of them, for every hop below r.
func (c *CNAME) resolve(s *cache.Store, r record.Record, depth int) *recordSet {
	result := newRecordSet()

	if r.IsAddress() {
		result.add(r)
		return result
	}

	if depth == c.MaxDepth {
		return result
	}

	var candidates []record.Record
	for _, rtype := range []string{record.TypeA, record.TypeAAAA, record.TypeCNAME} {
		candidates = append(candidates, s.Find(r.Rdata, rtype)...)
	}

	for _, candidate := range candidates {
		deeper := c.resolve(s, candidate, depth+1)
		result.union(deeper)

		for _, a := range deeper.items {
			result.add(record.New(r.Name, a.Type, a.Class, a.Rdata))
		}
	}

	return result
}

func containsRecord(s *cache.Store, r record.Record) bool {
	for _, existing := range s.Find(r.Name, r.Type) {
		if existing == r {
			return true
		}
	}
	return false
}

// recordSet is a set of records that remembers insertion order.
type recordSet struct {
	seen  map[record.Record]struct{}
	items []record.Record
}

func newRecordSet() *recordSet {
	return &recordSet{seen: make(map[record.Record]struct{})}
}

func (rs *recordSet) add(r record.Record) {
	if _, ok := rs.seen[r]; ok {
		return
	}
	rs.seen[r] = struct{}{}
	rs.items = append(rs.items, r)
}

func (rs *recordSet) union(other *recordSet) {
	for _, r := range other.items {
		rs.add(r)
	}
}

const cnameName = "CNAME"
