// Package record holds the resource record value shared by every ucache stage.
package record

import (
	"errors"
	"strings"

	"github.com/miekg/dns"
)

// Record types the transformer and filters treat specially.
var (
	TypeA     = dns.TypeToString[dns.TypeA]
	TypeAAAA  = dns.TypeToString[dns.TypeAAAA]
	TypeCNAME = dns.TypeToString[dns.TypeCNAME]
)

var errEmptyRR = errors.New("record has no resource data")

// Record is a single resource record as found in a resolver cache dump.
// It is a comparable value, two records with the same fields are the same record.
type Record struct {
	Name  string
	Type  string
	Class string
	Rdata string
}

// Key identifies the bucket a record belongs to.
type Key struct {
	Name string
	Type string
}

// New returns a record. No validation is performed on any field.
func New(name, rtype, class, rdata string) Record {
	return Record{Name: name, Type: rtype, Class: class, Rdata: rdata}
}

// (Record).Key key returns the (name, type) bucket key of the record.
func (r Record) Key() Key {
	return Key{Name: r.Name, Type: r.Type}
}

// (Record).IsAddress isAddress reports whether the record is an A or AAAA record.
func (r Record) IsAddress() bool {
	return r.Type == TypeA || r.Type == TypeAAAA
}

// (Record).IsAlias isAlias reports whether the record is a CNAME record.
func (r Record) IsAlias() bool {
	return r.Type == TypeCNAME
}

// (Record).RR parses the record into a miekg/dns resource record.
// The TTL is fixed to ttl since dumps carry no meaningful TTL once loaded.
func (r Record) RR(ttl uint32) (dns.RR, error) {
	rr, err := dns.NewRR(strings.Join([]string{r.Name, "0", r.Class, r.Type, r.Rdata}, " "))
	if err != nil {
		return nil, err
	}
	if rr == nil {
		return nil, errEmptyRR
	}

	rr.Header().Ttl = ttl

	return rr, nil
}

func (r Record) String() string {
	return r.Name + " " + r.Class + " " + r.Type + " " + r.Rdata
}
