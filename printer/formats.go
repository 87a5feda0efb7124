package printer

import (
	"strconv"

	"github.com/miekg/dns"
	"github.com/semihalev/ucache/record"
	"github.com/semihalev/ucache/unbound"
	"github.com/semihalev/zlog/v2"
)

const dumpTTL = 3600

// Hosts renders address records as hosts file entries, address then name
// without the root label.
func Hosts(r record.Record) (string, bool) {
	if !r.IsAddress() {
		return "", false
	}

	name := r.Name
	if dns.IsFqdn(name) {
		name = name[:len(name)-1]
	}

	return r.Rdata + "\t" + name, true
}

// UnboundLocal renders an unbound-control local_data command.
func UnboundLocal(r record.Record) (string, bool) {
	return `unbound-control local_data "` + r.Name + " " + r.Class + " " + r.Type + " " + r.Rdata + `"`, true
}

// UnboundLocalRemove renders an unbound-control local_data_remove command.
func UnboundLocalRemove(r record.Record) (string, bool) {
	return `unbound-control local_data_remove "` + r.Name + `"`, true
}

// UnboundCache renders a line of the rrset section of a cache dump.
func UnboundCache(r record.Record) (string, bool) {
	return r.Name + "\t" + strconv.Itoa(dumpTTL) + "\t" + r.Class + "\t" + r.Type + "\t" + r.Rdata, true
}

// NewUnboundCache returns a printer producing a complete cache dump that
// unbound-control load_cache and unbound.Read both accept.
func NewUnboundCache() *Lines {
	p := NewLines("unbound_cache", UnboundCache)
	p.header = []string{unbound.StartRRSetCache}
	p.trailer = []string{unbound.EndRRSetCache, unbound.StartMsgCache, unbound.EndMsgCache, unbound.EOF}
	return p
}

// Zone renders the record in canonical zone file form. Records whose data
// does not parse are skipped.
func Zone(r record.Record) (string, bool) {
	rr, err := r.RR(dumpTTL)
	if err != nil {
		zlog.Warn("Record skipped, not a valid resource record", "record", r.String(), "error", err.Error())
		return "", false
	}

	return rr.String(), true
}
