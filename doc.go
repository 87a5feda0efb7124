/*
Package main implements ucache - a tool for unbound resolver cache dumps.

ucache reads the rrset section of an unbound cache dump (unbound-control
dump_cache) and/or a snapshot it saved earlier, and:

  - Merges the two, records read from standard input replace those of the
    snapshot with the same name and type
  - Optionally flattens CNAME chains so every alias gets direct address records
  - Filters records with an RPN expression built from repeated -f flags
  - Saves the result as a snapshot for a later run
  - Prints it as a hosts file, unbound-control commands, a cache dump that
    unbound-control load_cache accepts, or zone file lines

Usage:

	ucache [flags]
	ucache [command]

Available Commands:

	config      Generate a default config file
	version     Print version information

Flags:

	-l, --load string          Snapshot to load
	-s, --save string          Save the filtered result as a snapshot
	-r, --read                 Read a cache dump from standard input
	-p, --printer string       Output format
	-f, --filter stringArray   Filter token, repeatable, in RPN order
	-t, --transformer string   Transformer applied before filtering
	-d, --maxdepth int         Maximum CNAME chain length (default 7)
	-c, --config string        Config file with defaults for the flags above
	    --loglevel string      Log verbosity level
	-h, --help                 Print usage and exit with status 1

Example:

	# Hosts entries for every address under example.com, following aliases
	unbound-control dump_cache | ucache -r -t CNAME -p hosts -f 'name:.*example\.com\.$' -f type:A -f type:AAAA -f or -f and

	# Keep a snapshot and refresh it from the running resolver
	unbound-control dump_cache | ucache -l cache.snap -r -s cache.snap
*/
package main // import "github.com/semihalev/ucache"
