// Blackout produces proposal-scoped redacted copies of fiber configuration
// record sets.
//
// A single exposure serves many observing proposals at once. Each proposal
// receives a private copy of the fiber configuration in which every science
// fiber owned by another proposal is obscured: coordinates, catalog and
// object identifiers, fluxes, and observation codes are overwritten while
// calibration fibers remain visible to everyone.
//
// Usage:
//
//	# Redact one design (decimal, hex, or file name identifier)
//	blackout run 0x4f966fa98c958b91
//
//	# Redact with explicit input/output directories
//	blackout run pfsConfig-0x4f966fa98c958b91.json --in /data/designs --out /data/redacted
//
//	# Watch a directory and redact files as they arrive
//	blackout watch
//
//	# Validate configuration and, optionally, an input file
//	blackout validate 0x4f966fa98c958b91
//
//	# Show version information
//	blackout version
package main

func main() {
	Execute()
}
