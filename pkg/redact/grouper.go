package redact

import (
	"sort"

	"pfs-obs/blackout/pkg/fiberconf"
)

// ProposalIDs returns the distinct proposal IDs present in the record set,
// excluding the "N/A" sentinel, sorted for deterministic enumeration.
//
// Grouping is by proposal ID alone: fibers drawn from different catalogs
// under the same proposal still belong to one group and produce one redacted
// output. A record set with no fibers, or only sentinel fibers, yields an
// empty set.
func ProposalIDs(cfg *fiberconf.FiberConfig) []string {
	seen := make(map[string]struct{})
	for _, id := range cfg.ProposalID {
		if id == fiberconf.ProposalSentinel {
			continue
		}
		seen[id] = struct{}{}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// catalogIDs returns the distinct catalog IDs among fibers owned by the
// proposal, sorted. Informational only; never a grouping key.
func catalogIDs(cfg *fiberconf.FiberConfig, proposalID string) []int32 {
	seen := make(map[int32]struct{})
	for i, id := range cfg.ProposalID {
		if id == proposalID {
			seen[cfg.CatID[i]] = struct{}{}
		}
	}

	ids := make([]int32, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
