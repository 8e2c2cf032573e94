package redact

import "pfs-obs/blackout/pkg/fiberconf"

// checkConsistency verifies the leak-guard invariant for one proposal: the
// number of science fibers the proposal owns in the source must equal the
// number of science fibers still attributed to it in the redacted copy.
//
// A shortfall means one of the proposal's own fibers was masked (data loss
// for the requester); a surplus means another proposal's fiber kept its
// attribution (a leak). Either way the copy cannot be trusted and is
// rejected with a ConsistencyError.
func checkConsistency(source, redacted *fiberconf.FiberConfig, proposalID string) error {
	want := countOwnedScience(source, proposalID)
	got := countOwnedScience(redacted, proposalID)
	if want != got {
		return &ConsistencyError{
			ProposalID:  proposalID,
			WantScience: want,
			GotScience:  got,
		}
	}
	return nil
}

// countOwnedScience counts fibers with targetType SCIENCE attributed to the
// proposal.
func countOwnedScience(cfg *fiberconf.FiberConfig, proposalID string) int {
	n := 0
	for i := range cfg.ProposalID {
		if cfg.ProposalID[i] == proposalID && cfg.TargetType[i] == fiberconf.TargetScience {
			n++
		}
	}
	return n
}
