package reconcile

import (
	"errors"
	"fmt"

	"github.com/sdejongh/docrecon/pkg/models"
)

// ErrUnknownPolicy is returned by PolicyFor for unsupported modes
var ErrUnknownPolicy = errors.New("unknown ambiguity policy")

// AmbiguityPolicy decides what an entry with several candidates resolves to
type AmbiguityPolicy interface {
	// Choose returns the index of the picked candidate, or false to leave
	// the entry unresolved. Candidates are in directory enumeration order.
	Choose(candidates []models.DirectoryFile) (int, bool)

	// Name returns the mode this policy implements
	Name() models.AmbiguityMode
}

// PolicyFor returns the policy implementing mode
func PolicyFor(mode models.AmbiguityMode) (AmbiguityPolicy, error) {
	switch mode {
	case models.AmbiguityFirst:
		return FirstCandidate{}, nil
	case models.AmbiguityReject:
		return RejectAmbiguous{}, nil
	case models.AmbiguityNewest:
		return NewestCandidate{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (use: first, reject, newest)", ErrUnknownPolicy, mode)
	}
}

// FirstCandidate picks the first candidate in enumeration order.
// The pick is an approximation; the entry is still counted as ambiguous.
type FirstCandidate struct{}

func (FirstCandidate) Choose(candidates []models.DirectoryFile) (int, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	return 0, true
}

func (FirstCandidate) Name() models.AmbiguityMode { return models.AmbiguityFirst }

// RejectAmbiguous never picks
type RejectAmbiguous struct{}

func (RejectAmbiguous) Choose([]models.DirectoryFile) (int, bool) { return 0, false }

func (RejectAmbiguous) Name() models.AmbiguityMode { return models.AmbiguityReject }

// NewestCandidate picks the most recently modified candidate.
// Ties go to the earlier candidate.
type NewestCandidate struct{}

func (NewestCandidate) Choose(candidates []models.DirectoryFile) (int, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].ModTime.After(candidates[best].ModTime) {
			best = i
		}
	}
	return best, true
}

func (NewestCandidate) Name() models.AmbiguityMode { return models.AmbiguityNewest }
