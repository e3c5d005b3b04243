package linkage

import (
	"context"
	"fmt"

	"github.com/huapala/huapala/internal/util"
)

// ApplyFailure is an approved linkage that could not be pushed
type ApplyFailure struct {
	Key Key
	Err error
}

// ApplyResult summarizes a bulk push of approved linkages
type ApplyResult struct {
	Applied  int
	Skipped  int
	Failures []ApplyFailure
}

// ApplyApproved sends every approved linkage to the notifier. Failures are
// collected and do not stop the batch; cancellation does. progress, if
// non-nil, is called after each linkage with the number processed so far.
func ApplyApproved(ctx context.Context, notifier Notifier, linkages []Linkage, progress func(done, total int)) (*ApplyResult, error) {
	if notifier == nil {
		return nil, fmt.Errorf("no notifier configured")
	}

	result := &ApplyResult{}
	for i, l := range linkages {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if l.Status != StatusApproved {
			result.Skipped++
		} else if err := notifier.CreateLinkage(ctx, l.EntryID, l.SongID); err != nil {
			util.WarnLog("Failed to link entry %d to %s: %v", l.EntryID, l.SongID, err)
			result.Failures = append(result.Failures, ApplyFailure{Key: l.Key(), Err: err})
		} else {
			result.Applied++
		}

		if progress != nil {
			progress(i+1, len(linkages))
		}
	}

	return result, nil
}
