package linkage

import (
	"context"
	"errors"
	"testing"
)

type selectiveNotifier struct {
	fail  map[int64]bool
	calls int
}

func (n *selectiveNotifier) CreateLinkage(_ context.Context, entryID int64, _ string) error {
	n.calls++
	if n.fail[entryID] {
		return errors.New("entry not found")
	}
	return nil
}

func TestApplyApproved(t *testing.T) {
	linkages := []Linkage{
		suggestion("a", 1, 0.9, StatusApproved),
		suggestion("b", 2, 0.9, StatusRejected),
		suggestion("c", 3, 0.9, StatusApproved),
		suggestion("d", 4, 0.9, StatusSuggested),
	}
	notifier := &selectiveNotifier{fail: map[int64]bool{3: true}}

	var progressCalls []int
	result, err := ApplyApproved(context.Background(), notifier, linkages, func(done, total int) {
		if total != 4 {
			t.Errorf("unexpected total %d", total)
		}
		progressCalls = append(progressCalls, done)
	})
	if err != nil {
		t.Fatalf("ApplyApproved failed: %v", err)
	}

	if result.Applied != 1 || result.Skipped != 2 || len(result.Failures) != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Failures[0].Key != (Key{SongID: "c", EntryID: 3}) {
		t.Errorf("unexpected failure key: %v", result.Failures[0].Key)
	}
	if notifier.calls != 2 {
		t.Errorf("expected 2 notifier calls, got %d", notifier.calls)
	}
	if len(progressCalls) != 4 || progressCalls[3] != 4 {
		t.Errorf("unexpected progress calls: %v", progressCalls)
	}
}

func TestApplyApprovedCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ApplyApproved(ctx, &selectiveNotifier{}, []Linkage{suggestion("a", 1, 0.9, StatusApproved)}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	if _, err := ApplyApproved(context.Background(), nil, nil, nil); err == nil {
		t.Error("expected error without notifier")
	}
}
