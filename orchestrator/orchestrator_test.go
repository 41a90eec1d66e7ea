package orchestrator_test

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/mock/gomock"

	"github.com/quay/hound"
	"github.com/quay/hound/orchestrator"
	"github.com/quay/hound/resolver"
	"github.com/quay/hound/test"
	"github.com/quay/hound/verifier"
	mock_orchestrator "github.com/quay/hound/test/mock/orchestrator"
)

func identities(n int) []hound.Identity {
	ids := make([]hound.Identity, n)
	for i := range ids {
		ids[i] = resolver.Resolve(fmt.Sprintf("npm-local/pkg%d/-/pkg%d-1.0.%d.tgz", i, i, i), hound.NPM)
	}
	return ids
}

func TestRun(t *testing.T) {
	t.Parallel()
	ctx := test.Logging(t)
	ctl := gomock.NewController(t)
	v := mock_orchestrator.NewMockVerifier(ctl)
	v.EXPECT().
		Verify(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id *hound.Identity) hound.Result {
			return hound.Result{
				Identity:   *id,
				Found:      strings.HasSuffix(id.Version, "0") || strings.HasSuffix(id.Version, "5"),
				Repository: "npm-local",
			}
		}).
		Times(50)

	ids := identities(50)
	got := orchestrator.New(ctx, v, 4).Run(ctx, ids)
	if len(got) != len(ids) {
		t.Fatalf("got %d results, want %d", len(got), len(ids))
	}
	for i := range ids {
		if !cmp.Equal(got[i].Identity, ids[i]) {
			t.Errorf("result %d: %s", i, cmp.Diff(got[i].Identity, ids[i]))
		}
		if want := i%5 == 0; got[i].Found != want {
			t.Errorf("result %d: found: got: %v, want: %v", i, got[i].Found, want)
		}
	}
}

func TestRunEmpty(t *testing.T) {
	t.Parallel()
	ctx := test.Logging(t)
	ctl := gomock.NewController(t)
	v := mock_orchestrator.NewMockVerifier(ctl)
	if got := orchestrator.New(ctx, v, 1).Run(ctx, nil); len(got) != 0 {
		t.Errorf("got %d results, want 0", len(got))
	}
}

func TestRunPanic(t *testing.T) {
	t.Parallel()
	ctx := test.Logging(t)
	ctl := gomock.NewController(t)
	v := mock_orchestrator.NewMockVerifier(ctl)
	ids := identities(10)
	v.EXPECT().
		Verify(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id *hound.Identity) hound.Result {
			if id.Name == "pkg3" {
				panic("probe exploded")
			}
			return hound.Result{Identity: *id, Found: true, Repository: "npm-local"}
		}).
		Times(len(ids))

	got := orchestrator.New(ctx, v, 3).Run(ctx, ids)
	if len(got) != len(ids) {
		t.Fatalf("got %d results, want %d", len(got), len(ids))
	}
	for i, r := range got {
		switch {
		case i == 3:
			if r.Found || !strings.Contains(r.Error, "probe exploded") {
				t.Errorf("result %d: unexpected: %+v", i, r)
			}
			if !cmp.Equal(r.Identity, ids[i]) {
				t.Errorf("result %d: %s", i, cmp.Diff(r.Identity, ids[i]))
			}
		case !r.Found:
			t.Errorf("result %d: sibling of a failed task not verified: %+v", i, r)
		}
	}
}

func TestRunLimit(t *testing.T) {
	t.Parallel()
	ctx := test.Logging(t)
	ctl := gomock.NewController(t)
	v := mock_orchestrator.NewMockVerifier(ctl)
	const workers = 3
	var cur, peak atomic.Int32
	v.EXPECT().
		Verify(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id *hound.Identity) hound.Result {
			n := cur.Add(1)
			defer cur.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			return hound.Result{Identity: *id}
		}).
		Times(20)

	orchestrator.New(ctx, v, workers).Run(ctx, identities(20))
	if p := peak.Load(); p > workers {
		t.Errorf("peak concurrency %d exceeds %d workers", p, workers)
	}
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(test.Logging(t))
	cancel()
	ctl := gomock.NewController(t)
	v := mock_orchestrator.NewMockVerifier(ctl)
	v.EXPECT().Verify(gomock.Any(), gomock.Any()).Times(0)

	ids := identities(5)
	got := orchestrator.New(ctx, v, 2).Run(ctx, ids)
	if len(got) != len(ids) {
		t.Fatalf("got %d results, want %d", len(got), len(ids))
	}
	for i, r := range got {
		if want := verifier.CanceledMessage + ": " + context.Canceled.Error(); r.Found || r.Error != want {
			t.Errorf("result %d: unexpected: %+v", i, r)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()
	ctx := test.Logging(t)
	ctl := gomock.NewController(t)
	v := mock_orchestrator.NewMockVerifier(ctl)
	v.EXPECT().
		Verify(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id *hound.Identity) hound.Result {
			return hound.Result{Identity: *id}
		}).
		Times(3)
	if got := orchestrator.New(ctx, v, 0).Run(ctx, identities(3)); len(got) != 3 {
		t.Errorf("got %d results, want 3", len(got))
	}
}
