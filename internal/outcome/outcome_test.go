package outcome

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fatih/color"
)

func TestCollectSettlesEveryOperation(t *testing.T) {
	var ran atomic.Int32
	targets := []string{"file-0", "file-1", "file-2", "file-3", "file-4"}
	results, err := Collect(context.Background(), targets, 2, func(ctx context.Context, i int) Outcome {
		ran.Add(1)
		target := fmt.Sprintf("file-%d", i)
		if i == 2 {
			return Fail(target, errors.New("disk full"))
		}
		return Outcome{Target: target, Status: Written}
	})
	if ran.Load() != 5 {
		t.Fatalf("ran %d operations, want 5", ran.Load())
	}
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected aggregated error, got %v", err)
	}
	for i, r := range results {
		if r.Target != fmt.Sprintf("file-%d", i) {
			t.Fatalf("results out of order: %+v", results)
		}
	}
	if Failures(results) != 1 {
		t.Fatalf("Failures = %d, want 1", Failures(results))
	}
}

func TestCollectCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	targets := []string{"src/App.js", "src/index.js", "package.json"}
	results, err := Collect(ctx, targets, 0, func(ctx context.Context, i int) Outcome {
		t.Error("fn should not run after cancellation")
		return Outcome{}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if Failures(results) != 3 {
		t.Fatalf("Failures = %d, want 3", Failures(results))
	}
	for i, r := range results {
		if r.Target != targets[i] {
			t.Fatalf("result %d target = %q, want %q", i, r.Target, targets[i])
		}
	}

	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })
	var buf strings.Builder
	Render(&buf, results)
	if !strings.Contains(buf.String(), "  failed  src/App.js (context canceled)\n") {
		t.Fatalf("render:\n%s", buf.String())
	}
}

func TestJoinFormatsMultipleFailures(t *testing.T) {
	err := Join([]Outcome{
		{Target: "a", Status: Written},
		Fail("b", errors.New("b broke")),
		Fail("c", errors.New("c broke")),
	})
	want := "2 files failed:\n  b broke\n  c broke"
	if err == nil || err.Error() != want {
		t.Fatalf("Join = %v, want %q", err, want)
	}
	if Join([]Outcome{{Target: "a", Status: Skipped}}) != nil {
		t.Fatal("Join of successes should be nil")
	}
}

func TestRenderAligns(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	Render(&buf, []Outcome{
		{Target: "src/App.js", Status: Written},
		{Target: ".gitignore", Status: Unchanged},
		Fail("package.json", errors.New("marker not found")),
	})
	want := "" +
		"  written    src/App.js\n" +
		"  unchanged  .gitignore\n" +
		"  failed     package.json (marker not found)\n"
	if buf.String() != want {
		t.Fatalf("Render =\n%s\nwant\n%s", buf.String(), want)
	}
}
