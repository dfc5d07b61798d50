package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"
)

func TestCommandString(t *testing.T) {
	cases := []struct {
		name string
		cmd  Command
		want string
	}{
		{"plain", New("npx", "create-react-app", "my-app"), "npx create-react-app my-app"},
		{"spaces", New("npx", "create-react-app", "my app"), "npx create-react-app 'my app'"},
		{"constraint", New("yarn", "add", "react-intl@^2.9.0"), "yarn add react-intl@^2.9.0"},
		{"no args", New("git"), "git"},
		{"glob", New("tt-aggregate-translations", "-d", "./src/**/translations"), "tt-aggregate-translations -d './src/**/translations'"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cmd.String(); got != tc.want {
				t.Fatalf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExitErrorTail(t *testing.T) {
	err := &ExitError{Command: New("yarn"), Code: 1, Output: "one\ntwo\nthree\n"}
	if got := err.Tail(2); got != "two\nthree" {
		t.Fatalf("Tail(2) = %q", got)
	}
	if got := err.Tail(10); got != "one\ntwo\nthree" {
		t.Fatalf("Tail(10) = %q", got)
	}
	if got := (&ExitError{}).Tail(3); got != "" {
		t.Fatalf("empty Tail = %q", got)
	}
}

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skipf("sh not available: %v", err)
	}
}

func TestExecCapturesOutput(t *testing.T) {
	requireSh(t)
	res, err := Exec{}.Run(context.Background(), New("sh", "-c", "echo out; echo err >&2"), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("ExitCode = %d", res.ExitCode)
	}
	if res.Output != "out\nerr\n" {
		t.Fatalf("Output = %q", res.Output)
	}
}

func TestExecStreamsOutput(t *testing.T) {
	requireSh(t)
	var stdout, stderr bytes.Buffer
	res, err := Exec{}.Run(context.Background(), New("sh", "-c", "echo out; echo err >&2"), Options{
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Output != "" {
		t.Fatalf("streamed run captured %q", res.Output)
	}
	if stdout.String() != "out\n" || stderr.String() != "err\n" {
		t.Fatalf("stdout=%q stderr=%q", stdout.String(), stderr.String())
	}
}

func TestExecReportsExitCode(t *testing.T) {
	requireSh(t)
	cmd := New("sh", "-c", "echo boom; exit 3")
	res, err := Exec{}.Run(context.Background(), cmd, Options{})
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %v", err)
	}
	if exitErr.Code != 3 || res.ExitCode != 3 {
		t.Fatalf("code = %d / %d, want 3", exitErr.Code, res.ExitCode)
	}
	if exitErr.Output != "boom\n" {
		t.Fatalf("Output = %q", exitErr.Output)
	}
}

func TestExecTimeoutKillsChildren(t *testing.T) {
	requireSh(t)
	start := time.Now()
	_, err := Exec{Timeout: 200 * time.Millisecond}.Run(context.Background(), New("sh", "-c", "sleep 3; echo done"), Options{})
	elapsed := time.Since(start)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if elapsed >= time.Second {
		t.Fatalf("timeout of 200ms returned after %s", elapsed)
	}
}

func TestExecBackgroundChildDoesNotFailCommand(t *testing.T) {
	requireSh(t)
	start := time.Now()
	res, err := Exec{}.Run(context.Background(), New("sh", "-c", "sleep 3 & echo ok"), Options{})
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Output != "ok\n" {
		t.Fatalf("Output = %q", res.Output)
	}
	if elapsed > WaitDelay+time.Second {
		t.Fatalf("returned after %s", elapsed)
	}
}

func TestExecMissingBinary(t *testing.T) {
	_, err := Exec{}.Run(context.Background(), New("definitely-not-a-real-binary-ctra"), Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		t.Fatalf("missing binary should not be an ExitError: %v", err)
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("expected exec.ErrNotFound, got %v", err)
	}
}

func TestWithSpinnerPassesThrough(t *testing.T) {
	var calls int
	inner := Func(func(ctx context.Context, cmd Command, opts Options) (Result, error) {
		calls++
		return Result{Output: "ok"}, nil
	})
	var out bytes.Buffer
	r := WithSpinner(inner, &out)
	res, err := r.Run(context.Background(), New("git", "status"), Options{Stdout: &bytes.Buffer{}})
	if err != nil || res.Output != "ok" {
		t.Fatalf("Run = %+v, %v", res, err)
	}
	if _, err := r.Run(context.Background(), New("git", "status"), Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}
