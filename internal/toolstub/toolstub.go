// Package toolstub provides hermetic stand-ins for the npx, yarn and git
// executables, for end-to-end CLI scripts.
//
// Each stub appends its command line to CTRA_STUB_LOG (when set) and then:
//   - exits 1 if its command line starts with an entry of CTRA_STUB_FAIL
//     (comma-separated, e.g. "npx,yarn add -D"),
//   - sleeps for CTRA_STUB_DELAY (a Go duration or seconds) first, if set.
//
// `npx create-react-app <name>` writes a minimal generated app under
// ./<name>. `yarn add` succeeds. `git` answers rev-parse, status (printing
// CTRA_STUB_GIT_STATUS), config, add and commit.
package toolstub

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Npx is the main function of the npx stub.
func Npx() int {
	return run("npx", os.Args[1:], func(args []string) int {
		if len(args) != 2 || args[0] != "create-react-app" {
			return unsupported("npx", args)
		}
		if err := generate(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, "npx stub:", err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "Success! Created %s\n", args[1])
		return 0
	})
}

// Yarn is the main function of the yarn stub.
func Yarn() int {
	return run("yarn", os.Args[1:], func(args []string) int {
		if len(args) < 2 || args[0] != "add" {
			return unsupported("yarn", args)
		}
		n := 0
		for _, a := range args[1:] {
			if !strings.HasPrefix(a, "-") {
				n++
			}
		}
		fmt.Fprintf(os.Stdout, "success Saved %d new dependencies.\n", n)
		return 0
	})
}

// Git is the main function of the git stub.
func Git() int {
	return run("git", os.Args[1:], func(args []string) int {
		if len(args) == 0 {
			return unsupported("git", args)
		}
		switch args[0] {
		case "rev-parse":
			fmt.Fprintln(os.Stdout, "4b825dc642cb6eb9a060e54bf8d69288fbee4904")
			return 0
		case "status":
			fmt.Fprint(os.Stdout, os.Getenv("CTRA_STUB_GIT_STATUS"))
			return 0
		case "config":
			if len(args) == 2 {
				fmt.Fprintln(os.Stdout, getenvDefault("CTRA_STUB_GIT_"+strings.ToUpper(strings.TrimPrefix(args[1], "user.")), "stub"))
				return 0
			}
		case "add", "commit":
			return 0
		}
		return unsupported("git", args)
	})
}

func run(name string, args []string, fn func(args []string) int) int {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	if log := os.Getenv("CTRA_STUB_LOG"); log != "" {
		appendLine(log, line)
	}
	if delay := strings.TrimSpace(os.Getenv("CTRA_STUB_DELAY")); delay != "" {
		time.Sleep(parseDelay(delay))
	}
	for _, prefix := range strings.Split(os.Getenv("CTRA_STUB_FAIL"), ",") {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" && strings.HasPrefix(line, prefix) {
			fmt.Fprintf(os.Stderr, "%s stub: failing %q\n", name, line)
			return 1
		}
	}
	return fn(args)
}

func unsupported(name string, args []string) int {
	fmt.Fprintf(os.Stderr, "%s stub cannot handle: %s\n", name, strings.Join(args, " "))
	return 1
}
