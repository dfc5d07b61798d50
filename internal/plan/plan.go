// Package plan describes what a run would do without doing it.
//
// A plan lists the subprocesses in the order the pipeline would start them
// and previews each file mutation as a unified diff against the workspace on
// disk. Building a plan never writes a file or starts a process.
package plan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/pkg/diff"

	"github.com/brandonbloom/create-terra-react-app/internal/config"
	"github.com/brandonbloom/create-terra-react-app/internal/outcome"
	"github.com/brandonbloom/create-terra-react-app/internal/patch"
	"github.com/brandonbloom/create-terra-react-app/internal/pipeline"
	"github.com/brandonbloom/create-terra-react-app/internal/project"
	"github.com/brandonbloom/create-terra-react-app/internal/runner"
	"github.com/brandonbloom/create-terra-react-app/internal/scaffold"
)

// Deferred marks a patch whose target does not exist until the generator
// has run.
const Deferred outcome.Status = "deferred"

// Step is one subprocess the pipeline would start.
type Step struct {
	Stage   string
	Dir     string
	Command runner.Command
}

// Change previews one file mutation.
type Change struct {
	outcome.Outcome
	// Diff is a unified diff of the change, empty when nothing changes.
	Diff string
}

// Plan is the preview of a run.
type Plan struct {
	Workspace project.Workspace
	Existing  bool
	Steps     []Step
	Changes   []Change
}

// Build previews running r against ws with the given stage selection.
func Build(r config.Recipe, ws project.Workspace, opts pipeline.Options) (*Plan, error) {
	p := &Plan{Workspace: ws, Existing: opts.Existing}
	if !opts.Existing {
		if err := ws.EnsureAbsent(); err != nil {
			return nil, err
		}
		p.Steps = append(p.Steps, Step{
			Stage:   pipeline.StageGenerate,
			Dir:     ws.Parent,
			Command: pipeline.GeneratorCommand(r, ws.Name),
		})
	} else if err := ws.Verify(); err != nil {
		return nil, err
	}
	if !opts.SkipInstall {
		for _, cmd := range pipeline.InstallCommands(r) {
			p.Steps = append(p.Steps, Step{Stage: pipeline.StageInstall, Dir: ws.Root, Command: cmd})
		}
	}

	for _, t := range r.Templates {
		p.Changes = append(p.Changes, templateChange(ws, t))
	}
	for _, rule := range r.Patches {
		p.Changes = append(p.Changes, patchChange(ws, rule))
	}

	if !opts.SkipCommit {
		p.Steps = append(p.Steps,
			Step{Stage: pipeline.StageCommit, Dir: ws.Root, Command: runner.New("git", "add", ".")},
			Step{Stage: pipeline.StageCommit, Dir: ws.Root, Command: runner.New("git", "commit", "--amend", "--no-edit")},
		)
	}
	return p, nil
}

func templateChange(ws project.Workspace, t scaffold.Template) Change {
	target, content := t.Target(), t.Content
	path := filepath.Join(ws.Src(), filepath.FromSlash(t.Path))
	old, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		old = nil
	case err != nil:
		return Change{Outcome: outcome.Fail(target, err)}
	}
	if old != nil && bytes.Equal(old, []byte(content)) {
		return Change{Outcome: outcome.Outcome{Target: target, Status: outcome.Unchanged}}
	}
	d, err := unified(target, string(old), content)
	if err != nil {
		return Change{Outcome: outcome.Fail(target, err)}
	}
	return Change{Outcome: outcome.Outcome{Target: target, Status: outcome.Written}, Diff: d}
}

func patchChange(ws project.Workspace, rule patch.Rule) Change {
	target := rule.Target()
	data, err := os.ReadFile(ws.Path(rule.Path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !ws.Exists() {
			return Change{Outcome: outcome.Outcome{Target: target, Status: Deferred}}
		}
		return Change{Outcome: outcome.Fail(target, fmt.Errorf("%s: %w", rule.Name, err))}
	}
	out, status, err := patch.Apply(rule, string(data))
	if err != nil {
		return Change{Outcome: outcome.Fail(target, err)}
	}
	c := Change{Outcome: outcome.Outcome{Target: target, Status: status}}
	if status == outcome.Patched {
		if c.Diff, err = unified(target, string(data), out); err != nil {
			return Change{Outcome: outcome.Fail(target, err)}
		}
	}
	return c
}

func unified(target, before, after string) (string, error) {
	var buf bytes.Buffer
	if err := diff.Text("a/"+target, "b/"+target, before, after, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Failures returns the changes that could not be previewed.
func (p *Plan) Failures() []outcome.Outcome {
	var failed []outcome.Outcome
	for _, c := range p.Changes {
		if c.Status == outcome.Failed {
			failed = append(failed, c.Outcome)
		}
	}
	return failed
}

// Render writes the plan: commands first, then the file table, then diffs.
func (p *Plan) Render(w io.Writer) {
	header := color.New(color.FgCyan, color.Bold)
	verb := "create"
	if p.Existing {
		verb = "update"
	}
	header.Fprintf(w, "Would %s %s\n", verb, p.Workspace.Root)
	if len(p.Steps) > 0 {
		fmt.Fprintln(w)
		header.Fprintln(w, "Commands:")
		for _, s := range p.Steps {
			fmt.Fprintf(w, "  (%s) %s\n", s.Stage, s.Command)
		}
	}
	if len(p.Changes) > 0 {
		fmt.Fprintln(w)
		header.Fprintln(w, "Files:")
		results := make([]outcome.Outcome, len(p.Changes))
		for i, c := range p.Changes {
			results[i] = c.Outcome
		}
		outcome.Render(w, results)
	}
	for _, c := range p.Changes {
		if c.Diff == "" {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, c.Diff)
	}
}
