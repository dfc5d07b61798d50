package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default recipe invalid: %v", err)
	}
}

func TestDefaultInstallSpecs(t *testing.T) {
	r := Default()
	want := [][]string{
		{"node-sass", "terra-aggregate-translations"},
		{"terra-base", "react-intl@^2.9.0", "prop-types@^15.0.0"},
	}
	var got [][]string
	for _, g := range r.Install {
		got = append(got, g.Specs())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("install specs (-want +got):\n%s", diff)
	}
	if !r.Install[0].Dev || r.Install[1].Dev {
		t.Fatal("first group must be dev, second runtime")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "recipe.toml")
	if err := Save(path, Default()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestLoadPartialFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipe.toml")
	data := `
package_manager = "npm"

[[install]]
name = "runtime"

[[install.packages]]
name = "terra-core"
version = "~1.2"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.PackageManager != "npm" {
		t.Fatalf("PackageManager = %q", r.PackageManager)
	}
	if len(r.Install) != 1 || r.Install[0].Packages[0].Spec() != "terra-core@~1.2" {
		t.Fatalf("Install = %+v", r.Install)
	}
	if r.Generator.Name != "npx" {
		t.Fatalf("Generator = %+v", r.Generator)
	}
	if len(r.Templates) != len(Default().Templates) || len(r.Patches) != 3 {
		t.Fatal("omitted sections should take defaults")
	}
}

func TestLoadRejectsBadConstraint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipe.toml")
	data := `
[[install]]
name = "runtime"

[[install.packages]]
name = "react-intl"
version = "not-a-version"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "invalid version") {
		t.Fatalf("expected invalid version error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Recipe)
		want   error
	}{
		{"missing generator", func(r *Recipe) { r.Generator.Name = "" }, ErrMissingGenerator},
		{"missing package manager", func(r *Recipe) { r.PackageManager = " " }, ErrMissingPackageManager},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Default()
			tc.mutate(&r)
			if err := r.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}

	r := Default()
	r.Templates = append(r.Templates, r.Templates[0])
	if err := r.Validate(); err == nil || !strings.Contains(err.Error(), "listed twice") {
		t.Fatalf("duplicate template: %v", err)
	}

	r = Default()
	dup := r.Templates[0]
	dup.Path = "./" + dup.Path
	r.Templates = append(r.Templates, dup)
	if err := r.Validate(); err == nil || !strings.Contains(err.Error(), "App.js listed twice") {
		t.Fatalf("duplicate template spelled differently: %v", err)
	}

	r = Default()
	r.Install[0].Packages = nil
	if err := r.Validate(); err == nil {
		t.Fatal("empty install group should be rejected")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}
}
