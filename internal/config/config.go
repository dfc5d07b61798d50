package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/Masterminds/semver/v3"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/brandonbloom/create-terra-react-app/internal/fsutil"
	"github.com/brandonbloom/create-terra-react-app/internal/patch"
	"github.com/brandonbloom/create-terra-react-app/internal/scaffold"
	"github.com/brandonbloom/create-terra-react-app/internal/templates"
)

// Recipe captures everything that happens to a freshly generated app.
type Recipe struct {
	Generator      GeneratorBlock      `toml:"generator"`
	PackageManager string              `toml:"package_manager"`
	Install        []InstallGroup      `toml:"install"`
	Templates      []scaffold.Template `toml:"templates"`
	Patches        []patch.Rule        `toml:"patches"`
	NextSteps      []string            `toml:"next_steps"`
	// Concurrency bounds the template and patch fan-out.
	Concurrency int `toml:"concurrency"`
}

// GeneratorBlock names the command that creates the workspace. The app name
// is appended as the final argument.
type GeneratorBlock struct {
	Name string   `toml:"name"`
	Args []string `toml:"args"`
}

// InstallGroup is one package manager invocation.
type InstallGroup struct {
	Name     string    `toml:"name"`
	Dev      bool      `toml:"dev"`
	Packages []Package `toml:"packages"`
}

// Package is a dependency with an optional semver constraint.
type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version,omitempty"`
}

// Spec renders the package the way yarn expects it on the command line.
func (p Package) Spec() string {
	if p.Version == "" {
		return p.Name
	}
	return p.Name + "@" + p.Version
}

// Specs renders every package in the group.
func (g InstallGroup) Specs() []string {
	out := make([]string, 0, len(g.Packages))
	for _, p := range g.Packages {
		out = append(out, p.Spec())
	}
	return out
}

var (
	// ErrMissingGenerator indicates the recipe has no generator command.
	ErrMissingGenerator = errors.New("recipe.generator.name must be set")
	// ErrMissingPackageManager indicates the recipe has no package manager.
	ErrMissingPackageManager = errors.New("recipe.package_manager must be set")
)

// Default returns the terra-ui recipe.
func Default() Recipe {
	return Recipe{
		Generator: GeneratorBlock{
			Name: "npx",
			Args: []string{"create-react-app"},
		},
		PackageManager: "yarn",
		Install: []InstallGroup{
			{
				Name: "dev",
				Dev:  true,
				Packages: []Package{
					{Name: "node-sass"},
					{Name: "terra-aggregate-translations"},
				},
			},
			{
				Name: "runtime",
				Packages: []Package{
					{Name: "terra-base"},
					{Name: "react-intl", Version: "^2.9.0"},
					{Name: "prop-types", Version: "^15.0.0"},
				},
			},
		},
		Templates:   templates.Default(),
		Patches:     patch.Defaults(),
		NextSteps:   []string{"yarn start"},
		Concurrency: 8,
	}
}

// applyDefaults fills sections a recipe file left out.
func (r *Recipe) applyDefaults() {
	def := Default()
	if r.Generator.Name == "" {
		r.Generator = def.Generator
	}
	if r.PackageManager == "" {
		r.PackageManager = def.PackageManager
	}
	if r.Install == nil {
		r.Install = def.Install
	}
	if r.Templates == nil {
		r.Templates = def.Templates
	}
	if r.Patches == nil {
		r.Patches = def.Patches
	}
	if r.NextSteps == nil {
		r.NextSteps = def.NextSteps
	}
	if r.Concurrency <= 0 {
		r.Concurrency = def.Concurrency
	}
}

// Validate ensures the recipe can drive a scaffold run.
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.Generator.Name) == "" {
		return ErrMissingGenerator
	}
	if strings.TrimSpace(r.PackageManager) == "" {
		return ErrMissingPackageManager
	}
	for _, g := range r.Install {
		if len(g.Packages) == 0 {
			return fmt.Errorf("install group %q has no packages", g.Name)
		}
		for _, p := range g.Packages {
			if p.Name == "" {
				return fmt.Errorf("install group %q: package name must be set", g.Name)
			}
			if p.Version == "" {
				continue
			}
			if _, err := semver.NewConstraint(p.Version); err != nil {
				return fmt.Errorf("install group %q: %s: invalid version %q: %w", g.Name, p.Name, p.Version, err)
			}
		}
	}
	seen := make(map[string]bool, len(r.Templates))
	for _, t := range r.Templates {
		if err := t.Validate(); err != nil {
			return err
		}
		key := path.Clean(t.Path)
		if seen[key] {
			return fmt.Errorf("template %s listed twice", key)
		}
		seen[key] = true
	}
	for _, p := range r.Patches {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a recipe from disk. Sections the file omits take the defaults.
func Load(path string) (Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Recipe{}, err
	}

	var r Recipe
	if err := toml.Unmarshal(data, &r); err != nil {
		return Recipe{}, fmt.Errorf("parse %s: %w", path, err)
	}
	r.applyDefaults()
	if err := r.Validate(); err != nil {
		return Recipe{}, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Marshal encodes the recipe as TOML.
func Marshal(r Recipe) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return toml.Marshal(r)
}

// Save writes the recipe to disk, creating parent directories as needed.
func Save(path string, r Recipe) error {
	data, err := Marshal(r)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAll(path, data, 0o644)
}
