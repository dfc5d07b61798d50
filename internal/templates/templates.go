// Package templates embeds the source files written over a freshly generated
// React app.
package templates

import (
	"embed"
	"io/fs"
	"path"

	"github.com/brandonbloom/create-terra-react-app/internal/scaffold"
)

//go:embed files
var files embed.FS

const root = "files"

// Default returns the built-in templates, ordered by path.
func Default() []scaffold.Template {
	var out []scaffold.Template
	err := fs.WalkDir(files, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := files.ReadFile(p)
		if err != nil {
			return err
		}
		rel := path.Clean(p[len(root)+1:])
		out = append(out, scaffold.Template{Path: rel, Content: string(data)})
		return nil
	})
	if err != nil {
		// The embedded tree is fixed at build time.
		panic(err)
	}
	return out
}
