// Minimal create-react-app output: just the files the scaffold patches.
package toolstub

import (
	"fmt"
	"os"
	"path/filepath"
)

var generatedFiles = []struct {
	path    string
	content string
}{
	{"package.json", `{
  "name": "%[1]s",
  "version": "0.1.0",
  "private": true,
  "scripts": {
    "start": "react-scripts start",
    "build": "react-scripts build",
    "test": "react-scripts test"
  }
}
`},
	{".gitignore", "# dependencies\n/node_modules\n\n# misc\n.DS_Store\n"},
	{"public/index.html", "<!DOCTYPE html>\n<html lang=\"en\">\n  <head>\n    <title>React App</title>\n  </head>\n</html>\n"},
	{"src/App.js", "export default function App() { return null; }\n"},
}

func generate(name string) error {
	if _, err := os.Lstat(name); err == nil {
		return fmt.Errorf("the directory %s contains files that could conflict", name)
	}
	for _, f := range generatedFiles {
		path := filepath.Join(name, filepath.FromSlash(f.path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		content := f.content
		if f.path == "package.json" {
			content = fmt.Sprintf(content, name)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}
