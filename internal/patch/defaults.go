package patch

import "strings"

const aggregateTranslations = "tt-aggregate-translations -b ./ -d ./src/**/translations -d ./translations -o ./node_modules/terra-i18n/node_modules -f es6"

// Defaults returns the rules that wire terra-ui into a create-react-app tree.
func Defaults() []Rule {
	return []Rule{
		{
			Name:    "gitignore",
			Path:    ".gitignore",
			Pattern: `#.misc`,
			Replacement: strings.Join([]string{
				"# terra-ui",
				"aggregated-translations",
				"",
				"# misc",
			}, "\n"),
			Guard: "aggregated-translations",
		},
		{
			Name:        "html-dir",
			Path:        "public/index.html",
			Pattern:     `<html.lang="en">`,
			Replacement: `<html lang="en" dir="ltr">`,
			Guard:       `dir="ltr"`,
		},
		{
			Name:    "package-scripts",
			Path:    "package.json",
			Pattern: `"scripts":.\{`,
			Replacement: `"scripts": {
    "aggregate-translations": "` + aggregateTranslations + `",
    "prestart": "npm run aggregate-translations",`,
			Guard:  `"aggregate-translations":`,
			Format: FormatJSON,
		},
	}
}
