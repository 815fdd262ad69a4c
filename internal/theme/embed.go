package theme

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed themes/*.css
var embedded embed.FS

// bundled is the embedded themes directory.
var bundled = func() fs.FS {
	sub, err := fs.Sub(embedded, "themes")
	if err != nil {
		panic(err)
	}
	return sub
}()

// DefaultThemeName is the theme used when none is configured.
const DefaultThemeName = "default"

// BundledThemes lists the themes shipped in the binary.
var BundledThemes = []string{"default", "high-contrast", "minimal"}

func readBundled(file string) (string, bool) {
	data, err := fs.ReadFile(bundled, file)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// GetEmbeddedTheme returns the raw CSS of a bundled theme. @import rules are
// left as-is; LoadBundled resolves them.
func GetEmbeddedTheme(name string) (string, bool) {
	if name == "" || strings.HasPrefix(name, "_") {
		return "", false
	}
	return readBundled(name + ".css")
}

// GetEmbeddedPartial returns a bundled partial. "base", "_base" and
// "_base.css" all name the same file.
func GetEmbeddedPartial(name string) (string, bool) {
	name = "_" + strings.TrimPrefix(strings.TrimSuffix(name, ".css"), "_")
	return readBundled(name + ".css")
}

// ListEmbeddedThemes returns the sorted names of bundled themes, excluding
// partials.
func ListEmbeddedThemes() []string {
	files, err := fs.Glob(bundled, "*.css")
	if err != nil {
		return BundledThemes
	}

	var names []string
	for _, f := range files {
		if strings.HasPrefix(f, "_") {
			continue
		}
		names = append(names, strings.TrimSuffix(f, path.Ext(f)))
	}
	sort.Strings(names)
	return names
}
