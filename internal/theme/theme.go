package theme

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// importRegex matches @import "file.css"; @import 'file.css'; and @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme is a resolved stylesheet. Path is empty for bundled themes.
type Theme struct {
	Name    string
	Path    string
	CSS     string
	ModTime time.Time
	Bundled bool
}

// LoadFile reads a user theme and inlines its imports.
func LoadFile(name, path string) (*Theme, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	css, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &Theme{
		Name:    name,
		Path:    path,
		CSS:     ProcessImports(string(css), filepath.Dir(path), nil),
		ModTime: info.ModTime(),
	}, nil
}

// LoadBundled returns an embedded theme with its imports inlined.
func LoadBundled(name string) (*Theme, bool) {
	css, ok := GetEmbeddedTheme(name)
	if !ok {
		return nil, false
	}
	return &Theme{
		Name:    name,
		CSS:     ProcessImports(css, "", nil),
		Bundled: true,
	}, true
}

// Resolve finds a theme by name. A file in themesDir overrides the bundled
// theme of the same name. Unknown names fall back to the default theme and
// report found=false. A non-nil err means a user file existed but could not
// be read; t is still usable.
func Resolve(name, themesDir string) (t *Theme, found bool, err error) {
	if name == "" {
		name = DefaultThemeName
	}

	if themesDir != "" {
		path := filepath.Join(themesDir, name+".css")
		if _, statErr := os.Stat(path); statErr == nil {
			t, err = LoadFile(name, path)
			if err == nil {
				return t, true, nil
			}
		}
	}

	if t, ok := LoadBundled(name); ok {
		return t, true, err
	}

	t, _ = LoadBundled(DefaultThemeName)
	return t, false, err
}

// ProcessImports inlines @import statements in css, resolving relative
// paths against baseDir. Files that cannot be read are looked up among the
// embedded partials and themes. seen guards against import cycles.
func ProcessImports(css, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(stmt string) string {
		m := importRegex.FindStringSubmatch(stmt)
		if len(m) < 2 {
			return stmt
		}
		target := m[1]

		full := target
		if !filepath.IsAbs(full) {
			full = filepath.Join(baseDir, target)
		}
		if seen[full] {
			return "/* circular import prevented: " + target + " */"
		}
		seen[full] = true

		data, err := os.ReadFile(full)
		if err == nil {
			return "/* imported: " + target + " */\n" + ProcessImports(string(data), filepath.Dir(full), seen)
		}

		if embedded, ok := embeddedImport(filepath.Base(target)); ok {
			return "/* imported (embedded): " + target + " */\n" + embedded
		}
		return "/* import failed: " + target + " - " + err.Error() + " */"
	})
}

func embeddedImport(base string) (string, bool) {
	if strings.HasPrefix(base, "_") {
		if css, ok := GetEmbeddedPartial(base); ok {
			return css, true
		}
	}
	return GetEmbeddedTheme(strings.TrimSuffix(base, ".css"))
}

// Reload re-reads a user theme if its file changed on disk. It reports
// whether the resolved CSS differs from before.
func (t *Theme) Reload() (bool, error) {
	if t.Bundled {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}
	if !info.ModTime().After(t.ModTime) {
		return false, nil
	}

	data, err := os.ReadFile(t.Path)
	if err != nil {
		return false, err
	}

	css := ProcessImports(string(data), filepath.Dir(t.Path), nil)
	changed := css != t.CSS
	t.CSS = css
	t.ModTime = info.ModTime()
	return changed, nil
}

// ThemeInfo describes a theme for listing.
type ThemeInfo struct {
	Name      string
	Path      string
	IsDefault bool
	Bundled   bool
}

// ListAvailableThemes lists bundled themes followed by user themes in
// themesDir. A user theme with a bundled name replaces its entry.
func ListAvailableThemes(themesDir string) ([]ThemeInfo, error) {
	seen := make(map[string]int)
	var themes []ThemeInfo

	for _, name := range ListEmbeddedThemes() {
		seen[name] = len(themes)
		themes = append(themes, ThemeInfo{
			Name:      name,
			IsDefault: name == DefaultThemeName,
			Bundled:   true,
		})
	}

	if themesDir == "" {
		return themes, nil
	}

	entries, err := os.ReadDir(themesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return themes, nil
		}
		return themes, err
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".css" || strings.HasPrefix(name, "_") {
			continue
		}
		info := ThemeInfo{
			Name: strings.TrimSuffix(name, ".css"),
			Path: filepath.Join(themesDir, name),
		}
		if idx, ok := seen[info.Name]; ok {
			info.IsDefault = themes[idx].IsDefault
			themes[idx] = info
			continue
		}
		seen[info.Name] = len(themes)
		themes = append(themes, info)
	}

	return themes, nil
}
