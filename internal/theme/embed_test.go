package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEmbeddedTheme(t *testing.T) {
	for _, name := range BundledThemes {
		t.Run(name, func(t *testing.T) {
			css, found := GetEmbeddedTheme(name)
			require.True(t, found)
			assert.Contains(t, css, `@import "_base.css"`)
			assert.Contains(t, css, ".fsnotice-close")
		})
	}

	css, found := GetEmbeddedTheme("nonexistent")
	assert.False(t, found)
	assert.Empty(t, css)
}

func TestGetEmbeddedPartial(t *testing.T) {
	for _, name := range []string{"_base.css", "_base", "base"} {
		css, found := GetEmbeddedPartial(name)
		require.True(t, found, name)
		assert.Contains(t, css, ".fsnotice-window")
	}

	_, found := GetEmbeddedPartial("_nonexistent.css")
	assert.False(t, found)
}

func TestListEmbeddedThemes(t *testing.T) {
	themes := ListEmbeddedThemes()
	assert.ElementsMatch(t, BundledThemes, themes)

	for _, name := range themes {
		assert.False(t, strings.HasPrefix(name, "_"), "partial listed: %s", name)
	}
}

func TestGetEmbeddedTheme_RejectsPartials(t *testing.T) {
	_, found := GetEmbeddedTheme("_base")
	assert.False(t, found)

	_, found = GetEmbeddedTheme("")
	assert.False(t, found)
}

func TestBundledThemes_ResolvedHaveRequiredClasses(t *testing.T) {
	required := []string{".fsnotice-window", ".fsnotice-text", ".fsnotice-close"}

	for _, name := range BundledThemes {
		t.Run(name, func(t *testing.T) {
			th, ok := LoadBundled(name)
			require.True(t, ok)
			assert.Contains(t, th.CSS, "/* imported (embedded): _base.css */")
			for _, class := range required {
				assert.Contains(t, th.CSS, class)
			}
			assert.Equal(t, strings.Count(th.CSS, "{"), strings.Count(th.CSS, "}"), "balanced braces")
		})
	}
}
