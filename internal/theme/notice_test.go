package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/fsnotice/internal/model"
)

func TestNoticeCSS(t *testing.T) {
	n := model.Notice{FontSize: 120, Color: "Yellow"}

	css, err := NoticeCSS(n, "#123", 20)
	require.NoError(t, err)
	assert.Contains(t, css, "font-size: 120px;")
	assert.Contains(t, css, "color: #ffff00;")
	assert.Contains(t, css, "background-color: #112233;")
	assert.Contains(t, css, "padding: 20px;")
}

func TestNoticeCSS_BackgroundPrecedence(t *testing.T) {
	n := model.Notice{FontSize: 50, Color: "#fff", Background: "#ff0000"}
	css, err := NoticeCSS(n, "#000000", 0)
	require.NoError(t, err)
	assert.Contains(t, css, "background-color: #ff0000;")

	n.Background = ""
	css, err = NoticeCSS(n, "", -4)
	require.NoError(t, err)
	assert.Contains(t, css, "background-color: "+model.DefaultBackground+";")
	assert.Contains(t, css, "padding: 0px;")
}

func TestNoticeCSS_Invalid(t *testing.T) {
	_, err := NoticeCSS(model.Notice{FontSize: 0, Color: "#fff"}, "", 0)
	assert.ErrorIs(t, err, model.ErrInvalidFontSize)

	_, err = NoticeCSS(model.Notice{FontSize: 10, Color: "red; } * { color: blue"}, "", 0)
	assert.ErrorIs(t, err, model.ErrInvalidColor)

	_, err = NoticeCSS(model.Notice{FontSize: 10, Color: "#fff"}, "nope", 0)
	assert.ErrorIs(t, err, model.ErrInvalidColor)
}
