// Package theme handles CSS theme loading and hot-reload for the
// presentation window. It supports loading themes from
// ~/.config/fsnotice/themes/ and provides embedded themes for use when no
// custom theme is configured. Per-notice rules (font size, colors) are
// rendered separately by NoticeCSS and layered above the theme.
package theme
