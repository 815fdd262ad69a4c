package dbus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/fsnotice/internal/config"
	"github.com/jmylchreest/fsnotice/internal/model"
)

func TestServer_PresentCallsHandler(t *testing.T) {
	s := NewServer(config.DefaultConfig(), nil)

	var got model.Notice
	s.SetPresentHandler(func(n model.Notice) error {
		got = n
		return nil
	})

	id, dErr := s.Present("Break in 5 minutes", 9999, "orange")
	require.Nil(t, dErr)
	assert.Equal(t, got.ID, id)
	assert.Equal(t, config.DefaultSizeMax, got.FontSize)
	assert.Equal(t, "#ffa500", got.Color)
}

func TestServer_PresentRejectsBadColor(t *testing.T) {
	s := NewServer(nil, nil)
	called := false
	s.SetPresentHandler(func(model.Notice) error {
		called = true
		return nil
	})

	id, dErr := s.Present("x", 100, "#12")
	require.NotNil(t, dErr)
	assert.Equal(t, ErrorInvalidArgs, dErr.Name)
	assert.Empty(t, id)
	assert.False(t, called)
}

func TestServer_PresentHandlerError(t *testing.T) {
	s := NewServer(nil, nil)
	s.SetPresentHandler(func(model.Notice) error { return errors.New("no display") })

	_, dErr := s.Present("x", 100, "")
	require.NotNil(t, dErr)
	assert.Equal(t, ErrorFailed, dErr.Name)
}

func TestServer_CloseAndState(t *testing.T) {
	s := NewServer(nil, nil)

	closed, dErr := s.Close()
	require.Nil(t, dErr)
	assert.False(t, closed, "no handler")

	presenting, id, dErr := s.GetState()
	require.Nil(t, dErr)
	assert.False(t, presenting)
	assert.Empty(t, id)

	s.SetCloseHandler(func() bool { return true })
	s.SetStateFunc(func() State { return State{Presenting: true, ID: "01XYZ"} })

	closed, _ = s.Close()
	assert.True(t, closed)

	presenting, id, _ = s.GetState()
	assert.True(t, presenting)
	assert.Equal(t, "01XYZ", id)
}

func TestServer_EmitClosedNotConnected(t *testing.T) {
	s := NewServer(nil, nil)
	assert.Error(t, s.EmitClosed("x", CloseReasonDismissed))
	assert.NoError(t, s.Stop(), "stop before start is a no-op")
}

func TestServer_UpdateConfig(t *testing.T) {
	s := NewServer(nil, nil)
	cfg := config.DefaultConfig()
	cfg.Size.Max = 60
	cfg.Size.Initial = 50
	s.UpdateConfig(cfg)

	var got model.Notice
	s.SetPresentHandler(func(n model.Notice) error { got = n; return nil })
	_, dErr := s.Present("x", 100, "")
	require.Nil(t, dErr)
	assert.Equal(t, 60, got.FontSize)
}
