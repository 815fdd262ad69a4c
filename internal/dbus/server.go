package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/fsnotice/internal/config"
	"github.com/jmylchreest/fsnotice/internal/model"
)

// PresentHandler is called with a validated notice. It runs on the D-Bus
// goroutine and must hand GTK work to the main loop.
type PresentHandler func(n model.Notice) error

// CloseHandler is called when Close is requested. It reports whether a
// notice was showing.
type CloseHandler func() bool

// StateFunc reports the current presenter state.
type StateFunc func() State

// Server implements the presenter D-Bus interface.
type Server struct {
	conn      *dbus.Conn
	logger    *slog.Logger
	validator *Validator

	mu        sync.RWMutex
	onPresent PresentHandler
	onClose   CloseHandler
	state     StateFunc
	running   bool
}

// NewServer creates a presenter server using cfg for size bounds and
// default color.
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:    logger,
		validator: NewValidator(cfg),
	}
}

// SetPresentHandler sets the handler called for Present.
func (s *Server) SetPresentHandler(h PresentHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPresent = h
}

// SetCloseHandler sets the handler called for Close.
func (s *Server) SetCloseHandler(h CloseHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClose = h
}

// SetStateFunc sets the function backing GetState.
func (s *Server) SetStateFunc(fn StateFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn
}

// UpdateConfig applies reloaded size bounds and defaults.
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.validator.Update(cfg)
}

// Start connects to the session bus, exports the object and claims BusName.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := conn.Export(s, ObjectPath, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: string(ObjectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: presenterMethods(),
				Signals: presenterSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), ObjectPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", BusName)
	}

	s.conn = conn
	s.running = true
	s.logger.Info("D-Bus presenter started", "name", BusName, "path", ObjectPath)
	return nil
}

// Stop releases the bus name. The shared session connection stays open.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if _, err := s.conn.ReleaseName(BusName); err != nil {
		s.logger.Warn("failed to release bus name", "error", err)
	}
	_ = s.conn.Export(nil, ObjectPath, Interface)

	s.logger.Info("D-Bus presenter stopped")
	return nil
}

// Present validates and presents a notice.
// D-Bus method: Present(sis) -> s
func (s *Server) Present(text string, size int32, color string) (string, *dbus.Error) {
	n, err := s.validator.Notice(text, size, color)
	if err != nil {
		s.logger.Debug("Present rejected", "size", size, "color", color, "error", err)
		return "", toDBusError(err)
	}

	s.mu.RLock()
	handler := s.onPresent
	s.mu.RUnlock()

	if handler != nil {
		if err := handler(*n); err != nil {
			s.logger.Warn("Present failed", "id", n.ID, "error", err)
			return "", toDBusError(err)
		}
	}

	s.logger.Debug("Present accepted", "id", n.ID, "size", n.FontSize, "color", n.Color)
	return n.ID, nil
}

// Close ends the current presentation.
// D-Bus method: Close() -> b
func (s *Server) Close() (bool, *dbus.Error) {
	s.mu.RLock()
	handler := s.onClose
	s.mu.RUnlock()

	if handler == nil {
		return false, nil
	}
	return handler(), nil
}

// GetState reports whether a notice is showing and its ID.
// D-Bus method: GetState() -> (bs)
func (s *Server) GetState() (bool, string, *dbus.Error) {
	s.mu.RLock()
	fn := s.state
	s.mu.RUnlock()

	if fn == nil {
		return false, "", nil
	}
	st := fn()
	return st.Presenting, st.ID, nil
}

// EmitClosed emits the Closed signal.
func (s *Server) EmitClosed(id string, reason CloseReason) error {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	if conn == nil {
		return notConnected()
	}
	if err := conn.Emit(ObjectPath, Interface+".Closed", id, uint32(reason)); err != nil {
		return fmt.Errorf("failed to emit Closed signal: %w", err)
	}

	s.logger.Debug("emitted Closed signal", "id", id, "reason", reason.String())
	return nil
}

func presenterMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "Present",
			Args: []introspect.Arg{
				{Name: "text", Type: "s", Direction: "in"},
				{Name: "size", Type: "i", Direction: "in"},
				{Name: "color", Type: "s", Direction: "in"},
				{Name: "id", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "Close",
			Args: []introspect.Arg{
				{Name: "closed", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "GetState",
			Args: []introspect.Arg{
				{Name: "presenting", Type: "b", Direction: "out"},
				{Name: "id", Type: "s", Direction: "out"},
			},
		},
	}
}

func presenterSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "Closed",
			Args: []introspect.Arg{
				{Name: "id", Type: "s"},
				{Name: "reason", Type: "u"},
			},
		},
	}
}
