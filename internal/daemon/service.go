package daemon

import (
	"log/slog"
	"sync"

	"github.com/jmylchreest/fsnotice/internal/config"
	"github.com/jmylchreest/fsnotice/internal/dbus"
	"github.com/jmylchreest/fsnotice/internal/model"
	"github.com/jmylchreest/fsnotice/internal/store"
)

// Presenter is the window side of the daemon. Its methods run on the UI
// thread except State.
type Presenter interface {
	Show(n model.Notice) (model.Notice, error)
	Close(reason dbus.CloseReason) bool
	State() dbus.State
}

// Chimer plays the attention sound.
type Chimer interface {
	Play() error
}

// ClosedEmitter publishes ended presentations.
type ClosedEmitter interface {
	EmitClosed(id string, reason dbus.CloseReason) error
}

// Invoker schedules fn on the UI thread.
type Invoker func(fn func())

// Service routes requests to the presenter and records what was shown.
type Service struct {
	logger    *slog.Logger
	presenter Presenter
	invoke    Invoker
	history   *store.Store
	chime     Chimer
	emitter   ClosedEmitter

	mu   sync.RWMutex
	keep int
}

// Options wires optional collaborators into a Service.
type Options struct {
	History *store.Store
	Chime   Chimer
	Emitter ClosedEmitter
	Logger  *slog.Logger
}

// NewService creates a service. invoke must run fn on the thread that owns
// presenter.
func NewService(cfg *config.Config, presenter Presenter, invoke Invoker, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Service{
		logger:    logger,
		presenter: presenter,
		invoke:    invoke,
		history:   opts.History,
		chime:     opts.Chime,
		emitter:   opts.Emitter,
		keep:      cfg.History.Keep,
	}
}

// UpdateConfig applies reloaded history settings.
func (s *Service) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	s.keep = cfg.History.Keep
	s.mu.Unlock()
}

// Present schedules n for display. It returns once scheduled; display
// failures are logged.
func (s *Service) Present(n model.Notice) error {
	s.invoke(func() {
		presented, err := s.presenter.Show(n)
		if err != nil {
			s.logger.Error("failed to present notice", "id", n.ID, "error", err)
			return
		}
		s.record(presented)

		if s.chime != nil {
			go func() {
				if err := s.chime.Play(); err != nil {
					s.logger.Debug("failed to play chime", "error", err)
				}
			}()
		}
	})
	return nil
}

// Close schedules the current presentation to close and reports whether
// one was showing.
func (s *Service) Close() bool {
	if !s.presenter.State().Presenting {
		return false
	}
	s.invoke(func() {
		s.presenter.Close(dbus.CloseReasonClosed)
	})
	return true
}

// State reports the presenter state.
func (s *Service) State() dbus.State {
	return s.presenter.State()
}

// HandleClosed records an ended presentation and emits the Closed signal.
// Wire it to the presenter's close callback.
func (s *Service) HandleClosed(n model.Notice, reason dbus.CloseReason) {
	s.record(n)

	if s.emitter != nil {
		if err := s.emitter.EmitClosed(n.ID, reason); err != nil {
			s.logger.Warn("failed to emit Closed signal", "id", n.ID, "error", err)
		}
	}
	s.logger.Info("notice closed", "id", n.ID, "reason", reason.String())
}

func (s *Service) record(n model.Notice) {
	if s.history == nil {
		return
	}
	if err := s.history.Add(n); err != nil {
		s.logger.Warn("failed to record notice", "id", n.ID, "error", err)
		return
	}

	s.mu.RLock()
	keep := s.keep
	s.mu.RUnlock()
	if keep > 0 && s.history.Count() > keep {
		if removed, err := s.history.Prune(keep); err != nil {
			s.logger.Warn("failed to prune history", "error", err)
		} else {
			s.logger.Debug("pruned history", "removed", removed)
		}
	}
}
