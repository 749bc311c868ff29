package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"pagient/internal/app/client/config"
)

// App wires the synchronization engine together: durable settings, session,
// entity store, backend client, snapshot loader, stream consumer, guard and
// action layer. Construction only wires; nothing talks to the network until
// Login or Run.
type App struct {
	config   *config.Config
	log      *slog.Logger
	settings *SettingsStore
	session  *Session
	store    *Store
	api      *httpClient
	snapshot *SnapshotLoader
	stream   *StreamConsumer
	actions  *Actions
	guard    *Guard

	mu          sync.RWMutex
	currentPath string
	// redirect remembers where to go after the detour a guard decision took.
	redirect string
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	settings, err := NewSettingsStore(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}

	session, err := NewSession(settings, log)
	if err != nil {
		settings.Close()
		return nil, err
	}

	store := NewStore(settings, log)
	api := NewHTTPClient(cfg, session, log)
	session.BindAPI(api)

	snapshot := NewSnapshotLoader(api, store, log)
	stream := NewStreamConsumer(cfg.WebsocketURL(), session, snapshot, store, log)

	app := &App{
		config:      cfg,
		log:         log,
		settings:    settings,
		session:     session,
		store:       store,
		api:         api,
		snapshot:    snapshot,
		stream:      stream,
		actions:     NewActions(api, log),
		guard:       NewGuard(session),
		currentPath: RouteRoot,
	}

	api.SetPathProvider(app.CurrentPath)
	session.OnExpire(func(path string) {
		// Central AuthExpired handling: back to the login view, remembering
		// where the user was.
		app.mu.Lock()
		app.currentPath = RouteLogin
		app.redirect = path
		app.mu.Unlock()
	})

	return app, nil
}

// Run keeps the engine live: connect the channel, load the snapshot, apply
// events until the connection drops, then start over. A disconnect always
// re-runs the full snapshot before events are applied again; the batch
// receive path is idempotent, so this is safe. Run returns when ctx is
// canceled or the session ends.
func (a *App) Run(ctx context.Context) error {
	delay := time.Duration(a.config.ReconnectDelay) * time.Second

	for {
		if ctx.Err() != nil {
			return nil
		}
		if !a.session.IsLoggedIn() {
			return ErrAuthExpired
		}

		if err := a.runOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, ErrAuthExpired) || !a.session.IsLoggedIn() {
				return ErrAuthExpired
			}

			a.log.Warn("connection lost, reconnecting", "error", err, "delay", delay)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
		}
	}
}

// runOnce performs one connect/bootstrap/listen cycle. The listener starts
// before the snapshot so that early events are read and dropped instead of
// piling up in the transport.
func (a *App) runOnce(ctx context.Context) error {
	conn, err := a.stream.Connect(ctx)
	if err != nil {
		return err
	}

	listenErr := make(chan error, 1)
	listenCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		listenErr <- a.stream.Listen(listenCtx, conn)
	}()

	if err := a.snapshot.Bootstrap(ctx); err != nil {
		cancel()
		<-listenErr
		return err
	}

	return <-listenErr
}

// Navigate runs the guard over a navigation intent and moves the current
// view accordingly. It returns the guard's decision and the redirect
// parameter carried with it.
func (a *App) Navigate(path string) (Decision, string) {
	decision, redirect := a.guard.Check(path)

	a.mu.Lock()
	switch decision {
	case RedirectToLogin:
		a.currentPath = RouteLogin
		a.redirect = redirect
	case RedirectToLogout:
		a.currentPath = RouteLogout
		a.redirect = redirect
	default:
		a.currentPath = path
	}
	a.mu.Unlock()

	return decision, redirect
}

// CurrentPath returns the view the user is on.
func (a *App) CurrentPath() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.currentPath
}

// Redirect returns the pending post-detour target, "" when none.
func (a *App) Redirect() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.redirect
}

// Session exposes the session manager.
func (a *App) Session() *Session {
	return a.session
}

// Store exposes the entity store and its views.
func (a *App) Store() *Store {
	return a.store
}

// Actions exposes the optimistic action layer.
func (a *App) Actions() *Actions {
	return a.actions
}

// Stream exposes the live channel consumer.
func (a *App) Stream() *StreamConsumer {
	return a.stream
}

// Bootstrap loads the snapshot without attaching the live channel; the
// one-shot commands (list, call, assign) use this.
func (a *App) Bootstrap(ctx context.Context) error {
	return a.snapshot.Bootstrap(ctx)
}

// Close releases the durable storage.
func (a *App) Close() error {
	return a.settings.Close()
}
