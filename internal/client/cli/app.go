package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/medportal/internal/client/events"
	"github.com/dmitrijs2005/medportal/internal/client/services"
	"github.com/dmitrijs2005/medportal/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pingTimeout bounds a single liveness probe of the watcher.
const pingTimeout = 3 * time.Second

type App struct {
	auth   services.AuthService
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer

	mu    sync.Mutex
	mode  Mode
	route string
}

// NewApp builds the CLI around auth. When bus is not nil the app follows
// SessionExpired and LoggedOut back to the login screen.
func NewApp(auth services.AuthService, bus *events.Bus, log logging.Logger, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = logging.NopLogger{}
	}
	a := &App{
		auth:   auth,
		log:    log,
		reader: bufio.NewReader(in),
		out:    out,
		route:  services.DestinationLogin,
	}
	if bus != nil {
		bus.Subscribe(events.SessionExpired, a.onSessionExpired)
		bus.Subscribe(events.LoggedOut, func(context.Context, events.Event) error {
			a.navigate(services.DestinationLogin)
			return nil
		})
	}
	return a
}

func (a *App) onSessionExpired(ctx context.Context, ev events.Event) error {
	a.log.Debug(ctx, "routing to login after expiry", "path", ev.RequestPath)
	a.printf("Your session has expired. Please log in again.\n")
	a.navigate(services.DestinationLogin)
	return nil
}

// Route returns the screen the app is currently showing.
func (a *App) Route() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.route
}

func (a *App) navigate(route string) {
	a.mu.Lock()
	a.route = route
	a.mu.Unlock()
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) printf(format string, args ...any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) isLoggedIn() bool {
	switch a.auth.Session().State {
	case services.StateAuthenticated, services.StatePartial:
		return true
	}
	return false
}

// getStatus renders "(user role mode)" for the prompt, omitting unknown parts.
func (a *App) getStatus() string {
	var parts []string
	s := a.auth.Session()
	if a.isLoggedIn() {
		name := s.Claims.Username
		if s.Profile != nil && s.Profile.DisplayName() != "" {
			name = s.Profile.DisplayName()
		}
		if name != "" {
			parts = append(parts, name)
		}
		if s.Claims.Role != "" {
			parts = append(parts, string(s.Claims.Role))
		}
	}
	if m := a.Mode(); m != "" {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// checkOnline probes the API once and records the result.
func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.auth.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher checks connectivity every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Run shows the welcome banner, starts the connectivity watcher and runs the
// REPL until the user exits.
func (a *App) Run(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.printf("Welcome to medportal (type 'help' for commands)\n")
	a.checkOnline(ctx)

	if a.isLoggedIn() {
		a.navigate(services.Destination(a.auth.Session().Claims.Role))
	} else {
		_ = a.Login(ctx)
	}

	if interval > 0 {
		go a.StartOnlineStatusWatcher(ctx, interval)
	}

	runREPL(ctx, a, a.prompt, a.reader, a.out)
}

func (a *App) prompt() string {
	if s := a.getStatus(); s != "" {
		return fmt.Sprintf("medportal %s %s> ", a.Route(), s)
	}
	return fmt.Sprintf("medportal %s> ", a.Route())
}
