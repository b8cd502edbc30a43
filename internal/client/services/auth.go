// Package services holds the application services of the medportal client.
// This file is the session orchestrator: login, registration, logout and
// the profile calls that depend on who is logged in.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/medportal/internal/client/apierr"
	"github.com/dmitrijs2005/medportal/internal/client/claims"
	"github.com/dmitrijs2005/medportal/internal/client/client"
	"github.com/dmitrijs2005/medportal/internal/client/credentials"
	"github.com/dmitrijs2005/medportal/internal/client/events"
	"github.com/dmitrijs2005/medportal/internal/client/media"
	"github.com/dmitrijs2005/medportal/internal/client/models"
	"github.com/dmitrijs2005/medportal/internal/logging"
)

// ErrNoUploader is reported in RegisterResult.UploadErr when a picture was
// supplied but no media backend is configured.
var ErrNoUploader = errors.New("picture uploads are not configured")

// AuthService defines the session operations used by the CLI.
//
// Login and Register validate locally first; invalid input never reaches the
// network. All methods honor context cancellation.
type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error)
	Register(ctx context.Context, req models.RegistrationRequest, picture *media.File) (*RegisterResult, error)
	Logout(ctx context.Context)
	Restore(ctx context.Context) (*Session, error)
	RefreshProfile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.Profile, error)
	ListDoctors(ctx context.Context) ([]models.Doctor, error)
	Ping(ctx context.Context) error
	Session() Session
}

// ProfileCache keeps the last fetched profile across restarts.
// credentials.Persistent implements it.
type ProfileCache interface {
	SaveProfile(ctx context.Context, p models.Profile) error
	LoadProfile(ctx context.Context) (*models.Profile, error)
}

type Option func(*authService)

func WithUploader(u media.Uploader) Option {
	return func(a *authService) { a.uploader = u }
}

func WithProfileCache(c ProfileCache) Option {
	return func(a *authService) { a.cache = c }
}

// WithEvents subscribes the service to SessionExpired, so an expiry seen by
// any request resets the session, and publishes LoggedOut on logout.
func WithEvents(bus *events.Bus) Option {
	return func(a *authService) { a.bus = bus }
}

func WithLogger(l logging.Logger) Option {
	return func(a *authService) { a.log = l }
}

type authService struct {
	client   client.Client
	store    credentials.Store
	uploader media.Uploader
	cache    ProfileCache
	bus      *events.Bus
	log      logging.Logger

	mu      sync.RWMutex
	session Session
}

func NewAuthService(c client.Client, store credentials.Store, opts ...Option) AuthService {
	a := &authService{client: c, store: store, log: logging.NopLogger{}}
	for _, opt := range opts {
		opt(a)
	}
	if a.bus != nil {
		a.bus.Subscribe(events.SessionExpired, func(ctx context.Context, ev events.Event) error {
			a.log.Info(ctx, "session expired", "path", ev.RequestPath)
			a.reset()
			return nil
		})
	}
	return a
}

func (a *authService) Session() Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := a.session
	if s.Profile != nil {
		p := *s.Profile
		s.Profile = &p
	}
	return s
}

func (a *authService) reset() {
	a.mu.Lock()
	a.session = Session{State: StateAnonymous}
	a.mu.Unlock()
}

func (a *authService) setState(s State) {
	a.mu.Lock()
	a.session.State = s
	a.mu.Unlock()
}

// Login validates req, exchanges it for a credential, decodes the claims and
// fetches the profile. A profile failure other than expiry keeps the
// credential and returns a result with ProfileErr set. When the exchange
// itself fails, a session that was active before and whose credential is
// still stored stays in place; otherwise the store is emptied.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	if err := ValidateLogin(req); err != nil {
		return nil, err
	}

	prev := a.Session()
	a.setState(StateAuthenticating)

	tok, err := a.client.Login(ctx, req)
	if err != nil {
		a.abandonLogin(prev)
		return nil, fmt.Errorf("login error: %w", err)
	}

	a.store.Set(tok.AccessToken)
	cl, err := claims.Decode(tok.AccessToken)
	if err != nil {
		a.store.Clear()
		a.reset()
		return nil, fmt.Errorf("login error: %w", err)
	}

	a.mu.Lock()
	a.session = Session{State: StateAuthenticating, Claims: cl}
	a.mu.Unlock()

	res := &LoginResult{Claims: cl, Destination: Destination(cl.Role)}

	profile, err := a.fetchProfile(ctx, cl)
	if err != nil {
		if errors.Is(err, apierr.ErrAuthenticationExpired) {
			a.store.Clear()
			a.reset()
			return nil, fmt.Errorf("fetch profile: %w", err)
		}
		a.log.Warn(ctx, "profile fetch failed after login", "user_id", cl.SubjectID, "error", err)
		a.setState(StatePartial)
		res.ProfileErr = err
		return res, nil
	}

	res.Profile = profile
	return res, nil
}

// abandonLogin puts back prev after a failed exchange if its credential
// survived. Anything else leaves no credential and an anonymous session.
func (a *authService) abandonLogin(prev Session) {
	_, held := a.store.Get()
	if held && (prev.State == StateAuthenticated || prev.State == StatePartial) {
		a.mu.Lock()
		a.session = prev
		a.mu.Unlock()
		return
	}
	a.store.Clear()
	a.reset()
}

// fetchProfile loads the profile of cl's user and, on success, makes it the
// session profile.
func (a *authService) fetchProfile(ctx context.Context, cl claims.Claims) (*models.Profile, error) {
	p, err := a.client.GetUser(ctx, cl.SubjectID)
	if err != nil {
		return nil, err
	}
	a.adoptProfile(ctx, p)
	out := p
	return &out, nil
}

func (a *authService) adoptProfile(ctx context.Context, p models.Profile) {
	a.mu.Lock()
	cp := p
	a.session.Profile = &cp
	a.session.State = StateAuthenticated
	a.mu.Unlock()

	if a.cache != nil {
		if err := a.cache.SaveProfile(ctx, p); err != nil {
			a.log.Warn(ctx, "cache profile", "error", err)
		}
	}
}

// Register validates req, uploads the optional picture and creates the
// account. It never logs in; the destination is the login screen.
func (a *authService) Register(ctx context.Context, req models.RegistrationRequest, picture *media.File) (*RegisterResult, error) {
	if err := ValidateRegistration(req, picture); err != nil {
		return nil, err
	}

	res := &RegisterResult{Destination: DestinationLogin}
	req.ProfilePicture = nil

	if picture != nil {
		switch {
		case a.uploader == nil:
			res.UploadErr = ErrNoUploader
		default:
			url, err := a.uploader.Upload(ctx, picture)
			if err != nil {
				a.log.Warn(ctx, "picture upload failed, registering without it", "error", err)
				res.UploadErr = err
			} else {
				res.PictureURL = url
				req.ProfilePicture = &url
			}
		}
	}

	u, err := a.client.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	res.User = u
	return res, nil
}

// Logout forgets the credential and the session. It is local only.
func (a *authService) Logout(ctx context.Context) {
	a.store.Clear()
	a.reset()
	if a.bus != nil {
		a.bus.Publish(ctx, events.Event{Type: events.LoggedOut})
	}
}

// Restore resumes a credential left in the store by a previous run. With no
// credential it returns an anonymous session and no error. If the server is
// unreachable the cached profile is used and the session is partial.
func (a *authService) Restore(ctx context.Context) (*Session, error) {
	tok, ok := a.store.Get()
	if !ok {
		a.reset()
		s := a.Session()
		return &s, nil
	}

	cl, err := claims.Decode(tok)
	if err != nil {
		a.store.Clear()
		a.reset()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	a.mu.Lock()
	a.session = Session{State: StateAuthenticating, Claims: cl}
	a.mu.Unlock()

	if _, err := a.fetchProfile(ctx, cl); err != nil {
		if errors.Is(err, apierr.ErrAuthenticationExpired) {
			a.reset()
			return nil, fmt.Errorf("restore session: %w", err)
		}
		a.log.Warn(ctx, "profile refresh failed on restore", "error", err)

		var cached *models.Profile
		if a.cache != nil {
			cached, _ = a.cache.LoadProfile(ctx)
		}
		a.mu.Lock()
		a.session.State = StatePartial
		a.session.Profile = cached
		a.mu.Unlock()
	}

	s := a.Session()
	return &s, nil
}

func (a *authService) requireClaims() (claims.Claims, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session.State != StateAuthenticated && a.session.State != StatePartial {
		return claims.Claims{}, apierr.New(apierr.KindUnauthenticated, "not logged in")
	}
	return a.session.Claims, nil
}

// RefreshProfile refetches the profile of the logged-in user.
func (a *authService) RefreshProfile(ctx context.Context) (*models.Profile, error) {
	cl, err := a.requireClaims()
	if err != nil {
		return nil, err
	}
	p, err := a.fetchProfile(ctx, cl)
	if err != nil {
		return nil, fmt.Errorf("refresh profile: %w", err)
	}
	return p, nil
}

// UpdateProfile saves the editable fields of the logged-in patient.
func (a *authService) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.Profile, error) {
	if err := ValidateProfileUpdate(upd); err != nil {
		return nil, err
	}
	cl, err := a.requireClaims()
	if err != nil {
		return nil, err
	}

	a.mu.RLock()
	var current models.Profile
	if a.session.Profile != nil {
		current = *a.session.Profile
	}
	a.mu.RUnlock()

	id := cl.SubjectID
	if current.ID != 0 {
		id = strconv.FormatInt(current.ID, 10)
	}

	p, err := a.client.UpdatePatient(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if p.ID == 0 {
		// empty answer: apply the change to what we had
		p = current
		p.Name = upd.Name
		p.Email = upd.Email
		p.Phone = upd.Phone
		p.InsuranceInfo = upd.InsuranceInfo
	}

	a.adoptProfile(ctx, p)
	out := p
	return &out, nil
}

func (a *authService) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	ds, err := a.client.ListDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return ds, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
