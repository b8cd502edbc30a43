package client

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/medportal/internal/client/models"
)

// Client is the clinic API as the session layer sees it.
type Client interface {
	Login(ctx context.Context, req models.LoginRequest) (models.TokenResponse, error)
	Register(ctx context.Context, req models.RegistrationRequest) (models.UserSummary, error)
	GetUser(ctx context.Context, id string) (models.Profile, error)
	UpdatePatient(ctx context.Context, id string, upd models.ProfileUpdate) (models.Profile, error)
	ListDoctors(ctx context.Context) ([]models.Doctor, error)
	Ping(ctx context.Context) error
}

// HTTPClient implements Client on top of a Dispatcher.
type HTTPClient struct {
	d *Dispatcher
}

func NewHTTPClient(d *Dispatcher) *HTTPClient {
	return &HTTPClient{d: d}
}

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (models.TokenResponse, error) {
	return Do[models.TokenResponse](ctx, c.d, Post("/login", req).AsPublic())
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegistrationRequest) (models.UserSummary, error) {
	return Do[models.UserSummary](ctx, c.d, Post("/auth/register", req).AsPublic())
}

func (c *HTTPClient) GetUser(ctx context.Context, id string) (models.Profile, error) {
	return Do[models.Profile](ctx, c.d, Get("/user/getuser/"+url.PathEscape(id)))
}

// UpdatePatient sends PUT /patients/{id}. Some deployments answer with the
// updated record and some with an empty body; in the latter case the zero
// Profile is returned.
func (c *HTTPClient) UpdatePatient(ctx context.Context, id string, upd models.ProfileUpdate) (models.Profile, error) {
	return Do[models.Profile](ctx, c.d, Put("/patients/"+url.PathEscape(id), upd))
}

func (c *HTTPClient) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	return Do[[]models.Doctor](ctx, c.d, Get("/doctors/"))
}

// Ping checks that the API answers on its root path.
func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.d.Send(ctx, Get("/").AsPublic())
	return err
}
