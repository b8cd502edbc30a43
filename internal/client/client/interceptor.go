package client

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/medportal/internal/client/apierr"
	"github.com/dmitrijs2005/medportal/internal/client/credentials"
	"github.com/dmitrijs2005/medportal/internal/client/events"
	"github.com/dmitrijs2005/medportal/internal/logging"
)

// Interceptor turns raw outcomes into classified errors and applies the one
// side effect the request layer owns: a 401 empties the credential store and
// announces SessionExpired. It never navigates.
type Interceptor struct {
	store credentials.Store
	pub   events.Publisher
	log   logging.Logger
}

func NewInterceptor(store credentials.Store, pub events.Publisher, log logging.Logger) *Interceptor {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &Interceptor{store: store, pub: pub, log: log}
}

// Response classifies a received response. It returns nil for 2xx.
func (i *Interceptor) Response(ctx context.Context, req Request, status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	e := apierr.FromResponse(status, body)
	if e.Kind == apierr.KindAuthenticationExpired {
		i.expire(ctx, req)
	}
	return e
}

// Failure classifies an attempt that produced no response.
func (i *Interceptor) Failure(ctx context.Context, req Request, err error) error {
	var classified *apierr.Error
	if errors.As(err, &classified) {
		return classified
	}
	i.log.Warn(ctx, "request failed without response", "method", req.Method, "path", req.Path, "error", err)
	return apierr.Network(err)
}

// expire empties the store whatever it holds. Only the caller that took a
// credential out publishes, so concurrent 401s for one credential produce
// one event.
func (i *Interceptor) expire(ctx context.Context, req Request) {
	if _, ok := i.store.Take(); !ok {
		return
	}
	i.log.Info(ctx, "credential rejected by server, session expired", "path", req.Path)
	if i.pub != nil {
		i.pub.Publish(ctx, events.Event{Type: events.SessionExpired, RequestPath: req.Path})
	}
}
