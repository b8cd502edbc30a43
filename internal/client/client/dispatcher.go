package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/textproto"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/medportal/internal/client/apierr"
	"github.com/dmitrijs2005/medportal/internal/client/credentials"
	"github.com/dmitrijs2005/medportal/internal/client/events"
	"github.com/dmitrijs2005/medportal/internal/common"
	"github.com/dmitrijs2005/medportal/internal/logging"
)

// Dispatcher sends Requests to the API with the current credential attached
// and hands every outcome to its Interceptor. It is safe for concurrent use.
type Dispatcher struct {
	base        string
	http        *http.Client
	store       credentials.Store
	policy      AuthPolicy
	timeout     time.Duration
	limiter     *rate.Limiter
	log         logging.Logger
	pub         events.Publisher
	interceptor *Interceptor
}

type Option func(*Dispatcher)

// WithHTTPClient replaces the default client, which does not follow
// redirects so that 3xx answers are classified like other rejections.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Dispatcher) { d.http = c }
}

func WithAuthPolicy(p AuthPolicy) Option {
	return func(d *Dispatcher) { d.policy = p }
}

// WithTimeout bounds each request. Zero means no bound.
func WithTimeout(t time.Duration) Option {
	return func(d *Dispatcher) { d.timeout = t }
}

// WithRateLimit caps outgoing requests per second. Zero or less disables it.
func WithRateLimit(perSecond float64) Option {
	return func(d *Dispatcher) {
		if perSecond <= 0 {
			d.limiter = nil
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		d.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func WithLogger(l logging.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// WithPublisher sets where SessionExpired is announced.
func WithPublisher(p events.Publisher) Option {
	return func(d *Dispatcher) { d.pub = p }
}

// NewDispatcher builds a dispatcher for the API rooted at baseURL.
func NewDispatcher(baseURL string, store credentials.Store, opts ...Option) (*Dispatcher, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q is not absolute", baseURL)
	}

	d := &Dispatcher{
		base:  strings.TrimRight(u.String(), "/"),
		store: store,
		http: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
		log: logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = logging.NopLogger{}
	}
	d.interceptor = NewInterceptor(store, d.pub, d.log)
	return d, nil
}

// Send performs r and returns the response body of a 2xx answer. Any other
// outcome is returned as an *apierr.Error.
func (d *Dispatcher) Send(ctx context.Context, r Request) ([]byte, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, d.interceptor.Failure(ctx, r, err)
		}
	}

	hreq, err := d.build(ctx, r)
	if err != nil {
		return nil, apierr.ClientFault(err)
	}

	// The credential is read as late as possible so a login or expiry that
	// happened while this request waited is respected.
	token, hasToken := d.store.Get()
	if hasToken {
		hreq.Header.Set(common.HeaderAuthorization, common.BearerPrefix+token)
	}
	overlay(hreq.Header, r.Header)
	ctx = logging.ContextWith(ctx, "request_id", hreq.Header.Get(common.HeaderRequestID))

	if !r.Public && !hasToken && d.policy == AuthPolicyFailFast && hreq.Header.Get(common.HeaderAuthorization) == "" {
		return nil, apierr.New(apierr.KindUnauthenticated, "not logged in")
	}

	start := time.Now()
	resp, err := d.http.Do(hreq)
	if err != nil {
		return nil, d.interceptor.Failure(ctx, r, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, d.interceptor.Failure(ctx, r, err)
	}

	d.log.Debug(ctx, "api request",
		"method", hreq.Method,
		"path", r.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if err := d.interceptor.Response(ctx, r, resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

func (d *Dispatcher) build(ctx context.Context, r Request) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	path := r.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := url.Parse(d.base + path)
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}
	if len(r.Query) > 0 {
		q := u.Query()
		for k, vs := range r.Query {
			q[k] = slices.Clone(vs)
		}
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	hreq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	hreq.Header.Set(common.HeaderContentType, common.ContentTypeJSON)
	hreq.Header.Set(common.HeaderRequestID, uuid.NewString())
	return hreq, nil
}

// overlay copies src into dst, replacing keys that are already present.
func overlay(dst, src http.Header) {
	for k, vs := range src {
		dst[textproto.CanonicalMIMEHeaderKey(k)] = slices.Clone(vs)
	}
}

// Do sends r and decodes a JSON answer into T. An empty body yields the zero
// value.
func Do[T any](ctx context.Context, d *Dispatcher, r Request) (T, error) {
	var out T
	body, err := d.Send(ctx, r)
	if err != nil {
		return out, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, apierr.ClientFault(fmt.Errorf("decode %s %s response: %w", r.Method, r.Path, err))
	}
	return out, nil
}
