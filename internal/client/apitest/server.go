// Package apitest runs an in-process fake of the clinic API for tests.
//
// It implements the endpoints the client uses with just enough behavior to
// exercise the session layer: HS256 tokens carrying user_id, role and
// username, bearer checks on protected routes, 422 field errors on bad
// registrations, and a request log. Override replaces any route's handler
// for failure-injection.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/medportal/internal/client/models"
	"github.com/dmitrijs2005/medportal/internal/common"
)

var signingKey = []byte("apitest-signing-key")

// User is an account known to the fake.
type User struct {
	Password string
	Role     models.Role
	Profile  models.Profile
}

// Recorded is one request as the fake saw it.
type Recorded struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Header        http.Header
	Body          []byte
}

type Server struct {
	*httptest.Server

	mu        sync.Mutex
	users     map[int64]*User
	byEmail   map[string]int64
	nextID    int64
	doctors   []models.Doctor
	requests  []Recorded
	overrides map[string]http.HandlerFunc
}

// New starts a fake and registers its shutdown with t.
func New(t testing.TB) *Server {
	s := &Server{
		users:     make(map[int64]*User),
		byEmail:   make(map[string]int64),
		nextID:    1,
		overrides: make(map[string]http.HandlerFunc),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.override)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "clinic api"})
	})
	r.Post("/login", s.login)
	r.Post("/auth/register", s.register)

	r.Group(func(auth chi.Router) {
		auth.Use(s.requireAuth)
		auth.Get("/user/getuser/{id}", s.getUser)
		auth.Put("/patients/{id}", s.updatePatient)
		auth.Get("/doctors/", s.listDoctors)
	})
	return r
}

// AddUser registers an account and returns its id. A zero Profile.ID gets
// the next free id; Email and Role are filled in from the arguments.
func (s *Server) AddUser(email, password string, role models.Role, profile models.Profile) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(email, password, role, profile)
}

func (s *Server) addUserLocked(email, password string, role models.Role, profile models.Profile) int64 {
	id := profile.ID
	if id == 0 {
		id = s.nextID
	}
	if id >= s.nextID {
		s.nextID = id + 1
	}
	profile.ID = id
	profile.Email = email
	profile.Role = string(role)
	s.users[id] = &User{Password: password, Role: role, Profile: profile}
	s.byEmail[email] = id
	return id
}

// SetDoctors replaces the list served by GET /doctors/.
func (s *Server) SetDoctors(ds []models.Doctor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctors = append([]models.Doctor(nil), ds...)
}

// User returns a copy of the stored account.
func (s *Server) User(id int64) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, false
	}
	return *u, true
}

// Override serves method+path with h instead of the built-in handler.
// Paths are matched literally.
func (s *Server) Override(method, path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = h
}

// Requests returns every request received so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// RequestsTo returns the requests received for path.
func (s *Server) RequestsTo(path string) []Recorded {
	var out []Recorded
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// MintToken signs a token the way the API does. userID may be a number or a
// string, matching both shapes seen in the field.
func MintToken(userID any, role models.Role, username string, ttl time.Duration) string {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"role":     string(role),
		"username": username,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return tok
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := readBody(r)
		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get(common.HeaderAuthorization),
			ContentType:   r.Header.Get(common.HeaderContentType),
			Header:        r.Header.Clone(),
			Body:          body,
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) override(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		h, ok := s.overrides[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if ok {
			h(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxKey struct{}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || raw == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		tok, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return signingKey, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !tok.Valid {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	id, ok := s.byEmail[req.Email]
	var u *User
	if ok {
		u = s.users[id]
	}
	s.mu.Unlock()

	if !ok || u.Password != req.Password || u.Role != req.Role {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken: MintToken(id, u.Role, u.Profile.Username, time.Hour),
		TokenType:   "bearer",
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}

	var fields []map[string]any
	missing := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			fields = append(fields, map[string]any{"loc": []any{"body", name}, "msg": "field required"})
		}
	}
	missing("firstname", req.FirstName)
	missing("lastname", req.LastName)
	missing("email", req.Email)
	missing("password", req.Password)
	if !req.Role.Valid() {
		fields = append(fields, map[string]any{"loc": []any{"body", "role"}, "msg": "invalid role"})
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": fields})
		return
	}

	s.mu.Lock()
	if _, exists := s.byEmail[req.Email]; exists {
		s.mu.Unlock()
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	id := s.addUserLocked(req.Email, req.Password, req.Role, models.Profile{
		Username:       strings.ToLower(req.FirstName + "." + req.LastName),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		ProfilePicture: req.ProfilePicture,
	})
	u := *s.users[id]
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, models.UserSummary{
		ID:             id,
		Username:       u.Profile.Username,
		FirstName:      u.Profile.FirstName,
		LastName:       u.Profile.LastName,
		Email:          u.Profile.Email,
		Role:           string(u.Role),
		ProfilePicture: u.Profile.ProfilePicture,
	})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	s.mu.Lock()
	_, ok := s.users[id]
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "User not found")
		return 0, false
	}
	return id, true
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	p := s.users[id].Profile
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updatePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var upd models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	p := &s.users[id].Profile
	p.Name = upd.Name
	p.Email = upd.Email
	p.Phone = upd.Phone
	p.InsuranceInfo = upd.InsuranceInfo
	out := *p
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listDoctors(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	ds := append([]models.Doctor{}, s.doctors...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, ds)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(common.HeaderContentType, common.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// Detail writes {"detail": msg} with status. Handy in overrides.
func Detail(status int, msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) { writeDetail(w, status, msg) }
}

// JSON writes v with status. Handy in overrides.
func JSON(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, status, v) }
}
