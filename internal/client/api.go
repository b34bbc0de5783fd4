// Package client talks to the VibeBoxing API. It holds the signed-in state
// (AuthStore), keeps the user's combo list in sync with the server (ComboSync)
// and caches credentials between runs.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"vibeboxing/internal/combo"
	"vibeboxing/internal/model"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 15 * time.Second

// AuthPayload is returned by register, login and the current-user endpoint.
type AuthPayload struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// ForgotPasswordResult carries the temporary password only when the server
// could not mail it outside production.
type ForgotPasswordResult struct {
	Message      string `json:"message"`
	TempPassword string `json:"tempPassword"`
}

// ComboDraft is a combo being authored.
type ComboDraft struct {
	Name   string       `json:"nome"`
	Stance combo.Stance `json:"base"`
	Guard  string       `json:"guarda"`
	Steps  []combo.Step `json:"etapas"`
}

type errorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// API is a thin JSON client. It keeps the bearer token and a cookie jar, so
// both credentials travel with every request.
type API struct {
	base *url.URL
	http *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures an API.
type Option func(*API)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(a *API) { a.http.Timeout = d }
}

// WithHTTPClient replaces the underlying client. Its jar is used as-is.
func WithHTTPClient(c *http.Client) Option {
	return func(a *API) { a.http = c }
}

// NewAPI creates a client for the server at baseURL.
func NewAPI(baseURL string, opts ...Option) (*API, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("server url %q needs a scheme and host", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	a := &API{base: u, http: &http.Client{Jar: jar, Timeout: DefaultTimeout}}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Token returns the bearer token sent with requests.
func (a *API) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// SetToken replaces the bearer token. An empty token sends none.
func (a *API) SetToken(token string) {
	a.mu.Lock()
	a.token = token
	a.mu.Unlock()
}

func (a *API) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.base.String()+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := a.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil {
			apiErr.Code = eb.Code
			if eb.Error != "" {
				apiErr.Message = eb.Error
			} else if eb.Message != "" {
				apiErr.Message = eb.Message
			}
		}
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (a *API) Register(ctx context.Context, name, email, password string) (*AuthPayload, error) {
	var out AuthPayload
	in := map[string]string{"name": name, "email": email, "password": password}
	if err := a.do(ctx, http.MethodPost, "/api/register", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	var out AuthPayload
	in := map[string]string{"email": email, "password": password}
	if err := a.do(ctx, http.MethodPost, "/api/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) Logout(ctx context.Context) error {
	return a.do(ctx, http.MethodPost, "/api/logout", nil, nil)
}

// CurrentUser verifies the held credentials. Token is set when the server
// minted or echoed one.
func (a *API) CurrentUser(ctx context.Context) (*AuthPayload, error) {
	var out AuthPayload
	if err := a.do(ctx, http.MethodGet, "/api/user", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.User, error) {
	var out struct {
		User *model.User `json:"user"`
	}
	if err := a.do(ctx, http.MethodPut, "/api/user", update, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// ChangePassword returns the token that replaces the revoked ones.
func (a *API) ChangePassword(ctx context.Context, current, next string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	in := map[string]string{"currentPassword": current, "newPassword": next}
	if err := a.do(ctx, http.MethodPost, "/api/change-password", in, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (a *API) ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResult, error) {
	var out ForgotPasswordResult
	if err := a.do(ctx, http.MethodPost, "/api/forgot-password", map[string]string{"email": email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) DeleteAccount(ctx context.Context) error {
	return a.do(ctx, http.MethodDelete, "/api/user", nil, nil)
}

// wireCombo defers step decoding so one unreadable step list cannot fail a
// whole listing.
type wireCombo struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"nome"`
	Stance    combo.Stance    `json:"base"`
	Guard     string          `json:"guarda"`
	Steps     json.RawMessage `json:"etapas"`
	CreatedAt time.Time       `json:"dataCriacao"`
	UpdatedAt time.Time       `json:"dataModificacao"`
}

func (w wireCombo) view() model.ComboView {
	return model.ComboView{
		ID:        w.ID,
		Name:      w.Name,
		Stance:    w.Stance,
		Guard:     w.Guard,
		Steps:     combo.DecodeSteps(string(w.Steps)),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func (a *API) ListCombos(ctx context.Context) ([]model.ComboView, error) {
	var wire []wireCombo
	if err := a.do(ctx, http.MethodGet, "/api/combos", nil, &wire); err != nil {
		return nil, err
	}
	out := make([]model.ComboView, len(wire))
	for i, w := range wire {
		out[i] = w.view()
	}
	return out, nil
}

func (a *API) GetCombo(ctx context.Context, id uuid.UUID) (*model.ComboView, error) {
	var w wireCombo
	if err := a.do(ctx, http.MethodGet, "/api/combos/"+id.String(), nil, &w); err != nil {
		return nil, err
	}
	v := w.view()
	return &v, nil
}

func (a *API) CreateCombo(ctx context.Context, draft ComboDraft) (*model.ComboView, error) {
	var w wireCombo
	if err := a.do(ctx, http.MethodPost, "/api/combos", draft, &w); err != nil {
		return nil, err
	}
	v := w.view()
	return &v, nil
}

func (a *API) UpdateCombo(ctx context.Context, id uuid.UUID, draft ComboDraft) (*model.ComboView, error) {
	var w wireCombo
	if err := a.do(ctx, http.MethodPut, "/api/combos/"+id.String(), draft, &w); err != nil {
		return nil, err
	}
	v := w.view()
	return &v, nil
}

func (a *API) DeleteCombo(ctx context.Context, id uuid.UUID) error {
	return a.do(ctx, http.MethodDelete, "/api/combos/"+id.String(), nil, nil)
}

func (a *API) ComboStats(ctx context.Context) (*combo.Stats, error) {
	var out combo.Stats
	if err := a.do(ctx, http.MethodGet, "/api/combos/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Moves fetches the catalog as performed from stance. An empty category lists all.
func (a *API) Moves(ctx context.Context, stance combo.Stance, category combo.Category) ([]combo.Move, error) {
	q := url.Values{}
	if stance != "" {
		q.Set("base", string(stance))
	}
	if category != "" {
		q.Set("categoria", string(category))
	}
	path := "/api/moves"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []combo.Move
	if err := a.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) Guards(ctx context.Context) ([]combo.Guard, error) {
	var out []combo.Guard
	if err := a.do(ctx, http.MethodGet, "/api/guards", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
