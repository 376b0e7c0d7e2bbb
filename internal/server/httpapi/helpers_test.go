package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/walletapi/internal/common"
	"github.com/dmitrijs2005/walletapi/internal/logging"
	"github.com/dmitrijs2005/walletapi/internal/server/auth"
	"github.com/dmitrijs2005/walletapi/internal/server/models"
	usersrepo "github.com/dmitrijs2005/walletapi/internal/server/repositories/users"
	"github.com/dmitrijs2005/walletapi/internal/server/revocation"
	"github.com/dmitrijs2005/walletapi/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

// --- in-memory store ---

type memUsers struct {
	mu    sync.Mutex
	users []models.User
}

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users = append(m.users, *u)
	return u, nil
}

func (m *memUsers) List(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.User{}, m.users...), nil
}

func (m *memUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, u := range m.users {
		if u.ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type memRepoManager struct{ u *memUsers }

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(db bun.IDB) usersrepo.Repository        { return m.u }

type memDenylist struct {
	mu  sync.Mutex
	ids map[string]bool
}

func (d *memDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids[jti] = true
	return nil
}

func (d *memDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ids[jti], nil
}

func (d *memDenylist) Close() error { return nil }

var _ revocation.Denylist = (*memDenylist)(nil)

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

// newTestServer wires real services over the in-memory store.
func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rm := &memRepoManager{u: &memUsers{}}
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	issuer := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	dl := &memDenylist{ids: map[string]bool{}}

	us := services.NewUserService(nil, rm, hasher, logging.NopLogger{})
	as := services.NewAuthService(nil, rm, hasher, issuer, dl, logging.NopLogger{})

	return NewHTTPServer("127.0.0.1:0", logging.NopLogger{}, us, as, fakePinger{}, "http://localhost:3000")
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path string, body any, header http.Header) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v (body=%s)", err, w.Body.String())
		}
	}
	return w, env
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}
