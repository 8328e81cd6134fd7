package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	handler "github.com/vncsmyrnk/carmarket/internal/adapters/handler/http"
	"github.com/vncsmyrnk/carmarket/internal/adapters/hasher"
	repo "github.com/vncsmyrnk/carmarket/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/carmarket/internal/adapters/token"
	"github.com/vncsmyrnk/carmarket/internal/config"
	"github.com/vncsmyrnk/carmarket/internal/core/domain"
	"github.com/vncsmyrnk/carmarket/internal/core/ports"
	"github.com/vncsmyrnk/carmarket/internal/core/services"
)

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("carmarket"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(ctx context.Context, db *sql.DB) error {
	return repo.Migrate(ctx, db, "up", goose.NopLogger())
}

type TestApp struct {
	DB          *sql.DB
	Pool        ports.Pool
	Server      *httptest.Server
	DBContainer testcontainers.Container
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	ctx := context.Background()

	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := repo.Open(ctx, dbURL, 5)
	require.NoError(t, err)
	require.NoError(t, applyMigrations(ctx, db))

	auth := config.AuthConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	}
	pool := repo.NewPool(db)
	bcrypt := hasher.NewBcrypt(4)
	tokens := token.NewIssuer(auth)

	carService := services.NewCarService(pool)
	userService := services.NewUserService(pool, bcrypt)
	authService := services.NewAuthService(pool, bcrypt, tokens)

	router := handler.NewHandler(
		handler.NewCarHandler(carService),
		handler.NewUserHandler(userService, carService),
		handler.NewAuthHandler(authService, handler.CookieConfig{AccessTTL: auth.AccessTTL, RefreshTTL: auth.RefreshTTL}),
		handler.NewHealthHandler(pool),
		tokens,
		zap.NewNop(),
		[]string{"*"},
	)

	return &TestApp{
		DB:          db,
		Pool:        pool,
		Server:      httptest.NewServer(router),
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

// Client is one browser session: it keeps the auth cookies between calls.
type Client struct {
	app  *TestApp
	http *http.Client
	ID   int64
}

func (app *TestApp) NewClient(t *testing.T) *Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &Client{app: app, http: &http.Client{Jar: jar}}
}

// Do sends body as JSON when it is not nil and returns the status and raw body.
func (c *Client) Do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.app.Server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// Register signs the client up and keeps the issued cookies.
func (c *Client) Register(t *testing.T, name, email, phone string) {
	t.Helper()
	status, raw := c.Do(t, http.MethodPost, "/api/users/register", map[string]any{
		"name":         name,
		"email":        email,
		"phone_number": phone,
		"password":     "Str0ng!Pass",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))

	var resp struct {
		User domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(raw, &resp))
	c.ID = resp.User.ID
}

func errorMessage(t *testing.T, raw []byte) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body.Error
}
