package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aseerhub/aseerhub-backend/database"
	"github.com/aseerhub/aseerhub-backend/models"
)

type testEnv struct {
	db       database.Database
	sessions sessionManager
	router   *chi.Mux
}

// newTestEnv wires the full router against an in-memory database, with the
// recommendation noise pinned to zero so orderings are deterministic.
func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(gormDB))

	db := database.New(gormDB)
	sessions := newSessionManager("test-secret", time.Hour, false)

	handlers := &routeHandlers{
		authHandler: newAuthHandler(db.UserRepo(), sessions),
		opportunityHandler: newOpportunityHandler(
			db.OpportunityRepo(), db.VoteRepo(), db.CommentRepo(), db.NDARepo(), sessions),
		aiHandler: newAIHandler(
			db.OpportunityRepo(), db.VoteRepo(), db.UserRepo(), db.NDARepo(),
			func() float64 { return 0 }),
	}

	router := chi.NewRouter()
	setupRoutes(router, handlers, newAuthMiddleware(sessions))

	return testEnv{db: db, sessions: sessions, router: router}
}

func (e testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	}
	require.NoError(t, e.db.UserRepo().Add(user))
	return user
}

func (e testEnv) createOpportunity(t *testing.T, owner *models.User, mutate func(*models.Opportunity)) *models.Opportunity {
	t.Helper()

	opp := &models.Opportunity{
		Title:          "Cable car extension",
		Description:    "Extend the cable car to the high plateau",
		Location:       "Abha",
		Sector:         "tourism",
		BudgetRequired: 2_000_000,
		OwnerID:        owner.ID,
	}
	if mutate != nil {
		mutate(opp)
	}
	require.NoError(t, e.db.OpportunityRepo().Add(opp))
	return opp
}

// request performs an HTTP request against the router; a non-nil userID adds
// a valid session cookie.
func (e testEnv) request(t *testing.T, method, path string, body any, userID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(encoded)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	if userID != uuid.Nil {
		token, err := e.sessions.issue(userID)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	}

	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), dest))
}
