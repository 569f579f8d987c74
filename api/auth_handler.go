package api

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/aseerhub/aseerhub-backend/database"
	"github.com/aseerhub/aseerhub-backend/errs"
	"github.com/aseerhub/aseerhub-backend/models"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
	sessions  sessionManager
}

func newAuthHandler(userRepo *database.UserRepo, sessions sessionManager) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  userRepo,
		sessions:  sessions,
	}
}

type registerRequest struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Sectors  []string `json:"preferred_sectors,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// register creates a new user account and opens a session
// @Summary Register
// @Description Creates a new user account and sets the session cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body registerRequest true "Registration data"
// @Success 201 {object} map[string]interface{} "Created user"
// @Failure 400 {object} errs.ErrorResponse "Bad Request - Invalid registration data"
// @Router /register [post]
func (h authHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if req.Username == "" || req.Email == "" || req.Password == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("username, email and password are required"))
			return
		}
		if len(req.Username) < 3 {
			h.responder.WriteError(w, errs.NewInvalidFieldError("username", "must be at least 3 characters"))
			return
		}
		if len(req.Password) < 6 {
			h.responder.WriteError(w, errs.NewInvalidFieldError("password", "must be at least 6 characters"))
			return
		}
		if !emailPattern.MatchString(req.Email) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("email", "not a valid email address"))
			return
		}

		if existing, err := h.userRepo.FindByUsername(req.Username); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		} else if existing != nil {
			h.responder.WriteError(w, errs.NewConflictError("username already taken"))
			return
		}

		if existing, err := h.userRepo.FindByEmail(req.Email); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		} else if existing != nil {
			h.responder.WriteError(w, errs.NewConflictError("email already registered"))
			return
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to hash password", err))
			return
		}

		user := models.User{
			Username:         req.Username,
			Email:            req.Email,
			PasswordHash:     string(passwordHash),
			PreferredSectors: req.Sectors,
		}
		if err := h.userRepo.Add(&user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create user", "user", err))
			return
		}

		token, err := h.sessions.issue(user.ID)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to issue session", err))
			return
		}
		h.sessions.setCookie(w, token)

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]any{
			"message": "account created",
			"user":    user,
		})
	}
}

// login authenticates by username or email and opens a session
// @Summary Login
// @Description Authenticates a user and sets the session cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{} "Logged in user"
// @Failure 401 {object} errs.ErrorResponse "Unauthorized - Bad credentials"
// @Router /login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if req.Username == "" || req.Password == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("username and password are required"))
			return
		}

		user, err := h.userRepo.FindByUsernameOrEmail(req.Username)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}
		if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid username or password"))
			return
		}

		token, err := h.sessions.issue(user.ID)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to issue session", err))
			return
		}
		h.sessions.setCookie(w, token)

		h.responder.WriteJSON(w, map[string]any{
			"message": "logged in",
			"user":    user,
		})
	}
}

// logout clears the session cookie
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.sessions.clearCookie(w)
		h.responder.WriteJSON(w, map[string]string{"message": "logged out"})
	}
}

// getCurrentUser returns the user behind the current session. A stale cookie
// referring to a deleted user clears the session.
func (h authHandler) getCurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		user, err := h.userRepo.FindByID(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}
		if user == nil {
			h.sessions.clearCookie(w)
			h.responder.WriteError(w, errs.NewNotFoundError("user not found"))
			return
		}

		h.responder.WriteJSON(w, map[string]any{"user": user})
	}
}

// checkSession reports login state without erroring on anonymous callers
func (h authHandler) checkSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := h.sessions.currentUserID(r)

		response := map[string]any{"logged_in": false}
		if err == nil && userID != uuid.Nil {
			response["logged_in"] = true
			response["user_id"] = userID
		}
		h.responder.WriteJSON(w, response)
	}
}
