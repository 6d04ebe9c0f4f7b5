package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hiremesh/jobhub/internal/config"
	"github.com/hiremesh/jobhub/internal/domain/user"
	"github.com/hiremesh/jobhub/internal/security"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, u user.User) error
}

type SessionMinter interface {
	GenerateSessionToken(userID, role string) (string, time.Time, error)
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	jwt        SessionMinter
	cfg        config.Config
}

func NewAuthHandler(users UserReader, userWriter UserWriter, jwt SessionMinter, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		jwt:        jwt,
		cfg:        cfg,
	}
}

// Presence checks are explicit rather than binding tags: each missing
// field has its own message and the order is part of the API contract.
type SignUpRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	switch {
	case req.Fullname == "":
		RespondBadRequest(ctx, "Full Name is required", nil)
		return
	case req.Email == "":
		RespondBadRequest(ctx, "Email is required", nil)
		return
	case req.Password == "":
		RespondBadRequest(ctx, "Password is required", nil)
		return
	case req.Phone == "":
		RespondBadRequest(ctx, "Mobile Number is required", nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	// Courtesy pre-check for the common path. The unique index on email
	// is the real guard; the insert below maps races to the same error.
	if _, err := h.users.GetByEmail(cctx, req.Email); err == nil {
		RespondBadRequest(ctx, "User already exists", nil)
		return
	}

	if len(req.Password) < 6 {
		RespondBadRequest(ctx, "Password must be at least 6 characters", nil)
		return
	}

	if len(req.Phone) < 10 {
		RespondBadRequest(ctx, "Mobile number must be at least 10 characters", nil)
		return
	}

	role := req.Role
	if role == "" {
		role = user.RoleSeeker
	}

	if !user.IsValidRole(role) {
		RespondBadRequest(ctx, "Role must be seeker or employer", nil)
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Fullname:     req.Fullname,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = h.userWriter.Create(cctx, u)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondBadRequest(ctx, "User already exists", nil)
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	token, expiresAt, err := h.jwt.GenerateSessionToken(u.ID, u.Role)

	if err != nil {
		RespondInternal(ctx, "Could not create session")
		return
	}

	h.setSessionCookie(ctx, token, expiresAt)

	ctx.JSON(http.StatusCreated, u)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not log in")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnauthorized(ctx, "Invalid Password")
		return
	}

	token, expiresAt, err := h.jwt.GenerateSessionToken(foundUser.ID, foundUser.Role)

	if err != nil {
		RespondInternal(ctx, "Could not create session")
		return
	}

	h.setSessionCookie(ctx, token, expiresAt)

	ctx.JSON(http.StatusOK, foundUser)
}

// Logout clears the cookie unconditionally. There is no server-side
// session state, so this always succeeds.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.clearSessionCookie(ctx)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Cookie helpers. SameSite=None because the frontend is served from a
// different origin; that forces Secure on as well.

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, raw string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())

	ctx.SetSameSite(http.SameSiteNoneMode)

	ctx.SetCookie(
		h.cfg.SessionCookieName,
		raw,
		maxAge,
		"/",
		"",
		true, // Secure
		true, // HttpOnly
	)
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteNoneMode)
	ctx.SetCookie(
		h.cfg.SessionCookieName,
		"",
		-1,
		"/",
		"",
		true,
		true,
	)
}
