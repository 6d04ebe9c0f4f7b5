package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hiremesh/jobhub/internal/config"
	"github.com/hiremesh/jobhub/internal/domain/profile"
	"github.com/hiremesh/jobhub/internal/domain/user"
	"github.com/hiremesh/jobhub/internal/http/middlewares"
)

type ProfilesStore interface {
	GetSeeker(ctx context.Context, userID string) (profile.SeekerProfile, error)
	UpsertSeeker(ctx context.Context, p profile.SeekerProfile) error
	GetEmployer(ctx context.Context, userID string) (profile.EmployerProfile, error)
	UpsertEmployer(ctx context.Context, p profile.EmployerProfile) error
}

type ContactUpdater interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	UpdateContact(ctx context.Context, id string, fullname, phone, avatarURL *string) (user.User, error)
}

type ProfilesHandler struct {
	profiles ProfilesStore
	users    ContactUpdater
}

func NewProfilesHandler(profiles ProfilesStore, users ContactUpdater) *ProfilesHandler {
	return &ProfilesHandler{profiles: profiles, users: users}
}

// Me returns the identity plus the role-specific profile. The profile
// row is created lazily, so a fresh account reads back an empty one.
func (h *ProfilesHandler) Me(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.users.GetByID(cctx, userID)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not load profile")
		return
	}

	switch u.Role {
	case user.RoleSeeker:
		p, err := h.profiles.GetSeeker(cctx, userID)
		if err != nil && !errors.Is(err, profile.ErrNotFound) {
			RespondInternal(ctx, "Could not load profile")
			return
		}
		p.UserID = userID

		ctx.JSON(http.StatusOK, gin.H{"user": u, "profile": p})

	case user.RoleEmployer:
		p, err := h.profiles.GetEmployer(cctx, userID)
		if err != nil && !errors.Is(err, profile.ErrNotFound) {
			RespondInternal(ctx, "Could not load profile")
			return
		}
		p.UserID = userID

		ctx.JSON(http.StatusOK, gin.H{"user": u, "profile": p})

	default:
		RespondInternal(ctx, "Could not load profile")
	}
}

// UpdateMe dispatches on the role from the session, so the payload shape
// is decided once here and each branch validates its own variant.
func (h *ProfilesHandler) UpdateMe(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	role, _ := middlewares.RoleFromContext(ctx)

	switch role {
	case user.RoleSeeker:
		h.updateSeeker(ctx, userID)
	case user.RoleEmployer:
		h.updateEmployer(ctx, userID)
	default:
		RespondUnauthorized(ctx, "Missing identity context")
	}
}

func (h *ProfilesHandler) updateSeeker(ctx *gin.Context, userID string) {
	var req profile.SeekerUpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	existing, err := h.profiles.GetSeeker(cctx, userID)

	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		RespondInternal(ctx, "Could not update profile")
		return
	}

	existing.UserID = userID
	updated := existing.Apply(req)

	if err := h.profiles.UpsertSeeker(cctx, updated); err != nil {
		RespondInternal(ctx, "Could not update profile")
		return
	}

	u, err := h.applyContact(cctx, userID, req.Fullname, req.Phone)

	if err != nil {
		RespondInternal(ctx, "Could not update profile")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": u, "profile": updated})
}

func (h *ProfilesHandler) updateEmployer(ctx *gin.Context, userID string) {
	var req profile.EmployerUpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	existing, err := h.profiles.GetEmployer(cctx, userID)

	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		RespondInternal(ctx, "Could not update profile")
		return
	}

	existing.UserID = userID
	updated := existing.Apply(req)

	if err := h.profiles.UpsertEmployer(cctx, updated); err != nil {
		RespondInternal(ctx, "Could not update profile")
		return
	}

	u, err := h.applyContact(cctx, userID, req.Fullname, req.Phone)

	if err != nil {
		RespondInternal(ctx, "Could not update profile")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": u, "profile": updated})
}

// applyContact pushes base identity fields to the users row. Email and
// role are immutable, UpdateContact cannot touch them.
func (h *ProfilesHandler) applyContact(ctx context.Context, userID string, fullname, phone *string) (user.User, error) {
	if fullname == nil && phone == nil {
		return h.users.GetByID(ctx, userID)
	}

	return h.users.UpdateContact(ctx, userID, fullname, phone, nil)
}
