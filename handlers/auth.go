package handlers

import (
	"net/http"

	"glowup-backend/dtos"
	"glowup-backend/firebase"
	"glowup-backend/middleware"
	"glowup-backend/models"
	"glowup-backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Storage firebase.StorageClient
}

func issueToken(c *gin.Context, user models.User) (string, bool) {
	token, err := utils.GenerateToken(middleware.GetDeviceID(c), user.ID, user.Email, string(user.Role))
	if err != nil {
		logger.Errorf("generate token for %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return "", false
	}
	return token, true
}

func (h *AuthHandler) Signup(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	var req dtos.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := s.Signup(c.Request.Context(), req.ToModel())
	if err != nil {
		respondError(c, err)
		return
	}

	token, ok := issueToken(c, user)
	if !ok {
		return
	}

	// Send welcome email (non-blocking)
	utils.SendWelcomeEmail(user.Email, user.Name)

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	var req dtos.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := s.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, ok := issueToken(c, user)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	if err := s.Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	user, ok := s.CurrentUser()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please log in first"})
		return
	}
	resp := gin.H{"user": user, "wallet": nil}
	if wallet, ok := s.Wallet(); ok {
		resp["wallet"] = wallet
	}
	c.JSON(http.StatusOK, resp)
}

// GetState returns everything the client renders in one payload.
func (h *AuthHandler) GetState(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// SetRole assigns the role and reissues the token so its claims match.
func (h *AuthHandler) SetRole(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	var req dtos.RoleRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := s.SetRole(c.Request.Context(), req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	token, ok := issueToken(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	var req models.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	current, _ := s.CurrentUser()
	var oldPhoto string
	if current.Profile != nil {
		oldPhoto = current.Profile.Photo
	}

	if req.Photo != nil {
		photo, err := storeImage(ctx, h.Storage, "profiles", current.ID, *req.Photo)
		if err != nil {
			respondError(c, err)
			return
		}
		req.Photo = &photo
	}

	user, err := s.UpdateProfile(ctx, req)
	if err != nil {
		if req.Photo != nil {
			discardImage(ctx, h.Storage, *req.Photo, "")
		}
		respondError(c, err)
		return
	}

	if req.Photo != nil {
		discardImage(ctx, h.Storage, oldPhoto, *req.Photo)
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) CompleteProfile(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	user, err := s.CompleteProfile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
