package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"glowup-backend/firebase"
	"glowup-backend/middleware"
	"glowup-backend/store"
	"glowup-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("glowup.handlers")

// deviceStore returns the store resolved by DeviceMiddleware, answering 500
// when the route was mounted without it.
func deviceStore(c *gin.Context) (*store.Store, bool) {
	s := middleware.GetStore(c)
	if s == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Device state not loaded"})
		return nil, false
	}
	return s, true
}

// respondError maps store errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please log in first"})
	case errors.Is(err, store.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, store.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, store.ErrRoleAssigned),
		errors.Is(err, store.ErrAlreadyClaimedToday),
		errors.Is(err, store.ErrPrescriptionExists),
		errors.Is(err, store.ErrLocationBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrNoDietPreference),
		errors.Is(err, store.ErrNoWallet),
		errors.Is(err, store.ErrInvalidAmount):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to save changes, please try again"})
	}
}

// bindJSON binds the body and answers 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return false
	}
	return true
}

// storeImage turns an image reference from the client into the reference that
// gets persisted. Data URLs are uploaded when media storage is configured and
// kept inline otherwise. Links are kept as they are.
func storeImage(ctx context.Context, media firebase.StorageClient, folder, name, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	if !utils.IsDataURL(ref) {
		if !strings.HasPrefix(ref, "https://") && !strings.HasPrefix(ref, "http://") {
			return "", fmt.Errorf("%w: image must be a data URL or a link", store.ErrValidation)
		}
		return ref, nil
	}

	img, err := utils.ParseDataURL(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %v", store.ErrValidation, err)
	}
	if err := utils.ValidateImage(img); err != nil {
		return "", fmt.Errorf("%w: %v", store.ErrValidation, err)
	}
	if media == nil {
		return ref, nil
	}

	url, err := media.UploadImage(ctx, folder, name, img)
	if err != nil {
		return "", fmt.Errorf("upload %s image: %w", folder, err)
	}
	return url, nil
}

// discardImage deletes a stored object that is no longer referenced.
// Inline images and foreign links are left alone.
func discardImage(ctx context.Context, media firebase.StorageClient, old, current string) {
	if media == nil || old == "" || old == current {
		return
	}
	path, err := utils.ExtractObjectPath(old)
	if err != nil {
		return
	}
	if err := media.DeleteFile(ctx, path); err != nil {
		logger.Warningf("failed to delete replaced image %s: %v", path, err)
	}
}
