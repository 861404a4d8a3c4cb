package handlers

import (
	"net/http"

	"glowup-backend/dtos"
	"glowup-backend/firebase"
	"glowup-backend/store"

	"github.com/gin-gonic/gin"
)

// RewardsHandler serves the wallet and the coin-earning activities.
type RewardsHandler struct {
	Storage firebase.StorageClient
}

func (h *RewardsHandler) GetWallet(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	wallet, ok := s.Wallet()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No wallet for this session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"wallet":  wallet,
		"history": s.WalletHistory(),
	})
}

func walletPayload(s *store.Store) any {
	if w, ok := s.Wallet(); ok {
		return w
	}
	return nil
}

func (h *RewardsHandler) DailyLogin(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	credited, err := s.CheckDailyLogin(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"credited": credited,
		"wallet":   walletPayload(s),
	})
}

func (h *RewardsHandler) GetDiet(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	resp := gin.H{
		"preference":     nil,
		"completedToday": s.IsDietCompletedToday(),
	}
	if pref, ok := s.DietPreference(); ok {
		resp["preference"] = pref
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RewardsHandler) SetDietPreference(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	var req dtos.DietPreferenceRequest
	if !bindJSON(c, &req) {
		return
	}

	pref, err := s.SetDietPreference(c.Request.Context(), req.ToModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pref)
}

func (h *RewardsHandler) CompleteDiet(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	coins, err := s.CompleteDietForToday(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"coinsEarned": coins,
		"wallet":      walletPayload(s),
	})
}

func (h *RewardsHandler) GetCollectBox(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"claimedToday": s.HasClaimedCollectBoxToday()})
}

func (h *RewardsHandler) ClaimCollectBox(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	claim, err := s.ClaimCollectBox(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"claim":  claim,
		"wallet": walletPayload(s),
	})
}

func (h *RewardsHandler) GetFaceScores(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	resp := gin.H{
		"latest":  nil,
		"history": s.FaceScoreHistory(),
	}
	if latest, ok := s.LatestFaceScore(); ok {
		resp["latest"] = latest
	}
	c.JSON(http.StatusOK, resp)
}

// CaptureFaceScore scores the captured photo, which also becomes the
// profile photo.
func (h *RewardsHandler) CaptureFaceScore(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	var req dtos.FaceScoreRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	user, _ := s.CurrentUser()
	var oldPhoto string
	if user.Profile != nil {
		oldPhoto = user.Profile.Photo
	}

	photo, err := storeImage(ctx, h.Storage, "face-scores", user.ID, req.Photo)
	if err != nil {
		respondError(c, err)
		return
	}

	entry, err := s.CaptureFaceScore(ctx, photo)
	if err != nil {
		discardImage(ctx, h.Storage, photo, "")
		respondError(c, err)
		return
	}
	discardImage(ctx, h.Storage, oldPhoto, photo)

	c.JSON(http.StatusCreated, gin.H{
		"entry":  entry,
		"photo":  photo,
		"wallet": walletPayload(s),
	})
}

func (h *RewardsHandler) CompleteTryOn(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	entry, err := s.CompleteTryOn(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entry":  entry,
		"wallet": walletPayload(s),
	})
}
