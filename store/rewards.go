package store

import (
	"context"
	"strings"

	"glowup-backend/models"
)

// credit is a pending ledger entry plus the balance it produces.
type credit struct {
	wallet  models.Wallet
	history []models.WalletHistory
	entry   models.WalletHistory
}

// prepareCredit computes the wallet and ledger after crediting amount. Nothing
// is visible until applyCredit runs on a committed batch.
func (s *Store) prepareCredit(b *batch, amount int, reason string) (credit, error) {
	if s.st.wallet == nil {
		return credit{}, ErrNoWallet
	}
	if amount <= 0 {
		return credit{}, ErrInvalidAmount
	}

	c := credit{
		wallet: *s.st.wallet,
		entry: models.WalletHistory{
			ID:          s.opts.newID(),
			ActionType:  reason,
			CoinsEarned: amount,
			DateTime:    s.now(),
		},
	}
	c.wallet.TotalCoins += amount
	c.history = prepend(c.entry, s.st.walletHistory)

	b.put(KeyWallet, c.wallet)
	b.put(KeyWalletHistory, c.history)
	return c, nil
}

func (s *Store) applyCredit(c credit) {
	s.st.wallet = &c.wallet
	s.st.walletHistory = c.history
	logger.Debugf("credited %d coins to %s for %q", c.entry.CoinsEarned, c.wallet.UserID, c.entry.ActionType)
}

// CreditCoins appends a ledger entry and raises the balance by amount.
func (s *Store) CreditCoins(ctx context.Context, amount int, reason string) (models.WalletHistory, error) {
	if strings.TrimSpace(reason) == "" {
		return models.WalletHistory{}, validationError("reason", "is required")
	}

	s.lock()
	defer s.unlock()

	b := &batch{}
	c, err := s.prepareCredit(b, amount, reason)
	if err != nil {
		return models.WalletHistory{}, err
	}
	if err := s.commit(ctx, b); err != nil {
		return models.WalletHistory{}, err
	}
	s.applyCredit(c)
	return c.entry, nil
}

// CheckDailyLogin credits the login bonus the first time it runs on a local
// day and reports whether it did.
func (s *Store) CheckDailyLogin(ctx context.Context) (bool, error) {
	s.lock()
	defer s.unlock()

	if s.st.user == nil {
		return false, ErrNotAuthenticated
	}
	today := s.today()
	if s.st.lastLogin == today {
		return false, nil
	}

	b := &batch{}
	c, err := s.prepareCredit(b, s.opts.rewards.DailyLogin, ActionDailyLogin)
	if err != nil {
		return false, err
	}
	b.put(KeyLastLogin, today)
	if err := s.commit(ctx, b); err != nil {
		return false, err
	}
	s.applyCredit(c)
	s.st.lastLogin = today
	return true, nil
}

// SetDietPreference replaces the active user's diet preference.
func (s *Store) SetDietPreference(ctx context.Context, pref models.DietPreference) (models.DietPreference, error) {
	if strings.TrimSpace(pref.Goal) == "" {
		return models.DietPreference{}, validationError("goal", "is required")
	}
	if strings.TrimSpace(pref.FoodPreference) == "" {
		return models.DietPreference{}, validationError("foodPreference", "is required")
	}

	s.lock()
	defer s.unlock()

	if s.st.user == nil {
		return models.DietPreference{}, ErrNotAuthenticated
	}

	b := &batch{}
	b.put(KeyDietPreference, pref)
	if err := s.commit(ctx, b); err != nil {
		return models.DietPreference{}, err
	}
	s.st.dietPreference = &pref
	return pref, nil
}

func (s *Store) DietPreference() (models.DietPreference, bool) {
	s.lock()
	defer s.unlock()

	if s.st.dietPreference == nil {
		return models.DietPreference{}, false
	}
	return *s.st.dietPreference, true
}

// CompleteDietForToday records today's diet completion and returns the coins
// credited. A day is completed at most once.
func (s *Store) CompleteDietForToday(ctx context.Context) (int, error) {
	s.lock()
	defer s.unlock()

	if s.st.user == nil {
		return 0, ErrNotAuthenticated
	}
	if s.st.dietPreference == nil {
		return 0, ErrNoDietPreference
	}
	today := s.today()
	if s.dietCompletedOnLocked(today) {
		return 0, ErrAlreadyClaimedToday
	}

	completions := append(cloneSlice(s.st.dietCompletions), models.DietCompletion{Date: today, Completed: true})
	b := &batch{}
	c, err := s.prepareCredit(b, s.opts.rewards.DietCompletion, ActionDietCompleted)
	if err != nil {
		return 0, err
	}
	b.put(KeyDietCompletions, completions)
	if err := s.commit(ctx, b); err != nil {
		return 0, err
	}
	s.applyCredit(c)
	s.st.dietCompletions = completions
	return c.entry.CoinsEarned, nil
}

func (s *Store) IsDietCompletedToday() bool {
	s.lock()
	defer s.unlock()
	return s.dietCompletedOnLocked(s.today())
}

func (s *Store) dietCompletedOnLocked(day models.Day) bool {
	for _, dc := range s.st.dietCompletions {
		if dc.Date == day && dc.Completed {
			return true
		}
	}
	return false
}

// ClaimCollectBox grants a random amount of coins once per local day.
func (s *Store) ClaimCollectBox(ctx context.Context) (models.CollectBoxClaim, error) {
	s.lock()
	defer s.unlock()

	if s.st.user == nil {
		return models.CollectBoxClaim{}, ErrNotAuthenticated
	}
	today := s.today()
	if s.collectClaimedOnLocked(today) {
		return models.CollectBoxClaim{}, ErrAlreadyClaimedToday
	}

	r := s.opts.rewards
	claim := models.CollectBoxClaim{
		Date:  today,
		Coins: r.CollectBoxMin + s.opts.random.Intn(r.CollectBoxMax-r.CollectBoxMin+1),
	}
	claims := append(cloneSlice(s.st.collectClaims), claim)

	b := &batch{}
	c, err := s.prepareCredit(b, claim.Coins, ActionCollectBox)
	if err != nil {
		return models.CollectBoxClaim{}, err
	}
	b.put(KeyCollectClaims, claims)
	if err := s.commit(ctx, b); err != nil {
		return models.CollectBoxClaim{}, err
	}
	s.applyCredit(c)
	s.st.collectClaims = claims
	return claim, nil
}

func (s *Store) HasClaimedCollectBoxToday() bool {
	s.lock()
	defer s.unlock()
	return s.collectClaimedOnLocked(s.today())
}

func (s *Store) collectClaimedOnLocked(day models.Day) bool {
	for _, c := range s.st.collectClaims {
		if c.Date == day {
			return true
		}
	}
	return false
}

// CaptureFaceScore scores a new face photo, stores it as the profile photo
// and credits the capture bonus.
func (s *Store) CaptureFaceScore(ctx context.Context, photo string) (models.FaceScoreEntry, error) {
	if strings.TrimSpace(photo) == "" {
		return models.FaceScoreEntry{}, validationError("photo", "is required")
	}

	s.lock()
	defer s.unlock()

	if s.st.user == nil {
		return models.FaceScoreEntry{}, ErrNotAuthenticated
	}

	r := s.opts.rewards
	entry := models.FaceScoreEntry{
		ID:          s.opts.newID(),
		Date:        s.now(),
		Score:       r.FaceScoreMin + s.opts.random.Intn(r.FaceScoreMax-r.FaceScoreMin+1),
		CoinsEarned: r.FaceScore,
	}
	scores := prepend(entry, s.st.faceScores)

	user := *s.st.user
	user.Profile = models.ProfileUpdate{Photo: &photo}.Apply(s.st.user.Profile)
	users := s.withDirectoryEntry(user)

	b := &batch{}
	c, err := s.prepareCredit(b, r.FaceScore, ActionFaceScore)
	if err != nil {
		return models.FaceScoreEntry{}, err
	}
	b.put(KeyFaceScores, scores)
	b.put(KeyUser, user)
	b.put(KeyUsers, users)
	if err := s.commit(ctx, b); err != nil {
		return models.FaceScoreEntry{}, err
	}
	s.applyCredit(c)
	s.st.faceScores = scores
	s.st.user = &user
	s.st.users = users
	return entry, nil
}

// FaceScoreHistory lists face scores, newest first.
func (s *Store) FaceScoreHistory() []models.FaceScoreEntry {
	s.lock()
	defer s.unlock()
	return cloneSlice(s.st.faceScores)
}

func (s *Store) LatestFaceScore() (models.FaceScoreEntry, bool) {
	s.lock()
	defer s.unlock()

	if len(s.st.faceScores) == 0 {
		return models.FaceScoreEntry{}, false
	}
	return s.st.faceScores[0], true
}

// CompleteTryOn credits the virtual try-on bonus.
func (s *Store) CompleteTryOn(ctx context.Context) (models.WalletHistory, error) {
	s.lock()
	defer s.unlock()

	if s.st.user == nil {
		return models.WalletHistory{}, ErrNotAuthenticated
	}
	b := &batch{}
	c, err := s.prepareCredit(b, s.opts.rewards.TryOn, ActionTryOn)
	if err != nil {
		return models.WalletHistory{}, err
	}
	if err := s.commit(ctx, b); err != nil {
		return models.WalletHistory{}, err
	}
	s.applyCredit(c)
	return c.entry, nil
}

func (s *Store) Wallet() (models.Wallet, bool) {
	s.lock()
	defer s.unlock()

	if s.st.wallet == nil {
		return models.Wallet{}, false
	}
	return *s.st.wallet, true
}

// WalletHistory lists ledger entries, newest first.
func (s *Store) WalletHistory() []models.WalletHistory {
	s.lock()
	defer s.unlock()
	return cloneSlice(s.st.walletHistory)
}
