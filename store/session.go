package store

import (
	"context"
	"net/mail"
	"strings"

	"glowup-backend/models"

	"golang.org/x/crypto/bcrypt"
)

// Signup creates an account, establishes its session and gives it an empty
// wallet. An existing session is logged out first.
func (s *Store) Signup(ctx context.Context, req models.SignupRequest) (models.User, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return models.User{}, validationError("email", "is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return models.User{}, validationError("email", "must be a valid email address")
	}
	if req.Password == "" {
		return models.User{}, validationError("password", "is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return models.User{}, validationError("name", "is required")
	}

	s.lock()
	defer s.unlock()

	if _, ok := s.findUserByEmail(email); ok {
		return models.User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.opts.passwordCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:       s.opts.newID(),
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Phone:    req.Phone,
		Password: string(hash),
		Address:  req.Address,
		Location: req.Location,
	}
	users := append(cloneSlice(s.st.users), user)
	wallet := models.NewWallet(user.ID)

	// The previous session ends in the same write that starts the new one.
	b := &batch{}
	endSession := s.prepareLogout(b)
	b.put(KeyUsers, users)
	b.put(KeyUser, user)
	b.put(KeyWallet, wallet)
	b.put(KeyWalletHistory, []models.WalletHistory{})
	if err := s.commit(ctx, b); err != nil {
		return models.User{}, err
	}

	endSession()
	s.st.users = users
	s.st.user = &user
	s.st.wallet = &wallet
	logger.Infof("user %s signed up", user.ID)
	return user.Public(), nil
}

// Login establishes a session for the directory entry matching email and
// password and restores that user's wallet and daily gates.
func (s *Store) Login(ctx context.Context, email, password string) (models.User, error) {
	s.lock()
	defer s.unlock()

	found, ok := s.findUserByEmail(strings.TrimSpace(email))
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(found.Password), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	wallet, arc, err := s.loadArchiveLocked(ctx, found.ID)
	if err != nil {
		return models.User{}, err
	}
	if total := models.LedgerTotal(arc.WalletHistory); total != wallet.TotalCoins {
		logger.Warningf("wallet of %s holds %d coins but ledger sums to %d", found.ID, wallet.TotalCoins, total)
	}

	b := &batch{}
	endSession := s.prepareLogout(b)
	b.put(KeyUser, found)
	b.put(KeyWallet, wallet)
	b.put(KeyWalletHistory, nonNil(arc.WalletHistory))
	if arc.DietPreference != nil {
		b.put(KeyDietPreference, arc.DietPreference)
	}
	b.put(KeyDietCompletions, nonNil(arc.DietCompletions))
	b.put(KeyFaceScores, nonNil(arc.FaceScores))
	b.put(KeyCollectClaims, nonNil(arc.CollectClaims))
	if arc.LastLogin != "" {
		b.put(KeyLastLogin, arc.LastLogin)
	}
	if err := s.commit(ctx, b); err != nil {
		return models.User{}, err
	}

	endSession()
	s.st.user = &found
	s.st.wallet = &wallet
	s.st.walletHistory = arc.WalletHistory
	s.st.dietPreference = arc.DietPreference
	s.st.dietCompletions = arc.DietCompletions
	s.st.faceScores = arc.FaceScores
	s.st.collectClaims = arc.CollectClaims
	s.st.lastLogin = arc.LastLogin
	logger.Infof("user %s logged in", found.ID)
	return found.Public(), nil
}

// Logout archives the wallet and gamification state of the active user and
// clears every session slice. The user directory and archives are kept.
func (s *Store) Logout(ctx context.Context) error {
	s.lock()
	defer s.unlock()
	return s.logoutLocked(ctx)
}

func (s *Store) logoutLocked(ctx context.Context) error {
	b := &batch{}
	endSession := s.prepareLogout(b)
	if err := s.commit(ctx, b); err != nil {
		return err
	}
	endSession()
	return nil
}

// prepareLogout adds the archive writes and session removals of the active
// user to b. The returned func clears the session from memory and must only
// run once b has been committed.
func (s *Store) prepareLogout(b *batch) func() {
	if s.st.user == nil {
		return func() {}
	}
	userID := s.st.user.ID

	if s.st.wallet != nil {
		b.put(WalletArchiveKey(userID), s.st.wallet)
	}
	b.put(ArchiveKey(userID), s.currentArchive())
	for _, key := range sessionKeys {
		b.remove(key)
	}

	return func() {
		s.st.user = nil
		s.st.cart = nil
		s.st.wallet = nil
		s.st.walletHistory = nil
		s.st.dietPreference = nil
		s.st.dietCompletions = nil
		s.st.faceScores = nil
		s.st.collectClaims = nil
		s.st.lastLogin = ""
		logger.Infof("user %s logged out", userID)
	}
}

func (s *Store) currentArchive() archive {
	return archive{
		WalletHistory:   s.st.walletHistory,
		DietPreference:  s.st.dietPreference,
		DietCompletions: s.st.dietCompletions,
		FaceScores:      s.st.faceScores,
		CollectClaims:   s.st.collectClaims,
		LastLogin:       s.st.lastLogin,
	}
}

// loadArchiveLocked returns the wallet and gamification state userID had at
// its last logout. For the active user the live session state is newer than
// anything archived.
func (s *Store) loadArchiveLocked(ctx context.Context, userID string) (models.Wallet, archive, error) {
	if s.st.user != nil && s.st.user.ID == userID {
		wallet := models.NewWallet(userID)
		if s.st.wallet != nil {
			wallet = *s.st.wallet
		}
		return wallet, s.currentArchive(), nil
	}

	wallet := models.NewWallet(userID)
	if _, err := s.read(ctx, WalletArchiveKey(userID), &wallet); err != nil {
		return models.Wallet{}, archive{}, err
	}
	var arc archive
	if _, err := s.read(ctx, ArchiveKey(userID), &arc); err != nil {
		return models.Wallet{}, archive{}, err
	}
	return wallet, arc, nil
}

// SetRole assigns the active user's role. A role is assigned once.
func (s *Store) SetRole(ctx context.Context, role models.Role) (models.User, error) {
	if !role.IsValid() {
		return models.User{}, validationError("role", "is invalid")
	}

	s.lock()
	defer s.unlock()

	if s.st.user == nil {
		return models.User{}, ErrNotAuthenticated
	}
	if s.st.user.Role == role {
		return s.st.user.Public(), nil
	}
	if s.st.user.Role != "" {
		return models.User{}, ErrRoleAssigned
	}

	updated := *s.st.user
	updated.Role = role
	if err := s.saveUserLocked(ctx, updated); err != nil {
		return models.User{}, err
	}
	return updated.Public(), nil
}

// UpdateProfile shallow-merges the present fields into the active user's profile.
func (s *Store) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (models.User, error) {
	s.lock()
	defer s.unlock()

	if s.st.user == nil {
		return models.User{}, ErrNotAuthenticated
	}
	updated := *s.st.user
	updated.Profile = update.Apply(s.st.user.Profile)
	if err := s.saveUserLocked(ctx, updated); err != nil {
		return models.User{}, err
	}
	return updated.Public(), nil
}

// CompleteProfile marks the guided profile setup as done.
func (s *Store) CompleteProfile(ctx context.Context) (models.User, error) {
	s.lock()
	defer s.unlock()

	if s.st.user == nil {
		return models.User{}, ErrNotAuthenticated
	}
	if s.st.user.ProfileCompleted {
		return s.st.user.Public(), nil
	}
	updated := *s.st.user
	updated.ProfileCompleted = true
	if err := s.saveUserLocked(ctx, updated); err != nil {
		return models.User{}, err
	}
	return updated.Public(), nil
}

// saveUserLocked replaces the active user and mirrors it into the directory.
func (s *Store) saveUserLocked(ctx context.Context, updated models.User) error {
	b := &batch{}
	users := s.withDirectoryEntry(updated)
	b.put(KeyUser, updated)
	b.put(KeyUsers, users)
	if err := s.commit(ctx, b); err != nil {
		return err
	}
	s.st.user = &updated
	s.st.users = users
	return nil
}

func (s *Store) withDirectoryEntry(u models.User) []models.User {
	users := cloneSlice(s.st.users)
	for i := range users {
		if users[i].ID == u.ID {
			users[i] = u
			return users
		}
	}
	return users
}

func (s *Store) findUserByEmail(email string) (models.User, bool) {
	for _, u := range s.st.users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

// CurrentUser returns the active user without its credential.
func (s *Store) CurrentUser() (models.User, bool) {
	s.lock()
	defer s.unlock()

	if s.st.user == nil {
		return models.User{}, false
	}
	return s.st.user.Public(), true
}

func (s *Store) IsAuthenticated() bool {
	s.lock()
	defer s.unlock()
	return s.st.user != nil
}

// LookupUser finds a directory entry by id.
func (s *Store) LookupUser(id string) (models.User, bool) {
	s.lock()
	defer s.unlock()

	for _, u := range s.st.users {
		if u.ID == id {
			return u.Public(), true
		}
	}
	return models.User{}, false
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
