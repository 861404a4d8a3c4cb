package store

// Persisted slice keys. Each key holds a full snapshot of its collection.
const (
	KeyUser            = "glowup_user"
	KeyCart            = "glowup_cart"
	KeyOrders          = "glowup_orders"
	KeyBookings        = "glowup_bookings"
	KeyAppointments    = "glowup_appointments"
	KeyWallet          = "glowup_wallet"
	KeyWalletHistory   = "glowup_wallet_history"
	KeyDietPreference  = "glowup_diet_preference"
	KeyDietCompletions = "glowup_diet_completions"
	KeyFaceScores      = "glowup_face_scores"
	KeyCollectClaims   = "glowup_collect_claims"
	KeyLastLogin       = "glowup_last_login"
	KeyUsers           = "glowup_users"

	// KeyLocation names location changes in events. Location is never persisted.
	KeyLocation = "glowup_location"
)

// sessionKeys are removed from storage on logout.
var sessionKeys = []string{
	KeyUser,
	KeyCart,
	KeyWallet,
	KeyWalletHistory,
	KeyDietPreference,
	KeyDietCompletions,
	KeyFaceScores,
	KeyCollectClaims,
	KeyLastLogin,
}

// WalletArchiveKey holds a user's wallet between sessions.
func WalletArchiveKey(userID string) string {
	return "glowup_wallet_" + userID
}

// ArchiveKey holds a user's ledger and daily gates between sessions.
func ArchiveKey(userID string) string {
	return "glowup_archive_" + userID
}
