// Package store holds the application state of one device: session, cart,
// orders, bookings, appointments, wallet and the daily-gated rewards. Every
// mutation is persisted as full-slice snapshots before it becomes visible.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"glowup-backend/models"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("glowup.store")

// Event names the persisted slices changed by one committed mutation.
type Event struct {
	Keys []string `json:"keys"`
}

type Listener func(Event)

type state struct {
	user            *models.User
	cart            []models.CartItem
	orders          []models.Order
	bookings        []models.Booking
	appointments    []models.Appointment
	wallet          *models.Wallet
	walletHistory   []models.WalletHistory
	dietPreference  *models.DietPreference
	dietCompletions []models.DietCompletion
	faceScores      []models.FaceScoreEntry
	collectClaims   []models.CollectBoxClaim
	lastLogin       models.Day
	users           []models.User
}

// archive is the per-user gamification state kept across sessions so the
// ledger and the daily gates survive logout.
type archive struct {
	WalletHistory   []models.WalletHistory   `json:"walletHistory"`
	DietPreference  *models.DietPreference   `json:"dietPreference,omitempty"`
	DietCompletions []models.DietCompletion  `json:"dietCompletions"`
	FaceScores      []models.FaceScoreEntry  `json:"faceScores"`
	CollectClaims   []models.CollectBoxClaim `json:"collectClaims"`
	LastLogin       models.Day               `json:"lastLogin,omitempty"`
}

type Store struct {
	mu      sync.Mutex
	storage Storage
	opts    options
	st      state
	pending []Event

	location        *models.Location
	locationLoading bool
	locationErr     string
	addressErr      string

	listenersMu  sync.Mutex
	listeners    map[int]Listener
	nextListener int
}

// New loads every slice from storage and returns a ready store. Missing
// slices start empty.
func New(ctx context.Context, storage Storage, opts ...Option) (*Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.rewards.Validate(); err != nil {
		return nil, err
	}
	if o.random == nil {
		o.random = newRandom()
	}
	if o.newID == nil {
		o.newID = uuid.NewString
	}
	if o.location == nil {
		o.location = time.Local
	}

	s := &Store{
		storage:   storage,
		opts:      o,
		listeners: make(map[int]Listener),
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	slices := []struct {
		key string
		dst any
	}{
		{KeyUser, &s.st.user},
		{KeyCart, &s.st.cart},
		{KeyOrders, &s.st.orders},
		{KeyBookings, &s.st.bookings},
		{KeyAppointments, &s.st.appointments},
		{KeyWallet, &s.st.wallet},
		{KeyWalletHistory, &s.st.walletHistory},
		{KeyDietPreference, &s.st.dietPreference},
		{KeyDietCompletions, &s.st.dietCompletions},
		{KeyFaceScores, &s.st.faceScores},
		{KeyCollectClaims, &s.st.collectClaims},
		{KeyLastLogin, &s.st.lastLogin},
		{KeyUsers, &s.st.users},
	}
	for _, sl := range slices {
		if _, err := s.read(ctx, sl.key, sl.dst); err != nil {
			return err
		}
	}

	// A session without a wallet gets a fresh one, as on first login.
	if s.st.user != nil && s.st.wallet == nil {
		w := models.NewWallet(s.st.user.ID)
		s.st.wallet = &w
	}
	return nil
}

// read decodes key into dst and reports whether the key existed.
func (s *Store) read(ctx context.Context, key string, dst any) (bool, error) {
	data, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// batch collects the slice writes of one mutation.
type batch struct {
	ops  []Op
	keys []string
	err  error
}

func (b *batch) put(key string, v any) {
	if b.err != nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		b.err = fmt.Errorf("encode %s: %w", key, err)
		return
	}
	b.ops = append(b.ops, Op{Key: key, Value: data})
	b.touch(key)
}

// remove deletes key. Ops apply in order, so a later put of the same key wins.
func (b *batch) remove(key string) {
	b.ops = append(b.ops, Op{Key: key, Delete: true})
	b.touch(key)
}

func (b *batch) touch(key string) {
	for _, k := range b.keys {
		if k == key {
			return
		}
	}
	b.keys = append(b.keys, key)
}

// commit writes the batch. The caller swaps new values into memory only when
// commit succeeds, so a failed write leaves both memory and storage untouched.
func (s *Store) commit(ctx context.Context, b *batch) error {
	if b.err != nil {
		return b.err
	}
	if len(b.ops) == 0 {
		return nil
	}
	if err := s.storage.Apply(ctx, b.ops); err != nil {
		logger.Errorf("persisting %v: %v", b.keys, err)
		return fmt.Errorf("persist %v: %w", b.keys, err)
	}
	s.pending = append(s.pending, Event{Keys: b.keys})
	return nil
}

// lock and unlock bracket every operation. unlock publishes the events
// committed while the lock was held.
func (s *Store) lock() {
	s.mu.Lock()
}

func (s *Store) unlock() {
	events := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, ev := range events {
		s.publish(ev)
	}
}

func (s *Store) now() time.Time {
	return s.opts.clock.Now()
}

func (s *Store) today() models.Day {
	return models.DayOf(s.now(), s.opts.location)
}

// Clock returns the clock the store reads time from.
func (s *Store) Clock() clock.Clock {
	return s.opts.clock
}

// Subscribe registers fn for every committed change. The returned func
// removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) publish(ev Event) {
	s.listenersMu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// State is a read-only copy of everything the UI renders.
type State struct {
	User            *models.User             `json:"user"`
	IsAuthenticated bool                     `json:"isAuthenticated"`
	Cart            []models.CartItem        `json:"cart"`
	CartTotal       float64                  `json:"cartTotal"`
	Orders          []models.Order           `json:"orders"`
	Bookings        []models.Booking         `json:"bookings"`
	Appointments    []models.Appointment     `json:"appointments"`
	Wallet          *models.Wallet           `json:"wallet"`
	WalletHistory   []models.WalletHistory   `json:"walletHistory"`
	DietPreference  *models.DietPreference   `json:"dietPreference"`
	DietCompletions []models.DietCompletion  `json:"dietCompletions"`
	FaceScores      []models.FaceScoreEntry  `json:"faceScoreHistory"`
	CollectClaims   []models.CollectBoxClaim `json:"collectBoxClaims"`
	Location        *models.Location         `json:"location"`
	LocationLoading bool                     `json:"locationLoading"`
	LocationError   string                   `json:"locationError,omitempty"`
	AddressError    string                   `json:"addressError,omitempty"`
}

// Snapshot copies the current state.
func (s *Store) Snapshot() State {
	s.lock()
	defer s.unlock()

	st := State{
		IsAuthenticated: s.st.user != nil,
		Cart:            cloneSlice(s.st.cart),
		CartTotal:       models.CartTotal(s.st.cart),
		Orders:          cloneSlice(s.st.orders),
		Bookings:        cloneSlice(s.st.bookings),
		Appointments:    cloneSlice(s.st.appointments),
		WalletHistory:   cloneSlice(s.st.walletHistory),
		DietCompletions: cloneSlice(s.st.dietCompletions),
		FaceScores:      cloneSlice(s.st.faceScores),
		CollectClaims:   cloneSlice(s.st.collectClaims),
		LocationLoading: s.locationLoading,
		LocationError:   s.locationErr,
		AddressError:    s.addressErr,
	}
	if s.st.user != nil {
		u := s.st.user.Public()
		st.User = &u
	}
	if s.st.wallet != nil {
		w := *s.st.wallet
		st.Wallet = &w
	}
	if s.st.dietPreference != nil {
		p := *s.st.dietPreference
		st.DietPreference = &p
	}
	if s.location != nil {
		l := *s.location
		st.Location = &l
	}
	return st
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// prepend returns a new slice with v in front of in.
func prepend[T any](v T, in []T) []T {
	out := make([]T, 0, len(in)+1)
	out = append(out, v)
	return append(out, in...)
}
