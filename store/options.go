package store

import (
	"math/rand"
	"time"

	"github.com/juju/clock"
	"golang.org/x/crypto/bcrypt"
)

// RandomSource supplies reward randomness. *rand.Rand satisfies it, so tests
// can pass a seeded source.
type RandomSource interface {
	Intn(n int) int
}

// Rewards holds the coin amounts of every gamified action.
type Rewards struct {
	DailyLogin     int
	DietCompletion int
	FaceScore      int
	TryOn          int
	CollectBoxMin  int
	CollectBoxMax  int
	FaceScoreMin   int
	FaceScoreMax   int
}

func DefaultRewards() Rewards {
	return Rewards{
		DailyLogin:     5,
		DietCompletion: 10,
		FaceScore:      15,
		TryOn:          5,
		CollectBoxMin:  3,
		CollectBoxMax:  10,
		FaceScoreMin:   70,
		FaceScoreMax:   95,
	}
}

// Validate checks that every fixed reward credits coins and that both random
// ranges are non-empty.
func (r Rewards) Validate() error {
	fixed := []struct {
		name  string
		coins int
	}{
		{"daily login reward", r.DailyLogin},
		{"diet completion reward", r.DietCompletion},
		{"face score reward", r.FaceScore},
		{"try-on reward", r.TryOn},
		{"collect box minimum", r.CollectBoxMin},
	}
	for _, f := range fixed {
		if f.coins <= 0 {
			return validationError(f.name, "must be positive")
		}
	}
	if r.CollectBoxMax < r.CollectBoxMin {
		return validationError("collect box maximum", "must not be below the minimum")
	}
	if r.FaceScoreMin < 0 || r.FaceScoreMax > 100 || r.FaceScoreMax < r.FaceScoreMin {
		return validationError("face score range", "must lie within 0..100 with min <= max")
	}
	return nil
}

// Ledger action labels.
const (
	ActionDailyLogin    = "Daily Login"
	ActionDietCompleted = "Diet Plan Completed"
	ActionFaceScore     = "Face Image Updated"
	ActionTryOn         = "Product Try-On"
	ActionCollectBox    = "Daily Collect Box"
)

type options struct {
	clock          clock.Clock
	random         RandomSource
	location       *time.Location
	geocoder       Geocoder
	geocodeTimeout time.Duration
	rewards        Rewards
	passwordCost   int
	newID          func() string
}

type Option func(*options)

func defaultOptions() options {
	return options{
		clock:          clock.WallClock,
		location:       time.Local,
		geocodeTimeout: 10 * time.Second,
		rewards:        DefaultRewards(),
		passwordCost:   bcrypt.DefaultCost,
	}
}

// WithClock sets the clock used for timestamps and day gates.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithRandom sets the reward random source. The source is only used under the
// store lock and must not be shared between stores.
func WithRandom(r RandomSource) Option {
	return func(o *options) { o.random = r }
}

// WithLocation sets the time zone that defines a calendar day.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.location = loc }
}

func WithGeocoder(g Geocoder) Option {
	return func(o *options) { o.geocoder = g }
}

func WithGeocodeTimeout(d time.Duration) Option {
	return func(o *options) { o.geocodeTimeout = d }
}

func WithRewards(r Rewards) Option {
	return func(o *options) { o.rewards = r }
}

// WithPasswordCost sets the bcrypt cost for new credentials.
func WithPasswordCost(cost int) Option {
	return func(o *options) { o.passwordCost = cost }
}

// WithIDGenerator replaces the uuid-based identifier generator.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

func newRandom() RandomSource {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
