package store

import (
	"context"
	"errors"
	"math"

	"glowup-backend/models"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Geocoder resolves coordinates into a street address.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (models.Location, error)
}

// LocationStatus reports the state of the last location lookup. Error means
// the device gave no position at all; AddressError means the coordinates were
// kept but could not be turned into an address.
type LocationStatus struct {
	Loading      bool   `json:"loading"`
	Error        string `json:"error,omitempty"`
	AddressError string `json:"addressError,omitempty"`
}

// FetchLocation resolves lat/lon into the device location. A geocoding
// failure still records the coordinates. Only one fetch runs at a time.
func (s *Store) FetchLocation(ctx context.Context, lat, lon float64) (models.Location, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return models.Location{}, err
	}

	s.lock()
	if s.locationLoading {
		s.unlock()
		return models.Location{}, ErrLocationBusy
	}
	s.locationLoading = true
	s.locationErr = ""
	s.addressErr = ""
	s.pending = append(s.pending, Event{Keys: []string{KeyLocation}})
	geocoder := s.opts.geocoder
	timeout := s.opts.geocodeTimeout
	s.unlock()

	loc := models.Location{Lat: lat, Lon: lon}
	var addressErr string
	if geocoder != nil {
		gctx, cancel := context.WithTimeout(ctx, timeout)
		resolved, err := geocoder.Reverse(gctx, lat, lon)
		timedOut := errors.Is(gctx.Err(), context.DeadlineExceeded)
		cancel()
		switch {
		case err != nil && timedOut:
			addressErr = "address lookup timed out"
			logger.Warningf("reverse geocoding %.5f,%.5f timed out after %s", lat, lon, timeout)
		case err != nil:
			addressErr = "address lookup failed"
			logger.Warningf("reverse geocoding %.5f,%.5f: %v", lat, lon, err)
		default:
			loc = resolved
			loc.Lat, loc.Lon = lat, lon
		}
	}

	s.lock()
	defer s.unlock()
	s.location = &loc
	s.locationLoading = false
	s.addressErr = addressErr
	s.pending = append(s.pending, Event{Keys: []string{KeyLocation}})
	return loc, nil
}

func validateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return validationError("lat", "must be between -90 and 90")
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return validationError("lon", "must be between -180 and 180")
	}
	return nil
}

// ReportLocationError records that the device could not provide a position.
func (s *Store) ReportLocationError(msg string) {
	if msg == "" {
		msg = "geolocation is not supported"
	}

	s.lock()
	defer s.unlock()
	s.locationErr = msg
	s.locationLoading = false
	s.pending = append(s.pending, Event{Keys: []string{KeyLocation}})
}

func (s *Store) Location() (models.Location, bool) {
	s.lock()
	defer s.unlock()

	if s.location == nil {
		return models.Location{}, false
	}
	return *s.location, true
}

func (s *Store) LocationStatus() LocationStatus {
	s.lock()
	defer s.unlock()
	return LocationStatus{Loading: s.locationLoading, Error: s.locationErr, AddressError: s.addressErr}
}

// DistanceTo returns the great-circle distance in kilometres from the last
// resolved location, or false when no location is known.
func (s *Store) DistanceTo(lat, lon float64) (float64, bool) {
	if validateCoordinates(lat, lon) != nil {
		return 0, false
	}
	here, ok := s.Location()
	if !ok {
		return 0, false
	}
	return DistanceKm(here.Lat, here.Lon, lat, lon), true
}

// DistanceKm is the haversine distance between two coordinates.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	return geo.DistanceHaversine(orb.Point{lon1, lat1}, orb.Point{lon2, lat2}) / 1000
}
