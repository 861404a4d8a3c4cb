package models

import "time"

// BookingStatus is shared by bookings and doctor appointments.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type ProviderType string

const (
	ProviderSalon  ProviderType = "salon"
	ProviderArtist ProviderType = "artist"
)

type LocationMode string

const (
	LocationHome  LocationMode = "home"
	LocationSalon LocationMode = "salon"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

type Booking struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	ServiceID     string        `json:"serviceId"`
	ServiceName   string        `json:"serviceName"`
	ProviderID    string        `json:"providerId"`
	ProviderName  string        `json:"providerName"`
	ProviderType  ProviderType  `json:"providerType"`
	Date          string        `json:"date"`
	Time          string        `json:"time"`
	Type          LocationMode  `json:"type"`
	Status        BookingStatus `json:"status"`
	Price         float64       `json:"price"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type BookingRequest struct {
	ServiceID    string       `json:"serviceId"`
	ServiceName  string       `json:"serviceName"`
	ProviderID   string       `json:"providerId"`
	ProviderName string       `json:"providerName"`
	ProviderType ProviderType `json:"providerType"`
	Date         string       `json:"date"`
	Time         string       `json:"time"`
	Type         LocationMode `json:"type"`
	Price        float64      `json:"price"`
}

type Appointment struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	UserName     string        `json:"userName"`
	DoctorID     string        `json:"doctorId"`
	DoctorName   string        `json:"doctorName"`
	Date         string        `json:"date"`
	Time         string        `json:"time"`
	Status       BookingStatus `json:"status"`
	Prescription *Prescription `json:"prescription,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

type AppointmentRequest struct {
	DoctorID   string `json:"doctorId"`
	DoctorName string `json:"doctorName"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

type Prescription struct {
	ID                string   `json:"id"`
	Medicines         []string `json:"medicines"`
	Instructions      string   `json:"instructions"`
	SuggestedProducts []string `json:"suggestedProducts"`
}

// BookingTransitions defines the valid booking and appointment state machine.
var BookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

// IsValid reports whether s is a known booking status.
func (s BookingStatus) IsValid() bool {
	_, ok := BookingTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (s BookingStatus) IsTerminal() bool {
	return s.IsValid() && len(BookingTransitions[s]) == 0
}

// IsValidBookingTransition checks if a status transition is allowed.
func IsValidBookingTransition(from, to BookingStatus) bool {
	allowed, exists := BookingTransitions[from]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}
