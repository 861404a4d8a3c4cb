package store

import (
	"context"
	"fmt"
	"strings"

	"glowup-backend/models"
)

// CreateBooking records a pending service booking for the active user.
func (s *Store) CreateBooking(ctx context.Context, req models.BookingRequest) (models.Booking, error) {
	if err := validateBookingRequest(req); err != nil {
		return models.Booking{}, err
	}

	s.lock()
	defer s.unlock()

	if s.st.user == nil {
		return models.Booking{}, ErrNotAuthenticated
	}

	booking := models.Booking{
		ID:            s.opts.newID(),
		UserID:        s.st.user.ID,
		ServiceID:     req.ServiceID,
		ServiceName:   req.ServiceName,
		ProviderID:    req.ProviderID,
		ProviderName:  req.ProviderName,
		ProviderType:  req.ProviderType,
		Date:          req.Date,
		Time:          req.Time,
		Type:          req.Type,
		Status:        models.BookingStatusPending,
		Price:         req.Price,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     s.now(),
	}
	bookings := prepend(booking, s.st.bookings)

	b := &batch{}
	b.put(KeyBookings, bookings)
	if err := s.commit(ctx, b); err != nil {
		return models.Booking{}, err
	}
	s.st.bookings = bookings
	logger.Debugf("booking %s created for provider %s", booking.ID, booking.ProviderID)
	return booking, nil
}

func validateBookingRequest(req models.BookingRequest) error {
	required := map[string]string{
		"serviceId":    req.ServiceID,
		"serviceName":  req.ServiceName,
		"providerId":   req.ProviderID,
		"providerName": req.ProviderName,
		"date":         req.Date,
		"time":         req.Time,
	}
	for _, field := range []string{"serviceId", "serviceName", "providerId", "providerName", "date", "time"} {
		if strings.TrimSpace(required[field]) == "" {
			return validationError(field, "is required")
		}
	}
	if req.ProviderType != models.ProviderSalon && req.ProviderType != models.ProviderArtist {
		return validationError("providerType", "must be salon or artist")
	}
	if req.Type != models.LocationHome && req.Type != models.LocationSalon {
		return validationError("type", "must be home or salon")
	}
	if req.Price < 0 {
		return validationError("price", "must not be negative")
	}
	return nil
}

// AcceptBooking confirms a pending booking. Only providers may accept.
func (s *Store) AcceptBooking(ctx context.Context, bookingID string) (models.Booking, error) {
	return s.UpdateBookingStatus(ctx, bookingID, models.BookingStatusConfirmed)
}

// RejectBooking cancels a pending booking. Only providers may reject.
func (s *Store) RejectBooking(ctx context.Context, bookingID string) (models.Booking, error) {
	return s.UpdateBookingStatus(ctx, bookingID, models.BookingStatusCancelled)
}

// CompleteBooking closes a confirmed booking.
func (s *Store) CompleteBooking(ctx context.Context, bookingID string) (models.Booking, error) {
	return s.UpdateBookingStatus(ctx, bookingID, models.BookingStatusCompleted)
}

// UpdateBookingStatus applies one transition of the booking state machine.
// Leaving pending requires a provider session; completion does not.
func (s *Store) UpdateBookingStatus(ctx context.Context, bookingID string, status models.BookingStatus) (models.Booking, error) {
	if !status.IsValid() {
		return models.Booking{}, validationError("status", "is invalid")
	}

	s.lock()
	defer s.unlock()

	bookings := cloneSlice(s.st.bookings)
	for i := range bookings {
		if bookings[i].ID != bookingID {
			continue
		}
		if err := s.checkTransitionLocked(bookings[i].Status, status, models.Role.IsProvider); err != nil {
			return models.Booking{}, fmt.Errorf("booking %s: %w", bookingID, err)
		}
		bookings[i].Status = status

		b := &batch{}
		b.put(KeyBookings, bookings)
		if err := s.commit(ctx, b); err != nil {
			return models.Booking{}, err
		}
		s.st.bookings = bookings
		return bookings[i], nil
	}
	return models.Booking{}, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
}

// checkTransitionLocked validates a move along the shared status table. Moves
// out of pending are reserved to sessions whose role satisfies mayDecide.
func (s *Store) checkTransitionLocked(from, to models.BookingStatus, mayDecide func(models.Role) bool) error {
	if !models.IsValidBookingTransition(from, to) {
		return fmt.Errorf("%w: %q to %q", ErrInvalidTransition, from, to)
	}
	if from != models.BookingStatusPending {
		return nil
	}
	if s.st.user == nil {
		return ErrNotAuthenticated
	}
	if !mayDecide(s.st.user.Role) {
		return ErrForbidden
	}
	return nil
}

func (s *Store) Bookings() []models.Booking {
	s.lock()
	defer s.unlock()
	return cloneSlice(s.st.bookings)
}

// BookingsForUser lists the bookings made by userID.
func (s *Store) BookingsForUser(userID string) []models.Booking {
	s.lock()
	defer s.unlock()

	out := []models.Booking{}
	for _, bk := range s.st.bookings {
		if bk.UserID == userID {
			out = append(out, bk)
		}
	}
	return out
}

// BookingsForProvider lists the bookings addressed to a salon or artist. An
// empty providerID lists every booking on the device.
func (s *Store) BookingsForProvider(providerID string) []models.Booking {
	s.lock()
	defer s.unlock()

	out := []models.Booking{}
	for _, bk := range s.st.bookings {
		if providerID == "" || bk.ProviderID == providerID {
			out = append(out, bk)
		}
	}
	return out
}

// BookAppointment records a pending doctor consultation for the active user.
func (s *Store) BookAppointment(ctx context.Context, req models.AppointmentRequest) (models.Appointment, error) {
	switch {
	case strings.TrimSpace(req.DoctorID) == "":
		return models.Appointment{}, validationError("doctorId", "is required")
	case strings.TrimSpace(req.DoctorName) == "":
		return models.Appointment{}, validationError("doctorName", "is required")
	case strings.TrimSpace(req.Date) == "":
		return models.Appointment{}, validationError("date", "is required")
	case strings.TrimSpace(req.Time) == "":
		return models.Appointment{}, validationError("time", "is required")
	}

	s.lock()
	defer s.unlock()

	if s.st.user == nil {
		return models.Appointment{}, ErrNotAuthenticated
	}

	appt := models.Appointment{
		ID:         s.opts.newID(),
		UserID:     s.st.user.ID,
		UserName:   s.st.user.Name,
		DoctorID:   req.DoctorID,
		DoctorName: req.DoctorName,
		Date:       req.Date,
		Time:       req.Time,
		Status:     models.BookingStatusPending,
		CreatedAt:  s.now(),
	}
	appointments := prepend(appt, s.st.appointments)

	b := &batch{}
	b.put(KeyAppointments, appointments)
	if err := s.commit(ctx, b); err != nil {
		return models.Appointment{}, err
	}
	s.st.appointments = appointments
	return appt, nil
}

func (s *Store) AcceptAppointment(ctx context.Context, appointmentID string) (models.Appointment, error) {
	return s.UpdateAppointmentStatus(ctx, appointmentID, models.BookingStatusConfirmed)
}

func (s *Store) RejectAppointment(ctx context.Context, appointmentID string) (models.Appointment, error) {
	return s.UpdateAppointmentStatus(ctx, appointmentID, models.BookingStatusCancelled)
}

// UpdateAppointmentStatus applies one transition of the appointment state
// machine. Leaving pending requires a doctor session.
func (s *Store) UpdateAppointmentStatus(ctx context.Context, appointmentID string, status models.BookingStatus) (models.Appointment, error) {
	if !status.IsValid() {
		return models.Appointment{}, validationError("status", "is invalid")
	}

	s.lock()
	defer s.unlock()

	return s.updateAppointmentLocked(ctx, appointmentID, func(a *models.Appointment) error {
		if err := s.checkTransitionLocked(a.Status, status, isDoctor); err != nil {
			return err
		}
		a.Status = status
		return nil
	})
}

// AddPrescription attaches the doctor's prescription to a confirmed
// appointment and completes it. An appointment carries at most one.
func (s *Store) AddPrescription(ctx context.Context, appointmentID string, rx models.Prescription) (models.Appointment, error) {
	if len(rx.Medicines) == 0 && strings.TrimSpace(rx.Instructions) == "" {
		return models.Appointment{}, validationError("prescription", "needs medicines or instructions")
	}

	s.lock()
	defer s.unlock()

	if s.st.user == nil {
		return models.Appointment{}, ErrNotAuthenticated
	}
	if !isDoctor(s.st.user.Role) {
		return models.Appointment{}, ErrForbidden
	}

	return s.updateAppointmentLocked(ctx, appointmentID, func(a *models.Appointment) error {
		if a.Prescription != nil {
			return ErrPrescriptionExists
		}
		if a.Status != models.BookingStatusConfirmed {
			return fmt.Errorf("%w: prescription needs a confirmed appointment, got %q", ErrInvalidTransition, a.Status)
		}
		attached := rx
		if attached.ID == "" {
			attached.ID = s.opts.newID()
		}
		attached.Medicines = cloneSlice(rx.Medicines)
		attached.SuggestedProducts = cloneSlice(rx.SuggestedProducts)
		a.Prescription = &attached
		a.Status = models.BookingStatusCompleted
		return nil
	})
}

func (s *Store) updateAppointmentLocked(ctx context.Context, appointmentID string, mutate func(*models.Appointment) error) (models.Appointment, error) {
	appointments := cloneSlice(s.st.appointments)
	for i := range appointments {
		if appointments[i].ID != appointmentID {
			continue
		}
		if err := mutate(&appointments[i]); err != nil {
			return models.Appointment{}, fmt.Errorf("appointment %s: %w", appointmentID, err)
		}
		b := &batch{}
		b.put(KeyAppointments, appointments)
		if err := s.commit(ctx, b); err != nil {
			return models.Appointment{}, err
		}
		s.st.appointments = appointments
		return appointments[i], nil
	}
	return models.Appointment{}, fmt.Errorf("appointment %s: %w", appointmentID, ErrNotFound)
}

func (s *Store) Appointments() []models.Appointment {
	s.lock()
	defer s.unlock()
	return cloneSlice(s.st.appointments)
}

// AppointmentsForUser lists the consultations booked by userID.
func (s *Store) AppointmentsForUser(userID string) []models.Appointment {
	s.lock()
	defer s.unlock()

	out := []models.Appointment{}
	for _, a := range s.st.appointments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out
}

// AppointmentsForDoctor lists the consultations assigned to a doctor. An
// empty doctorID lists every appointment on the device.
func (s *Store) AppointmentsForDoctor(doctorID string) []models.Appointment {
	s.lock()
	defer s.unlock()

	out := []models.Appointment{}
	for _, a := range s.st.appointments {
		if doctorID == "" || a.DoctorID == doctorID {
			out = append(out, a)
		}
	}
	return out
}

func isDoctor(r models.Role) bool {
	return r == models.RoleDoctor
}
