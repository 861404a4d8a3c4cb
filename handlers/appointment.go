package handlers

import (
	"context"
	"net/http"

	"glowup-backend/dtos"
	"glowup-backend/models"
	"glowup-backend/store"
	"glowup-backend/utils"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct{}

func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	var req models.AppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	appt, err := s.BookAppointment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.AppointmentsForUser(c.GetString("user_id")))
}

// GetDoctorAppointments lists the appointments on the device, optionally for one doctor.
func (h *AppointmentHandler) GetDoctorAppointments(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, s.AppointmentsForDoctor(c.Query("doctorId")))
}

func (h *AppointmentHandler) AcceptAppointment(c *gin.Context) {
	h.transition(c, (*store.Store).AcceptAppointment)
}

func (h *AppointmentHandler) RejectAppointment(c *gin.Context) {
	h.transition(c, (*store.Store).RejectAppointment)
}

func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req dtos.BookingStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	h.transition(c, func(s *store.Store, ctx context.Context, id string) (models.Appointment, error) {
		return s.UpdateAppointmentStatus(ctx, id, req.Status)
	})
}

func (h *AppointmentHandler) transition(c *gin.Context, apply func(*store.Store, context.Context, string) (models.Appointment, error)) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	appt, err := apply(s, c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// AddPrescription attaches the prescription and completes the appointment.
func (h *AppointmentHandler) AddPrescription(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	var req dtos.PrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	appt, err := s.AddPrescription(c.Request.Context(), c.Param("id"), req.ToModel())
	if err != nil {
		respondError(c, err)
		return
	}

	if patient, ok := s.LookupUser(appt.UserID); ok {
		utils.SendPrescriptionEmail(patient.Email, patient.Name, appt)
	}
	c.JSON(http.StatusOK, appt)
}
