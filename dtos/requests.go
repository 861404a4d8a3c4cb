// Package dtos holds the request bodies accepted by the HTTP handlers.
package dtos

import "glowup-backend/models"

type SignupRequest struct {
	Name     string           `json:"name" binding:"required,max=100"`
	Email    string           `json:"email" binding:"required,email"`
	Phone    string           `json:"phone" binding:"max=20"`
	Password string           `json:"password" binding:"required,min=6,max=72"`
	Address  string           `json:"address" binding:"max=500"`
	Location *models.Location `json:"location"`
}

// ToModel converts the request into the store's signup input.
func (r SignupRequest) ToModel() models.SignupRequest {
	return models.SignupRequest{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Password: r.Password,
		Address:  r.Address,
		Location: r.Location,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RoleRequest struct {
	Role models.Role `json:"role" binding:"required,oneof=user salon_owner artist doctor"`
}

// AddToCartRequest adds one unit of the product, as the product card does.
type AddToCartRequest struct {
	Product models.Product `json:"product"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}

// CheckoutRequest carries the optional payment proof, either a data URL
// or a URL that was uploaded elsewhere.
type CheckoutRequest struct {
	PaymentScreenshot string `json:"paymentScreenshot"`
}

type OrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required,oneof=ordered payment_completed started delivered"`
}

type TrackingLinkRequest struct {
	TrackingLink string `json:"trackingLink" binding:"required,url,max=2048"`
}

type BookingStatusRequest struct {
	Status models.BookingStatus `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
}

type PrescriptionRequest struct {
	Medicines         []string `json:"medicines"`
	Instructions      string   `json:"instructions" binding:"max=2000"`
	SuggestedProducts []string `json:"suggestedProducts"`
}

func (r PrescriptionRequest) ToModel() models.Prescription {
	return models.Prescription{
		Medicines:         r.Medicines,
		Instructions:      r.Instructions,
		SuggestedProducts: r.SuggestedProducts,
	}
}

type DietPreferenceRequest struct {
	Goal           string `json:"goal" binding:"required,max=100"`
	FoodPreference string `json:"foodPreference" binding:"required,max=100"`
	Allergies      string `json:"allergies" binding:"max=500"`
	WakeUpTime     string `json:"wakeUpTime" binding:"max=20"`
	SleepHours     string `json:"sleepHours" binding:"max=20"`
}

func (r DietPreferenceRequest) ToModel() models.DietPreference {
	return models.DietPreference{
		Goal:           r.Goal,
		FoodPreference: r.FoodPreference,
		Allergies:      r.Allergies,
		WakeUpTime:     r.WakeUpTime,
		SleepHours:     r.SleepHours,
	}
}

type FaceScoreRequest struct {
	Photo string `json:"photo" binding:"required"`
}

type LocationRequest struct {
	Lat *float64 `json:"lat" binding:"required,latitude"`
	Lon *float64 `json:"lon" binding:"required,longitude"`
}

type LocationErrorRequest struct {
	Message string `json:"message" binding:"max=200"`
}
