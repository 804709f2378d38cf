package handler

import "github.com/ayam04/Contract-Farming/internal/core/domain"

// --- Request / Response types ---

type signupRequest struct {
	Username string `json:"username" validate:"required,printascii,max=64"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=farmer buyer"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	Role  domain.Role `json:"role"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// createCropRequest is bound from multipart or url-encoded form fields. Price
// and quantity stay strings so that malformed numbers surface as validation
// errors instead of bind failures.
type createCropRequest struct {
	Name        string `form:"name" validate:"required"`
	Description string `form:"description"`
	Location    string `form:"location" validate:"required"`
	Price       string `form:"price" validate:"required,numeric"`
	Quantity    string `form:"quantity" validate:"omitempty,numeric"`
}

type createCropResponse struct {
	Message string      `json:"message"`
	Crop    domain.Crop `json:"crop"`
}
