package dto

import "time"

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RegisterPatientRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"full_name" validate:"required,min=2"`
	Phone       string `json:"phone" validate:"omitempty,min=8,max=20"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	Address     string `json:"address"`
	BloodType   string `json:"blood_type" validate:"omitempty,max=5"`
	Allergies   string `json:"allergies"`
}

type RegisterDoctorRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	FullName        string `json:"full_name" validate:"required,min=2"`
	Phone           string `json:"phone" validate:"omitempty,min=8,max=20"`
	LicenseNumber   string `json:"license_number" validate:"required,max=50"`
	Specialization  string `json:"specialization" validate:"required,max=100"`
	ExperienceYears int    `json:"experience_years" validate:"gte=0"`
	Biography       string `json:"biography"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type DoctorProfileResponse struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"user_id"`
	LicenseNumber   string `json:"license_number"`
	Specialization  string `json:"specialization"`
	ExperienceYears int    `json:"experience_years"`
	Biography       string `json:"biography,omitempty"`
}

type PatientProfileResponse struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"user_id"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	Gender      string  `json:"gender,omitempty"`
	Address     string  `json:"address,omitempty"`
	BloodType   string  `json:"blood_type,omitempty"`
	Allergies   string  `json:"allergies,omitempty"`
}

type UserResponse struct {
	ID             int64                   `json:"id"`
	Email          string                  `json:"email"`
	FullName       string                  `json:"full_name"`
	Phone          string                  `json:"phone,omitempty"`
	Roles          []string                `json:"roles"`
	DoctorProfile  *DoctorProfileResponse  `json:"doctor_profile,omitempty"`
	PatientProfile *PatientProfileResponse `json:"patient_profile,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}
