package converter

import (
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Phone:     user.Phone,
		Roles:     user.RoleNames(),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	if user.DoctorProfile != nil {
		response.DoctorProfile = DoctorProfileToResponse(user.DoctorProfile)
	}
	if user.PatientProfile != nil {
		response.PatientProfile = PatientProfileToResponse(user.PatientProfile)
	}

	return response
}

func DoctorProfileToResponse(profile *entity.DoctorProfile) *dto.DoctorProfileResponse {
	if profile == nil {
		return nil
	}
	return &dto.DoctorProfileResponse{
		ID:              profile.ID,
		UserID:          profile.UserID,
		LicenseNumber:   profile.LicenseNumber,
		Specialization:  profile.Specialization,
		ExperienceYears: profile.ExperienceYears,
		Biography:       profile.Biography,
	}
}

func PatientProfileToResponse(profile *entity.PatientProfile) *dto.PatientProfileResponse {
	if profile == nil {
		return nil
	}
	return &dto.PatientProfileResponse{
		ID:          profile.ID,
		UserID:      profile.UserID,
		DateOfBirth: FormatDate(profile.DateOfBirth),
		Gender:      profile.Gender,
		Address:     profile.Address,
		BloodType:   profile.BloodType,
		Allergies:   profile.Allergies,
	}
}
