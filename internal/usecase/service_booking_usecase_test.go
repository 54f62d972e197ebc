package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/repository"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServiceBookingUsecase(env *testEnv) ServiceBookingUsecase {
	return NewServiceBookingUsecase(
		env.db,
		env.log,
		repository.NewServiceBookingRepository(),
		repository.NewServiceRepository(),
		repository.NewPatientProfileRepository(),
		repository.NewDoctorProfileRepository(),
		repository.NewAppointmentRepository(),
		env.auditService,
		env.metrics,
	)
}

func (e *testEnv) seedAppointment(t *testing.T, booking *entity.ServiceBooking, doctorID int64) *entity.Appointment {
	t.Helper()

	appointment := &entity.Appointment{
		PatientID:        booking.PatientID,
		DoctorID:         doctorID,
		ServiceBookingID: booking.ID,
		AppointmentDate:  time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
		AppointmentTime:  "09:30",
		Status:           entity.AppointmentStatusScheduled,
	}
	require.NoError(t, e.db.Omit("Patient", "Doctor", "Consultation", "Prescriptions").Create(appointment).Error)
	return appointment
}

func TestParseTotalPrice(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantNil bool
		wantErr string
	}{
		{name: "number", raw: `250000.50`, want: "250000.5"},
		{name: "string", raw: `"125000"`, want: "125000"},
		{name: "padded string", raw: `" 42 "`, want: "42"},
		{name: "zero", raw: `0`, want: "0"},
		{name: "null", raw: `null`, wantNil: true},
		{name: "absent", raw: ``, wantNil: true},
		{name: "negative", raw: `-1`, wantErr: "invalid total_price: -1"},
		{name: "not a number", raw: `"abc"`, wantErr: "invalid total_price: abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTotalPrice(json.RawMessage(tt.raw))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTotalPrice)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}

			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(*got))
		})
	}
}

func TestServiceBookingUsecase_UpdateStatusAndPrice(t *testing.T) {
	env := newTestEnv(t)
	uc := newServiceBookingUsecase(env)
	ctx := context.Background()

	svc := env.seedService(t, "Dental cleaning", "100")
	patient := env.seedPatient(t, "p@clinic.test")
	booking := env.seedBooking(t, svc.ID, patient.ID, entity.BookingStatusPending)

	t.Run("status only keeps price", func(t *testing.T) {
		got, err := uc.UpdateStatusAndPrice(ctx, env.admin, booking.ID, &dto.UpdateBookingStatusPriceRequest{
			Status: stringPtr("CONFIRMED"),
		})
		require.NoError(t, err)
		assert.Equal(t, "CONFIRMED", got.Status)
		assert.True(t, decimal.NewFromInt(100).Equal(got.TotalPrice))
	})

	t.Run("price string only keeps status", func(t *testing.T) {
		got, err := uc.UpdateStatusAndPrice(ctx, env.admin, booking.ID, &dto.UpdateBookingStatusPriceRequest{
			TotalPrice: json.RawMessage(`"175.25"`),
		})
		require.NoError(t, err)
		assert.Equal(t, "CONFIRMED", got.Status)
		assert.True(t, decimal.RequireFromString("175.25").Equal(got.TotalPrice))
	})

	t.Run("no fields", func(t *testing.T) {
		_, err := uc.UpdateStatusAndPrice(ctx, env.admin, booking.ID, &dto.UpdateBookingStatusPriceRequest{
			TotalPrice: json.RawMessage(`null`),
		})
		assert.ErrorIs(t, err, ErrNoUpdateFields)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := uc.UpdateStatusAndPrice(ctx, env.admin, booking.ID, &dto.UpdateBookingStatusPriceRequest{
			Status: stringPtr("confirmed"),
		})
		assert.ErrorIs(t, err, ErrInvalidStatus)
		assert.EqualError(t, err, "invalid status: confirmed")
	})

	t.Run("price is checked before status", func(t *testing.T) {
		_, err := uc.UpdateStatusAndPrice(ctx, env.admin, booking.ID, &dto.UpdateBookingStatusPriceRequest{
			Status:     stringPtr("DONE"),
			TotalPrice: json.RawMessage(`-5`),
		})
		assert.ErrorIs(t, err, ErrInvalidTotalPrice)
	})

	t.Run("unknown booking", func(t *testing.T) {
		_, err := uc.UpdateStatusAndPrice(ctx, env.admin, 9999, &dto.UpdateBookingStatusPriceRequest{
			Status: stringPtr("COMPLETED"),
		})
		assert.ErrorIs(t, err, ErrServiceBookingNotFound)
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.BookingUpdatesTotal.WithLabelValues("CONFIRMED")))
	assert.Equal(t, int64(2), env.count(t, &entity.AuditLog{}, "action = ?", entity.AuditActionBookingUpdate))
}

func TestServiceBookingUsecase_UpdateStatusAndPrice_SoftDeletedIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	uc := newServiceBookingUsecase(env)
	ctx := context.Background()

	svc := env.seedService(t, "X-ray", "300")
	patient := env.seedPatient(t, "p@clinic.test")
	booking := env.seedBooking(t, svc.ID, patient.ID, entity.BookingStatusPending)

	_, err := uc.DeleteByIDs(ctx, env.admin, []int64{booking.ID})
	require.NoError(t, err)

	_, err = uc.UpdateStatusAndPrice(ctx, env.admin, booking.ID, &dto.UpdateBookingStatusPriceRequest{
		Status: stringPtr("CONFIRMED"),
	})
	assert.ErrorIs(t, err, ErrServiceBookingNotFound)
}

func TestServiceBookingUsecase_GetCallerBookings(t *testing.T) {
	env := newTestEnv(t)
	uc := newServiceBookingUsecase(env)
	ctx := context.Background()

	svc := env.seedService(t, "Consultation", "200")
	alice := env.seedPatient(t, "alice@clinic.test")
	bob := env.seedPatient(t, "bob@clinic.test")
	doctor := env.seedDoctor(t, "doc@clinic.test", "LIC-9")

	aliceBooking := env.seedBooking(t, svc.ID, alice.ID, entity.BookingStatusPending)
	env.seedBooking(t, svc.ID, alice.ID, entity.BookingStatusConfirmed)
	bobBooking := env.seedBooking(t, svc.ID, bob.ID, entity.BookingStatusPending)
	env.seedAppointment(t, bobBooking, doctor.ID)

	t.Run("anonymous", func(t *testing.T) {
		_, err := uc.GetCallerBookings(ctx, nil)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("admin only", func(t *testing.T) {
		_, err := uc.GetCallerBookings(ctx, env.admin)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("patient sees own bookings", func(t *testing.T) {
		got, err := uc.GetCallerBookings(ctx, &entity.Caller{UserID: alice.UserID, Roles: []string{entity.RolePatient}})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, aliceBooking.ID, got[0].ID)
	})

	t.Run("patient without profile", func(t *testing.T) {
		got, err := uc.GetCallerBookings(ctx, &entity.Caller{UserID: 12345, Roles: []string{entity.RolePatient}})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("doctor role wins", func(t *testing.T) {
		got, err := uc.GetCallerBookings(ctx, &entity.Caller{
			UserID: doctor.UserID,
			Roles:  []string{entity.RolePatient, entity.RoleDoctor},
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, bobBooking.ID, got[0].ID)
		require.NotNil(t, got[0].Appointment)
		assert.Equal(t, doctor.ID, got[0].Appointment.DoctorID)
	})
}

func TestServiceBookingUsecase_SaveDefaults(t *testing.T) {
	env := newTestEnv(t)
	uc := newServiceBookingUsecase(env)
	ctx := context.Background()

	svc := env.seedService(t, "Vaccination", "85000")
	patient := env.seedPatient(t, "p@clinic.test")

	got, err := uc.Save(ctx, env.admin, &dto.SaveServiceBookingRequest{ServiceID: svc.ID, PatientID: patient.ID})
	require.NoError(t, err)
	assert.Equal(t, string(entity.BookingStatusPending), got.Status)
	assert.True(t, decimal.NewFromInt(85000).Equal(got.TotalPrice))

	_, err = uc.Save(ctx, env.admin, &dto.SaveServiceBookingRequest{ServiceID: svc.ID, PatientID: 999})
	assert.ErrorIs(t, err, ErrPatientNotFound)

	_, err = uc.Save(ctx, env.admin, &dto.SaveServiceBookingRequest{ServiceID: 999, PatientID: patient.ID})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestServiceBookingUsecase_Cancel(t *testing.T) {
	env := newTestEnv(t)
	uc := newServiceBookingUsecase(env)
	ctx := context.Background()

	svc := env.seedService(t, "Physiotherapy", "120")
	patient := env.seedPatient(t, "p@clinic.test")
	doctor := env.seedDoctor(t, "doc@clinic.test", "LIC-4")
	booking := env.seedBooking(t, svc.ID, patient.ID, entity.BookingStatusConfirmed)
	appointment := env.seedAppointment(t, booking, doctor.ID)

	got, err := uc.Cancel(ctx, env.admin, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.BookingStatusCancelled), got.Status)
	assert.Equal(t, int64(1), env.count(t, &entity.Appointment{}, "id = ? AND status = ?", appointment.ID, entity.AppointmentStatusCancelled))

	_, err = uc.Cancel(ctx, env.admin, booking.ID)
	assert.ErrorIs(t, err, ErrBookingAlreadyCancelled)
}

func TestServiceBookingUsecase_GetByStatus(t *testing.T) {
	env := newTestEnv(t)
	uc := newServiceBookingUsecase(env)
	ctx := context.Background()

	svc := env.seedService(t, "Lab test", "50")
	patient := env.seedPatient(t, "p@clinic.test")
	env.seedBooking(t, svc.ID, patient.ID, entity.BookingStatusPending)
	env.seedBooking(t, svc.ID, patient.ID, entity.BookingStatusCompleted)

	got, err := uc.GetByStatus(ctx, " completed ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, string(entity.BookingStatusCompleted), got[0].Status)

	_, err = uc.GetByStatus(ctx, "unknown")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
