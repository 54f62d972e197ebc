package usecase

import (
	"context"
	"testing"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServiceUsecase(env *testEnv) ServiceUsecase {
	return NewServiceUsecase(
		env.db,
		env.log,
		repository.NewServiceRepository(),
		repository.NewDoctorServiceRepository(),
		repository.NewDoctorProfileRepository(),
		env.mediaService,
		env.auditService,
	)
}

func serviceRequest(id int64, doctorIDs ...int64) *dto.SaveServiceRequest {
	return &dto.SaveServiceRequest{
		ID:        id,
		Name:      "General check-up",
		Price:     decimal.RequireFromString("150000"),
		DoctorIDs: doctorIDs,
	}
}

func linkedDoctorIDs(links []dto.DoctorServiceResponse) []int64 {
	ids := make([]int64, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.DoctorID)
	}
	return ids
}

func TestServiceUsecase_SaveWithDoctors_Reconciles(t *testing.T) {
	env := newTestEnv(t)
	uc := newServiceUsecase(env)
	ctx := context.Background()

	d1 := env.seedDoctor(t, "d1@clinic.test", "LIC-1")
	d2 := env.seedDoctor(t, "d2@clinic.test", "LIC-2")
	d3 := env.seedDoctor(t, "d3@clinic.test", "LIC-3")

	created, err := uc.SaveWithDoctors(ctx, env.admin, serviceRequest(0, d1.ID, d2.ID), nil)
	require.NoError(t, err)
	serviceID := created.Service.ID
	assert.ElementsMatch(t, []int64{d1.ID, d2.ID}, linkedDoctorIDs(created.DoctorServices))

	// d1 dropped, d3 added
	updated, err := uc.SaveWithDoctors(ctx, env.admin, serviceRequest(serviceID, d2.ID, d3.ID), nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{d2.ID, d3.ID}, linkedDoctorIDs(updated.DoctorServices))
	assert.Equal(t, int64(1), env.count(t, &entity.DoctorService{}, "doctor_id = ? AND is_deleted = ?", d1.ID, true))

	// d1 comes back: the soft-deleted row is restored, not duplicated
	restored, err := uc.SaveWithDoctors(ctx, env.admin, serviceRequest(serviceID, d1.ID, d2.ID, d3.ID, d1.ID), nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{d1.ID, d2.ID, d3.ID}, linkedDoctorIDs(restored.DoctorServices))
	assert.Equal(t, int64(3), env.count(t, &entity.DoctorService{}, "service_id = ?", serviceID))

	ids, err := uc.GetDoctorIDs(ctx, serviceID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{d1.ID, d2.ID, d3.ID}, ids)
}

func TestServiceUsecase_SaveWithDoctors_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	uc := newServiceUsecase(env)
	ctx := context.Background()

	d1 := env.seedDoctor(t, "d1@clinic.test", "LIC-1")

	created, err := uc.SaveWithDoctors(ctx, env.admin, serviceRequest(0, d1.ID), nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := uc.SaveWithDoctors(ctx, env.admin, serviceRequest(created.Service.ID, d1.ID), nil)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), env.count(t, &entity.DoctorService{}, "service_id = ?", created.Service.ID))
}

func TestServiceUsecase_SaveWithDoctors_UnknownDoctorRollsBack(t *testing.T) {
	env := newTestEnv(t)
	uc := newServiceUsecase(env)

	_, err := uc.SaveWithDoctors(context.Background(), env.admin, serviceRequest(0, 404), imageFile("service.png"))
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	assert.Equal(t, int64(0), env.count(t, &entity.Service{}, "1 = 1"))
	require.Len(t, env.storage.uploaded, 1)
	assert.Equal(t, env.storage.uploaded, env.storage.deleted)
}

func TestServiceUsecase_SaveWithDoctors_ReplacesImage(t *testing.T) {
	env := newTestEnv(t)
	uc := newServiceUsecase(env)
	ctx := context.Background()

	created, err := uc.SaveWithDoctors(ctx, env.admin, serviceRequest(0), imageFile("old.png"))
	require.NoError(t, err)
	oldImage := created.Service.Image
	require.NotEmpty(t, oldImage)

	updated, err := uc.SaveWithDoctors(ctx, env.admin, serviceRequest(created.Service.ID), imageFile("new.png"))
	require.NoError(t, err)
	assert.NotEqual(t, oldImage, updated.Service.Image)
	assert.Equal(t, []string{oldImage}, env.storage.deleted)

	// no file keeps the current image
	kept, err := uc.SaveWithDoctors(ctx, env.admin, serviceRequest(created.Service.ID), nil)
	require.NoError(t, err)
	assert.Equal(t, updated.Service.Image, kept.Service.Image)
}

func TestServiceUsecase_SaveWithDoctors_OldImageDeleteFailureKeepsSave(t *testing.T) {
	env := newTestEnv(t)
	uc := newServiceUsecase(env)
	ctx := context.Background()

	created, err := uc.SaveWithDoctors(ctx, env.admin, serviceRequest(0), imageFile("old.png"))
	require.NoError(t, err)

	env.storage.failDelete = true
	req := serviceRequest(created.Service.ID)
	req.Name = "Renamed"
	updated, err := uc.SaveWithDoctors(ctx, env.admin, req, imageFile("new.png"))
	require.NoError(t, err)

	current, err := uc.GetByID(ctx, created.Service.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", current.Name)
	assert.Equal(t, updated.Service.Image, current.Image)
	assert.NotEqual(t, created.Service.Image, current.Image)
	assert.Empty(t, env.storage.deleted)
}

func TestServiceUsecase_SaveWithDoctors_FailureKeepsOldImage(t *testing.T) {
	env := newTestEnv(t)
	uc := newServiceUsecase(env)
	ctx := context.Background()

	created, err := uc.SaveWithDoctors(ctx, env.admin, serviceRequest(0), imageFile("old.png"))
	require.NoError(t, err)

	_, err = uc.SaveWithDoctors(ctx, env.admin, serviceRequest(created.Service.ID, 999), imageFile("new.png"))
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	current, err := uc.GetByID(ctx, created.Service.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Service.Image, current.Image)

	// only the rejected upload is removed from storage
	require.Len(t, env.storage.uploaded, 2)
	assert.Equal(t, []string{env.storage.uploaded[1]}, env.storage.deleted)
}

func TestServiceUsecase_DeleteByIDs_HidesService(t *testing.T) {
	env := newTestEnv(t)
	uc := newServiceUsecase(env)
	ctx := context.Background()

	d1 := env.seedDoctor(t, "d1@clinic.test", "LIC-1")
	created, err := uc.SaveWithDoctors(ctx, env.admin, serviceRequest(0, d1.ID), nil)
	require.NoError(t, err)

	result, err := uc.DeleteByIDs(ctx, env.admin, []int64{created.Service.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)

	_, err = uc.GetByID(ctx, created.Service.ID)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = uc.GetDoctorIDs(ctx, created.Service.ID)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	found, err := uc.FindByName(ctx, "check")
	require.NoError(t, err)
	assert.Empty(t, found)
}
