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

func newAttributeUsecase(env *testEnv) AttributeUsecase {
	return NewAttributeUsecase(
		env.db,
		env.log,
		repository.NewAttributeRepository(),
		repository.NewMedicineRepository(),
		env.auditService,
	)
}

func (e *testEnv) lastAuditLog(t *testing.T, action string) *entity.AuditLog {
	t.Helper()

	var auditLog entity.AuditLog
	require.NoError(t, e.db.Where("action = ?", action).Order("id DESC").First(&auditLog).Error)
	return &auditLog
}

func attributeRequest(medicineID int64, name, price string) *dto.SaveAttributeRequest {
	return &dto.SaveAttributeRequest{
		MedicineID: medicineID,
		Name:       name,
		Stock:      3,
		PriceIn:    decimal.RequireFromString("1"),
		PriceOut:   decimal.RequireFromString(price),
	}
}

func TestAttributeUsecase_Save(t *testing.T) {
	env := newTestEnv(t)
	uc := newAttributeUsecase(env)
	ctx := context.Background()

	medicine, err := newMedicineUsecase(env).SaveWithDetails(ctx, env.admin, medicineRequest("Ibuprofen"), nil, nil, nil)
	require.NoError(t, err)
	medicineID := medicine.Medicine.ID

	created, err := uc.Save(ctx, env.admin, attributeRequest(medicineID, " Box of 10 ", "9000"))
	require.NoError(t, err)
	assert.Equal(t, "Box of 10", created.Name)
	assert.Equal(t, medicineID, created.MedicineID)

	createLog := env.lastAuditLog(t, entity.AuditActionAttributeSave)
	assert.Nil(t, createLog.Metadata["old_value"])

	req := attributeRequest(medicineID, "Box of 20", "17000")
	req.ID = created.ID
	updated, err := uc.Save(ctx, env.admin, req)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, decimal.RequireFromString("17000").Equal(updated.PriceOut))

	updateLog := env.lastAuditLog(t, entity.AuditActionAttributeSave)
	assert.NotEqual(t, createLog.ID, updateLog.ID)
	old, ok := updateLog.Metadata["old_value"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Box of 10", old["name"])

	got, err := uc.GetByMedicineID(ctx, medicineID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Box of 20", got[0].Name)
}

func TestAttributeUsecase_SaveRejects(t *testing.T) {
	env := newTestEnv(t)
	uc := newAttributeUsecase(env)
	ctx := context.Background()

	medicine, err := newMedicineUsecase(env).SaveWithDetails(ctx, env.admin, medicineRequest("Cetirizine"), nil, nil, nil)
	require.NoError(t, err)
	medicineID := medicine.Medicine.ID

	unknownID := attributeRequest(medicineID, "Strip", "100")
	unknownID.ID = 999

	badDate := attributeRequest(medicineID, "Strip", "100")
	badDate.ExpiryDate = stringPtr("31/12/2027")

	tests := []struct {
		name    string
		req     *dto.SaveAttributeRequest
		wantErr error
	}{
		{name: "no medicine", req: attributeRequest(0, "Strip", "100"), wantErr: ErrAttributeMedicineMiss},
		{name: "unknown medicine", req: attributeRequest(999, "Strip", "100"), wantErr: ErrMedicineNotFound},
		{name: "unknown attribute id", req: unknownID, wantErr: ErrAttributeNotFound},
		{name: "bad expiry date", req: badDate, wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Save(ctx, env.admin, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, int64(0), env.count(t, &entity.Attribute{}, "medicine_id = ?", medicineID))
}

func TestAttributeUsecase_DeleteByIDs(t *testing.T) {
	env := newTestEnv(t)
	uc := newAttributeUsecase(env)
	ctx := context.Background()

	medicine, err := newMedicineUsecase(env).SaveWithDetails(ctx, env.admin, medicineRequest("Loratadine", "500", "900"), nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, medicine.Attributes, 2)
	first := medicine.Attributes[0].ID

	result, err := uc.DeleteByIDs(ctx, env.admin, []int64{first, first, 999})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, []int64{999}, result.NotFound)

	_, err = uc.GetByID(ctx, first)
	assert.ErrorIs(t, err, ErrAttributeNotFound)

	all, err := uc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, medicine.Attributes[1].ID, all[0].ID)
}

func TestAttributeUsecase_GetByMedicineID_DeletedMedicine(t *testing.T) {
	env := newTestEnv(t)
	uc := newAttributeUsecase(env)
	medicines := newMedicineUsecase(env)
	ctx := context.Background()

	medicine, err := medicines.SaveWithDetails(ctx, env.admin, medicineRequest("Omeprazole", "3000"), nil, nil, nil)
	require.NoError(t, err)

	got, err := uc.GetByMedicineID(ctx, medicine.Medicine.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = medicines.DeleteByIDs(ctx, env.admin, []int64{medicine.Medicine.ID})
	require.NoError(t, err)

	_, err = uc.GetByMedicineID(ctx, medicine.Medicine.ID)
	assert.ErrorIs(t, err, ErrMedicineNotFound)

	_, err = uc.Save(ctx, env.admin, attributeRequest(medicine.Medicine.ID, "Strip", "100"))
	assert.ErrorIs(t, err, ErrMedicineNotFound)
}
