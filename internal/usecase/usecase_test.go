package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/storage"
	"clinic-backend/internal/repository"
	"clinic-backend/internal/service"
	"clinic-backend/pkg/metrics"

	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errStorageDown = errors.New("storage unavailable")

// fakeStorage records uploads and deletes. failOnUpload makes the n-th
// upload (1-based) fail.
type fakeStorage struct {
	uploads      int
	failOnUpload int
	failDelete   bool
	uploaded     []string
	deleted      []string
}

func (f *fakeStorage) Upload(ctx context.Context, file *storage.File) (string, error) {
	f.uploads++
	if f.uploads == f.failOnUpload {
		return "", errStorageDown
	}
	url := fmt.Sprintf("https://cdn.clinic.test/%d-%s", f.uploads, file.Name)
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeStorage) Delete(ctx context.Context, url string) error {
	if f.failDelete {
		return errStorageDown
	}
	f.deleted = append(f.deleted, url)
	return nil
}

type testEnv struct {
	db           *gorm.DB
	log          *logrus.Logger
	metrics      *metrics.Collector
	storage      *fakeStorage
	auditService service.AuditService
	mediaService service.MediaService
	admin        *entity.Caller
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.DoctorProfile{},
		&entity.PatientProfile{},
		&entity.Brand{},
		&entity.Category{},
		&entity.Medicine{},
		&entity.Attribute{},
		&entity.MedicineCategory{},
		&entity.MedicineMedia{},
		&entity.Service{},
		&entity.DoctorService{},
		&entity.ServiceBooking{},
		&entity.Appointment{},
		&entity.Consultation{},
		&entity.Prescription{},
		&entity.AuditLog{},
	))

	for _, role := range []entity.Role{
		{ID: entity.RoleIDAdmin, RoleName: entity.RoleAdmin},
		{ID: entity.RoleIDDoctor, RoleName: entity.RoleDoctor},
		{ID: entity.RoleIDPatient, RoleName: entity.RolePatient},
	} {
		role := role
		require.NoError(t, db.Create(&role).Error)
	}
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	db := newTestDB(t)
	collector := metrics.NewCollector("clinic_test", prometheus.NewRegistry())
	store := &fakeStorage{}

	env := &testEnv{
		db:           db,
		log:          log,
		metrics:      collector,
		storage:      store,
		auditService: service.NewAuditService(log, repository.NewAuditLogRepository(), collector),
		mediaService: service.NewMediaService(store, log, collector),
	}

	admin := env.seedUser(t, "admin@clinic.test", entity.RoleIDAdmin)
	env.admin = &entity.Caller{UserID: admin.ID, Email: admin.Email, Roles: []string{entity.RoleAdmin}}
	return env
}

func (e *testEnv) seedUser(t *testing.T, email string, roleID int) *entity.User {
	t.Helper()

	user := &entity.User{
		Email:    email,
		Password: "hashed",
		FullName: strings.Split(email, "@")[0],
		IsActive: true,
	}
	require.NoError(t, e.db.Create(user).Error)
	require.NoError(t, e.db.Exec("INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)", user.ID, roleID).Error)
	return user
}

func (e *testEnv) seedDoctor(t *testing.T, email, license string) *entity.DoctorProfile {
	t.Helper()

	user := e.seedUser(t, email, entity.RoleIDDoctor)
	doctor := &entity.DoctorProfile{UserID: user.ID, LicenseNumber: license, Specialization: "General"}
	require.NoError(t, e.db.Omit("User").Create(doctor).Error)
	return doctor
}

func (e *testEnv) seedPatient(t *testing.T, email string) *entity.PatientProfile {
	t.Helper()

	user := e.seedUser(t, email, entity.RoleIDPatient)
	patient := &entity.PatientProfile{UserID: user.ID}
	require.NoError(t, e.db.Omit("User").Create(patient).Error)
	return patient
}

func (e *testEnv) seedCategory(t *testing.T, name string) *entity.Category {
	t.Helper()

	category := &entity.Category{Name: name}
	require.NoError(t, e.db.Create(category).Error)
	return category
}

func (e *testEnv) seedService(t *testing.T, name string, price string) *entity.Service {
	t.Helper()

	svc := &entity.Service{Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, e.db.Create(svc).Error)
	return svc
}

func (e *testEnv) seedBooking(t *testing.T, serviceID, patientID int64, status entity.BookingStatus) *entity.ServiceBooking {
	t.Helper()

	booking := &entity.ServiceBooking{
		ServiceID:  serviceID,
		PatientID:  patientID,
		Status:     status,
		TotalPrice: decimal.RequireFromString("100"),
	}
	require.NoError(t, e.db.Omit("Service", "Patient", "Appointment").Create(booking).Error)
	return booking
}

func (e *testEnv) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, e.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func imageFile(name string) *storage.File {
	return &storage.File{Name: name, ContentType: "image/png", Size: 4, Content: strings.NewReader("data")}
}

func intPtr(v int) *int {
	return &v
}

func int64Ptr(v int64) *int64 {
	return &v
}

func stringPtr(v string) *string {
	return &v
}
