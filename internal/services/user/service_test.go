package user

import (
	"context"
	"testing"
	"time"

	"localpay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) IncrementTokenVersion(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepo) GetTokenVersion(ctx context.Context, userID uint) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type MockTxRepo struct {
	mock.Mock
}

func (m *MockTxRepo) Create(ctx context.Context, tx *models.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTxRepo) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTxRepo) ListBySubject(ctx context.Context, subjectType string, subjectID uint, since *time.Time, limit int) ([]models.Transaction, error) {
	args := m.Called(ctx, subjectType, subjectID, since, limit)
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockTxRepo) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTxRepo) CountByUserSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTxRepo) GetSubjectStats(ctx context.Context, subjectType string, subjectID uint) (*models.TransactionStats, error) {
	args := m.Called(ctx, subjectType, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TransactionStats), args.Error(1)
}

type MockKYCRepo struct {
	mock.Mock
}

func (m *MockKYCRepo) Create(ctx context.Context, kyc *models.KYCVerification) error {
	args := m.Called(ctx, kyc)
	return args.Error(0)
}

func (m *MockKYCRepo) Update(ctx context.Context, kyc *models.KYCVerification) error {
	args := m.Called(ctx, kyc)
	return args.Error(0)
}

func (m *MockKYCRepo) GetLatestByUser(ctx context.Context, userID uint) (*models.KYCVerification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KYCVerification), args.Error(1)
}

func TestService_SubmitKYC(t *testing.T) {
	t.Run("stores a pending submission", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		kycRepo := new(MockKYCRepo)
		userRepo.On("GetByID", mock.Anything, uint(7)).Return(&models.User{
			Model:     gorm.Model{ID: 7},
			KYCStatus: models.KYCStatusPending,
		}, nil)
		kycRepo.On("Create", mock.Anything, mock.MatchedBy(func(k *models.KYCVerification) bool {
			return k.UserID == 7 && k.Status == models.KYCStatusPending && k.DocumentID == "RRN-820101"
		})).Return(nil)

		svc := NewService(userRepo, new(MockTxRepo), kycRepo)
		kyc, err := svc.SubmitKYC(context.Background(), 7, KYCInput{DocumentID: "RRN-820101"})
		assert.NoError(t, err)
		assert.Equal(t, models.KYCStatusPending, kyc.Status)
		// Already pending, so the user row is untouched.
		userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("resubmission after rejection resets the user flag", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		kycRepo := new(MockKYCRepo)
		userRepo.On("GetByID", mock.Anything, uint(7)).Return(&models.User{
			Model:     gorm.Model{ID: 7},
			KYCStatus: models.KYCStatusRejected,
		}, nil)
		kycRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.KYCStatus == models.KYCStatusPending
		})).Return(nil)

		svc := NewService(userRepo, new(MockTxRepo), kycRepo)
		_, err := svc.SubmitKYC(context.Background(), 7, KYCInput{DocumentID: "RRN-820101"})
		assert.NoError(t, err)
		userRepo.AssertExpectations(t)
	})

	t.Run("missing document", func(t *testing.T) {
		svc := NewService(new(MockUserRepo), new(MockTxRepo), new(MockKYCRepo))
		_, err := svc.SubmitKYC(context.Background(), 7, KYCInput{})
		assert.Error(t, err)
	})
}

func TestService_SetKYCStatus(t *testing.T) {
	t.Run("stamps the user and the latest submission", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		kycRepo := new(MockKYCRepo)
		userRepo.On("GetByID", mock.Anything, uint(7)).Return(&models.User{
			Model:     gorm.Model{ID: 7},
			KYCStatus: models.KYCStatusPending,
		}, nil)
		userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.KYCStatus == models.KYCStatusVerified
		})).Return(nil)
		kycRepo.On("GetLatestByUser", mock.Anything, uint(7)).Return(&models.KYCVerification{
			UserID: 7,
			Status: models.KYCStatusPending,
		}, nil)
		kycRepo.On("Update", mock.Anything, mock.MatchedBy(func(k *models.KYCVerification) bool {
			return k.Status == models.KYCStatusVerified && k.ReviewedBy != nil && *k.ReviewedBy == 9
		})).Return(nil)

		svc := NewService(userRepo, new(MockTxRepo), kycRepo)
		u, err := svc.SetKYCStatus(context.Background(), 7, models.KYCStatusVerified, 9)
		assert.NoError(t, err)
		assert.Equal(t, models.KYCStatusVerified, u.KYCStatus)
		kycRepo.AssertExpectations(t)
	})

	t.Run("no submission row to stamp", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		kycRepo := new(MockKYCRepo)
		userRepo.On("GetByID", mock.Anything, uint(7)).Return(&models.User{
			Model:     gorm.Model{ID: 7},
			KYCStatus: models.KYCStatusPending,
		}, nil)
		userRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		kycRepo.On("GetLatestByUser", mock.Anything, uint(7)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewService(userRepo, new(MockTxRepo), kycRepo)
		_, err := svc.SetKYCStatus(context.Background(), 7, models.KYCStatusRejected, 9)
		assert.NoError(t, err)
		kycRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc := NewService(new(MockUserRepo), new(MockTxRepo), new(MockKYCRepo))
		_, err := svc.SetKYCStatus(context.Background(), 7, "approved", 9)
		assert.Error(t, err)
	})
}
