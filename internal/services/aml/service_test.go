package aml

import (
	"context"
	"testing"
	"time"

	"localpay/internal/config"
	"localpay/internal/models"
	"localpay/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

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

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
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

func (m *MockUserRepo) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
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

type MockMerchantRepo struct {
	mock.Mock
}

func (m *MockMerchantRepo) Create(ctx context.Context, merchant *models.Merchant) error {
	args := m.Called(ctx, merchant)
	return args.Error(0)
}

func (m *MockMerchantRepo) GetByID(ctx context.Context, id uint) (*models.Merchant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Merchant), args.Error(1)
}

func (m *MockMerchantRepo) GetByUserID(ctx context.Context, userID uint) (*models.Merchant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Merchant), args.Error(1)
}

func (m *MockMerchantRepo) Update(ctx context.Context, merchant *models.Merchant) error {
	args := m.Called(ctx, merchant)
	return args.Error(0)
}

type MockCaseRepo struct {
	mock.Mock
}

func (m *MockCaseRepo) Create(ctx context.Context, c *models.AmlCase) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCaseRepo) Update(ctx context.Context, c *models.AmlCase) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCaseRepo) GetByID(ctx context.Context, id uint) (*models.AmlCase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AmlCase), args.Error(1)
}

func (m *MockCaseRepo) List(ctx context.Context, filter repositories.CaseFilter, limit, offset int) ([]models.AmlCase, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	return args.Get(0).([]models.AmlCase), args.Get(1).(int64), args.Error(2)
}

func (m *MockCaseRepo) ListOpenBySubject(ctx context.Context, subjectType string, subjectID uint) ([]models.AmlCase, error) {
	args := m.Called(ctx, subjectType, subjectID)
	return args.Get(0).([]models.AmlCase), args.Error(1)
}

func (m *MockCaseRepo) CountOpenByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int64), args.Error(1)
}

type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) Create(ctx context.Context, report *models.AmlReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepo) Update(ctx context.Context, report *models.AmlReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepo) GetByID(ctx context.Context, id uint) (*models.AmlReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AmlReport), args.Error(1)
}

func (m *MockReportRepo) ListByCase(ctx context.Context, caseID uint) ([]models.AmlReport, error) {
	args := m.Called(ctx, caseID)
	return args.Get(0).([]models.AmlReport), args.Error(1)
}

type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) Record(ctx context.Context, actorID uint, action, entityType, entityID string, details models.JSON) {
	m.Called(ctx, actorID, action, entityType, entityID, details)
}

type testMocks struct {
	tx       *MockTxRepo
	user     *MockUserRepo
	merchant *MockMerchantRepo
	cases    *MockCaseRepo
	reports  *MockReportRepo
	auditor  *MockAuditor
}

func newTestMocks() *testMocks {
	m := &testMocks{
		tx:       new(MockTxRepo),
		user:     new(MockUserRepo),
		merchant: new(MockMerchantRepo),
		cases:    new(MockCaseRepo),
		reports:  new(MockReportRepo),
		auditor:  new(MockAuditor),
	}
	m.auditor.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	return m
}

func (m *testMocks) service() Service {
	cfg := config.ComplianceConfig{CTRThreshold: 10_000_000, STRThreshold: 5_000_000}
	return NewService(cfg, m.tx, m.user, m.merchant, m.cases, m.reports, m.auditor, nil, nil)
}

type MockScoreCache struct {
	mock.Mock
}

func (m *MockScoreCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *testMocks) serviceWithCache(scoreCache ScoreCacheInvalidator) Service {
	cfg := config.ComplianceConfig{CTRThreshold: 10_000_000, STRThreshold: 5_000_000}
	return NewService(cfg, m.tx, m.user, m.merchant, m.cases, m.reports, m.auditor, scoreCache, nil)
}

func TestService_ScreenSubject_User(t *testing.T) {
	m := newTestMocks()
	m.user.On("GetByID", mock.Anything, uint(7)).Return(&models.User{
		KYCStatus: models.KYCStatusPending,
	}, nil)
	m.tx.On("ListBySubject", mock.Anything, "user", uint(7), (*time.Time)(nil), 0).
		Return([]models.Transaction{}, nil)
	m.cases.On("ListOpenBySubject", mock.Anything, "user", uint(7)).
		Return([]models.AmlCase{{CaseNumber: "AML-2026-000001"}}, nil)

	result, err := m.service().ScreenSubject(context.Background(), "user", 7, 9)
	assert.NoError(t, err)
	assert.Equal(t, "user", result.SubjectType)
	assert.Equal(t, uint(7), result.SubjectID)
	// Empty history but unverified identity still registers.
	assert.Equal(t, 10, result.RiskScore)
	assert.Len(t, result.ExistingCases, 1)
}

func TestService_ScreenSubject_VerifiedMerchant(t *testing.T) {
	m := newTestMocks()
	m.merchant.On("GetByID", mock.Anything, uint(3)).Return(&models.Merchant{
		VerificationStatus: models.MerchantStatusVerified,
	}, nil)
	m.tx.On("ListBySubject", mock.Anything, "merchant", uint(3), (*time.Time)(nil), 0).
		Return([]models.Transaction{}, nil)
	m.cases.On("ListOpenBySubject", mock.Anything, "merchant", uint(3)).
		Return([]models.AmlCase{}, nil)

	result, err := m.service().ScreenSubject(context.Background(), "merchant", 3, 9)
	assert.NoError(t, err)
	assert.Equal(t, 0, result.RiskScore)
	assert.Equal(t, "low", result.RiskLevel)
}

func TestService_ScreenSubject_InvalidType(t *testing.T) {
	m := newTestMocks()
	_, err := m.service().ScreenSubject(context.Background(), "wallet", 1, 9)
	assert.ErrorIs(t, err, ErrInvalidSubjectType)
}
