package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"localpay/internal/models"
	"localpay/internal/repositories"
	"localpay/internal/services/fds"
	"localpay/internal/services/risk"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFdsService struct {
	mock.Mock
}

func (m *MockFdsService) EvaluateTransaction(ctx context.Context, tx *models.Transaction) (*fds.Evaluation, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fds.Evaluation), args.Error(1)
}

func (m *MockFdsService) CreateRule(ctx context.Context, input fds.RuleInput, actorID uint) (*models.DetectionRule, error) {
	args := m.Called(ctx, input, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DetectionRule), args.Error(1)
}

func (m *MockFdsService) UpdateRule(ctx context.Context, id uint, input fds.RuleInput, actorID uint) (*models.DetectionRule, error) {
	args := m.Called(ctx, id, input, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DetectionRule), args.Error(1)
}

func (m *MockFdsService) SetRuleEnabled(ctx context.Context, id uint, enabled bool, actorID uint) error {
	args := m.Called(ctx, id, enabled, actorID)
	return args.Error(0)
}

func (m *MockFdsService) GetRule(ctx context.Context, id uint) (*models.DetectionRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DetectionRule), args.Error(1)
}

func (m *MockFdsService) ListRules(ctx context.Context, limit, offset int) ([]models.DetectionRule, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.DetectionRule), args.Get(1).(int64), args.Error(2)
}

func (m *MockFdsService) GetAlert(ctx context.Context, id uint) (*models.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Alert), args.Error(1)
}

func (m *MockFdsService) ListAlerts(ctx context.Context, filter repositories.AlertFilter, limit, offset int) ([]models.Alert, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	return args.Get(0).([]models.Alert), args.Get(1).(int64), args.Error(2)
}

func (m *MockFdsService) UpdateAlertStatus(ctx context.Context, id uint, status, notes string, actorID uint) (*models.Alert, error) {
	args := m.Called(ctx, id, status, notes, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Alert), args.Error(1)
}

func (m *MockFdsService) AssignAlert(ctx context.Context, id uint, staffID, actorID uint) error {
	args := m.Called(ctx, id, staffID, actorID)
	return args.Error(0)
}

func (m *MockFdsService) CountOpenAlerts(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int64), args.Error(1)
}

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, actorID uint, action, entityType, entityID string, details models.JSON) {
	m.Called(ctx, actorID, action, entityType, entityID, details)
}

func (m *MockAuditService) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.AuditLog), args.Error(1)
}

func (m *MockAuditService) ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]models.AuditLog, error) {
	args := m.Called(ctx, entityType, entityID, limit)
	return args.Get(0).([]models.AuditLog), args.Error(1)
}

type MockRiskService struct {
	mock.Mock
}

func (m *MockRiskService) ScoreSubject(ctx context.Context, subjectType string, subjectID uint) (*risk.CompositeRisk, error) {
	args := m.Called(ctx, subjectType, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*risk.CompositeRisk), args.Error(1)
}

func TestGetDashboard(t *testing.T) {
	fdsSvc := new(MockFdsService)
	amlSvc := new(MockAmlService)
	fdsSvc.On("CountOpenAlerts", mock.Anything).Return(map[string]int64{"high": 2}, nil)
	amlSvc.On("CountOpenCases", mock.Anything).Return(map[string]int64{"open": 1}, nil)
	fdsSvc.On("ListAlerts", mock.Anything, repositories.AlertFilter{}, recentAlertCount, 0).
		Return([]models.Alert{
			{ID: 12, AlertType: "amount_anomaly", Severity: models.SeverityHigh},
			{ID: 11, AlertType: "velocity", Severity: models.SeverityMedium},
		}, int64(2), nil)

	h := NewRiskHandler(new(MockRiskService), fdsSvc, amlSvc, new(MockAuditService))
	app := fiber.New()
	app.Get("/dashboard", h.GetDashboard)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/dashboard", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	var body struct {
		OpenAlertsBySeverity map[string]int64 `json:"open_alerts_by_severity"`
		OpenCasesByStatus    map[string]int64 `json:"open_cases_by_status"`
		RecentAlerts         []models.Alert   `json:"recent_alerts"`
	}
	assert.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, int64(2), body.OpenAlertsBySeverity["high"])
	assert.Equal(t, int64(1), body.OpenCasesByStatus["open"])
	assert.Len(t, body.RecentAlerts, 2)
	assert.Equal(t, uint(12), body.RecentAlerts[0].ID)
}
