package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"localpay/internal/models"
	"localpay/internal/repositories"
	"localpay/internal/services/aml"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockAmlService struct {
	mock.Mock
}

func (m *MockAmlService) ScreenSubject(ctx context.Context, subjectType string, subjectID uint, actorID uint) (*aml.ScreeningResult, error) {
	args := m.Called(ctx, subjectType, subjectID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*aml.ScreeningResult), args.Error(1)
}

func (m *MockAmlService) CreateCase(ctx context.Context, input aml.CreateCaseInput) (*models.AmlCase, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AmlCase), args.Error(1)
}

func (m *MockAmlService) GetCase(ctx context.Context, id uint) (*models.AmlCase, []models.AmlReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.AmlCase), args.Get(1).([]models.AmlReport), args.Error(2)
}

func (m *MockAmlService) ListCases(ctx context.Context, filter repositories.CaseFilter, limit, offset int) ([]models.AmlCase, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	return args.Get(0).([]models.AmlCase), args.Get(1).(int64), args.Error(2)
}

func (m *MockAmlService) UpdateCaseStatus(ctx context.Context, id uint, status string, actorID uint) (*models.AmlCase, error) {
	args := m.Called(ctx, id, status, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AmlCase), args.Error(1)
}

func (m *MockAmlService) AssignInvestigator(ctx context.Context, id uint, investigatorID, actorID uint) (*models.AmlCase, error) {
	args := m.Called(ctx, id, investigatorID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AmlCase), args.Error(1)
}

func (m *MockAmlService) RecordFindings(ctx context.Context, id uint, findings string, actorID uint) (*models.AmlCase, error) {
	args := m.Called(ctx, id, findings, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AmlCase), args.Error(1)
}

func (m *MockAmlService) MarkReported(ctx context.Context, id uint, reference string, actorID uint) (*models.AmlCase, error) {
	args := m.Called(ctx, id, reference, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AmlCase), args.Error(1)
}

func (m *MockAmlService) CountOpenCases(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockAmlService) CreateReport(ctx context.Context, input aml.CreateReportInput) (*models.AmlReport, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AmlReport), args.Error(1)
}

func (m *MockAmlService) SubmitReport(ctx context.Context, id uint, actorID uint) (*models.AmlReport, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AmlReport), args.Error(1)
}

func (m *MockAmlService) GetReport(ctx context.Context, id uint) (*models.AmlReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AmlReport), args.Error(1)
}

func newCaseTestApp(svc aml.Service) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("claims", &models.UserClaims{UserID: 9})
		return c.Next()
	})
	h := NewAmlHandler(svc)
	app.Put("/cases/:id/status", h.UpdateCaseStatus)
	return app
}

func TestUpdateCaseStatus_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "missing case", serviceErr: gorm.ErrRecordNotFound, wantStatus: fiber.StatusNotFound},
		{name: "closed case", serviceErr: aml.ErrCaseClosed, wantStatus: fiber.StatusConflict},
		{
			name:       "illegal transition",
			serviceErr: fmt.Errorf("%w: open -> reported", aml.ErrInvalidTransition),
			wantStatus: fiber.StatusConflict,
		},
		{name: "storage failure", serviceErr: errors.New("connection reset"), wantStatus: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAmlService)
			svc.On("UpdateCaseStatus", mock.Anything, uint(1), models.CaseStatusClosed, uint(9)).
				Return(nil, tt.serviceErr)

			app := newCaseTestApp(svc)
			req := httptest.NewRequest(fiber.MethodPut, "/cases/1/status",
				strings.NewReader(`{"status":"closed"}`))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
