package fds

import (
	"context"
	"strconv"

	"localpay/internal/models"
	"localpay/internal/repositories"
)

var validAlertStatuses = map[string]bool{
	models.AlertStatusNew:           true,
	models.AlertStatusInvestigating: true,
	models.AlertStatusResolved:      true,
	models.AlertStatusFalsePositive: true,
	models.AlertStatusEscalated:     true,
}

func (s *service) GetAlert(ctx context.Context, id uint) (*models.Alert, error) {
	return s.alerts.GetByID(ctx, id)
}

func (s *service) ListAlerts(ctx context.Context, filter repositories.AlertFilter, limit, offset int) ([]models.Alert, int64, error) {
	return s.alerts.List(ctx, filter, limit, offset)
}

func (s *service) UpdateAlertStatus(ctx context.Context, id uint, status, notes string, actorID uint) (*models.Alert, error) {
	if !validAlertStatuses[status] {
		return nil, ErrInvalidAlertStatus
	}

	alert, err := s.alerts.UpdateStatus(ctx, id, status, notes)
	if err != nil {
		return nil, err
	}
	s.invalidateScore(ctx, alert.TargetType, alert.TargetID)

	if s.auditor != nil {
		s.auditor.Record(ctx, actorID, "fds.alert.status", "alert", strconv.FormatUint(uint64(id), 10), models.JSON{
			"status": status,
		})
	}
	return alert, nil
}

func (s *service) AssignAlert(ctx context.Context, id uint, staffID, actorID uint) error {
	if err := s.alerts.Assign(ctx, id, staffID); err != nil {
		return err
	}
	if s.auditor != nil {
		s.auditor.Record(ctx, actorID, "fds.alert.assign", "alert", strconv.FormatUint(uint64(id), 10), models.JSON{
			"assigned_to": staffID,
		})
	}
	return nil
}

func (s *service) CountOpenAlerts(ctx context.Context) (map[string]int64, error) {
	return s.alerts.CountOpenBySeverity(ctx)
}
