package aml

import (
	"context"
	"fmt"
	"time"

	"localpay/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var validReportTypes = map[string]bool{
	models.CaseTypeCTR: true,
	models.CaseTypeSTR: true,
	models.CaseTypeSAR: true,
}

// CreateReport drafts a CTR/STR report against a case. A CTR report with
// a declared amount below the regulatory threshold is rejected; a report
// without a declared amount is accepted as-is, since the amount may be
// aggregated later during investigation. Drafting a report moves an open
// or investigating case to pending_report; a case in any later state,
// closed included, keeps its status.
func (s *service) CreateReport(ctx context.Context, input CreateReportInput) (*models.AmlReport, error) {
	if !validReportTypes[input.ReportType] {
		return nil, ErrInvalidReportType
	}

	c, err := s.caseRepo.GetByID(ctx, input.CaseID)
	if err != nil {
		return nil, err
	}

	if input.ReportType == models.CaseTypeCTR && input.Amount != nil && *input.Amount < s.cfg.CTRThreshold {
		return nil, &ThresholdViolationError{Threshold: s.cfg.CTRThreshold, Amount: *input.Amount}
	}

	report := &models.AmlReport{
		CaseID:      c.ID,
		ReportType:  input.ReportType,
		ReportData:  input.ReportData,
		Amount:      input.Amount,
		KofiuStatus: models.ReportStatusDraft,
	}
	if err := s.repRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	if c.Status == models.CaseStatusOpen || c.Status == models.CaseStatusInvestigating {
		c.Status = models.CaseStatusPendingReport
		if err := s.caseRepo.Update(ctx, c); err != nil {
			return nil, fmt.Errorf("report %d created but case update failed: %w", report.ID, err)
		}
	}

	s.logger.Info("aml report drafted",
		zap.Uint("report_id", report.ID),
		zap.String("case_number", c.CaseNumber),
		zap.String("report_type", report.ReportType))

	s.auditor.Record(ctx, input.CreatedBy, "aml.report.create", "aml_report", fmt.Sprint(report.ID), models.JSON{
		"case_number": c.CaseNumber,
		"report_type": report.ReportType,
	})
	return report, nil
}

// SubmitReport finalizes a draft. Submission assigns the filing reference
// and timestamp; a report already past draft cannot be resubmitted.
func (s *service) SubmitReport(ctx context.Context, id uint, actorID uint) (*models.AmlReport, error) {
	report, err := s.repRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.KofiuStatus != models.ReportStatusDraft {
		return nil, ErrReportNotDraft
	}

	now := time.Now()
	report.KofiuStatus = models.ReportStatusSubmitted
	report.KofiuReference = fmt.Sprintf("KOFIU-%s", uuid.NewString()[:8])
	report.SubmittedAt = &now
	if err := s.repRepo.Update(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info("aml report submitted",
		zap.Uint("report_id", report.ID),
		zap.String("reference", report.KofiuReference))

	s.auditor.Record(ctx, actorID, "aml.report.submit", "aml_report", fmt.Sprint(report.ID), models.JSON{
		"reference": report.KofiuReference,
	})
	return report, nil
}

func (s *service) GetReport(ctx context.Context, id uint) (*models.AmlReport, error) {
	return s.repRepo.GetByID(ctx, id)
}
