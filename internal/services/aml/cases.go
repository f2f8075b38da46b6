package aml

import (
	"context"
	"fmt"
	"time"

	"localpay/internal/models"
	"localpay/internal/repositories"

	"go.uber.org/zap"
)

// caseTransitions lists the legal forward moves of the case state machine.
// Closing is reachable from any non-closed status; closed is terminal.
var caseTransitions = map[string][]string{
	models.CaseStatusOpen:          {models.CaseStatusInvestigating, models.CaseStatusClosed},
	models.CaseStatusInvestigating: {models.CaseStatusPendingReport, models.CaseStatusClosed},
	models.CaseStatusPendingReport: {models.CaseStatusReported, models.CaseStatusClosed},
	models.CaseStatusReported:      {models.CaseStatusClosed},
}

func transitionAllowed(from, to string) bool {
	for _, next := range caseTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

var validCaseTypes = map[string]bool{
	models.CaseTypeCTR:                true,
	models.CaseTypeSTR:                true,
	models.CaseTypeSAR:                true,
	models.CaseTypeSuspiciousActivity: true,
}

func (s *service) CreateCase(ctx context.Context, input CreateCaseInput) (*models.AmlCase, error) {
	if !validCaseTypes[input.CaseType] {
		return nil, ErrInvalidCaseType
	}
	if input.SubjectType != models.TargetTypeUser && input.SubjectType != models.TargetTypeMerchant {
		return nil, ErrInvalidSubjectType
	}
	if !models.ValidSeverity(input.RiskLevel) {
		return nil, ErrInvalidRiskLevel
	}

	c := &models.AmlCase{
		CaseType:    input.CaseType,
		SubjectType: input.SubjectType,
		SubjectID:   input.SubjectID,
		RiskLevel:   input.RiskLevel,
		TotalAmount: input.TotalAmount,
		Status:      models.CaseStatusOpen,
		Summary:     input.Summary,
	}
	if err := s.caseRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.invalidateScore(ctx, c.SubjectType, c.SubjectID)

	s.logger.Info("aml case created",
		zap.String("case_number", c.CaseNumber),
		zap.String("case_type", c.CaseType),
		zap.String("subject_type", c.SubjectType),
		zap.Uint("subject_id", c.SubjectID))

	s.auditor.Record(ctx, input.CreatedBy, "aml.case.create", "aml_case", c.CaseNumber, models.JSON{
		"case_type":  c.CaseType,
		"risk_level": c.RiskLevel,
	})
	return c, nil
}

func (s *service) GetCase(ctx context.Context, id uint) (*models.AmlCase, []models.AmlReport, error) {
	c, err := s.caseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	reports, err := s.repRepo.ListByCase(ctx, c.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load reports for case %s: %w", c.CaseNumber, err)
	}
	return c, reports, nil
}

func (s *service) ListCases(ctx context.Context, filter repositories.CaseFilter, limit, offset int) ([]models.AmlCase, int64, error) {
	return s.caseRepo.List(ctx, filter, limit, offset)
}

func (s *service) CountOpenCases(ctx context.Context) (map[string]int64, error) {
	return s.caseRepo.CountOpenByStatus(ctx)
}

func (s *service) UpdateCaseStatus(ctx context.Context, id uint, status string, actorID uint) (*models.AmlCase, error) {
	c, err := s.caseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Open() {
		return nil, ErrCaseClosed
	}
	if !transitionAllowed(c.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.Status, status)
	}

	from := c.Status
	c.Status = status
	if err := s.caseRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.invalidateScore(ctx, c.SubjectType, c.SubjectID)

	s.auditor.Record(ctx, actorID, "aml.case.status", "aml_case", c.CaseNumber, models.JSON{
		"from": from,
		"to":   status,
	})
	return c, nil
}

func (s *service) AssignInvestigator(ctx context.Context, id uint, investigatorID, actorID uint) (*models.AmlCase, error) {
	c, err := s.caseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Open() {
		return nil, ErrCaseClosed
	}

	c.InvestigatorID = &investigatorID
	if c.Status == models.CaseStatusOpen {
		c.Status = models.CaseStatusInvestigating
	}
	if err := s.caseRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, actorID, "aml.case.assign", "aml_case", c.CaseNumber, models.JSON{
		"investigator_id": investigatorID,
	})
	return c, nil
}

func (s *service) RecordFindings(ctx context.Context, id uint, findings string, actorID uint) (*models.AmlCase, error) {
	c, err := s.caseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Open() {
		return nil, ErrCaseClosed
	}

	c.Findings = findings
	if err := s.caseRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, actorID, "aml.case.findings", "aml_case", c.CaseNumber, nil)
	return c, nil
}

// MarkReported records the KoFIU submission on the case. The reported
// timestamp is stamped once; repeating the call updates the reference but
// keeps the original time.
func (s *service) MarkReported(ctx context.Context, id uint, reference string, actorID uint) (*models.AmlCase, error) {
	c, err := s.caseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Open() {
		return nil, ErrCaseClosed
	}
	if c.Status != models.CaseStatusReported {
		if !transitionAllowed(c.Status, models.CaseStatusReported) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.Status, models.CaseStatusReported)
		}
		c.Status = models.CaseStatusReported
	}

	c.ReportedToKofiu = true
	c.KofiuReference = reference
	if c.KofiuReportedAt == nil {
		now := time.Now()
		c.KofiuReportedAt = &now
	}
	if err := s.caseRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("case reported to kofiu",
		zap.String("case_number", c.CaseNumber),
		zap.String("reference", reference))

	s.auditor.Record(ctx, actorID, "aml.case.reported", "aml_case", c.CaseNumber, models.JSON{
		"reference": reference,
	})
	return c, nil
}
