package user

import (
	"context"
	"errors"

	"localpay/internal/models"
	"localpay/internal/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateInput carries a new account registration.
type CreateInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
}

// KYCInput carries an identity-verification submission.
type KYCInput struct {
	DocumentID string
	ScanURL    string
}

type Service interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, input CreateInput) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SubmitKYC(ctx context.Context, userID uint, input KYCInput) (*models.KYCVerification, error)
	GetKYC(ctx context.Context, userID uint) (*models.KYCVerification, error)
	SetKYCStatus(ctx context.Context, userID uint, status string, reviewedBy uint) (*models.User, error)
	GetTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error)
}

type service struct {
	repo    repositories.UserRepository
	txRepo  repositories.TransactionRepository
	kycRepo repositories.KYCRepository
}

func NewService(repo repositories.UserRepository, txRepo repositories.TransactionRepository, kycRepo repositories.KYCRepository) Service {
	if repo == nil || txRepo == nil || kycRepo == nil {
		panic("user.NewService: nil repository")
	}
	return &service{repo: repo, txRepo: txRepo, kycRepo: kycRepo}
}

func (s *service) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.User, error) {
	if input.Email == "" {
		return nil, errors.New("email is required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	role := input.Role
	if role == "" {
		role = "user"
	}

	user := &models.User{
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Password:  string(hashedPassword),
		Role:      role,
		Status:    "active",
		KYCStatus: models.KYCStatusPending,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) Update(ctx context.Context, user *models.User) error {
	return s.repo.Update(ctx, user)
}

// SubmitKYC records an identity-verification request. A resubmission
// after a rejection moves the user back to pending review.
func (s *service) SubmitKYC(ctx context.Context, userID uint, input KYCInput) (*models.KYCVerification, error) {
	if input.DocumentID == "" {
		return nil, errors.New("document id is required")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	kyc := &models.KYCVerification{
		UserID:     userID,
		Status:     models.KYCStatusPending,
		DocumentID: input.DocumentID,
		ScanURL:    input.ScanURL,
	}
	if err := s.kycRepo.Create(ctx, kyc); err != nil {
		return nil, err
	}

	if user.KYCStatus != models.KYCStatusPending {
		user.KYCStatus = models.KYCStatusPending
		if err := s.repo.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	return kyc, nil
}

func (s *service) GetKYC(ctx context.Context, userID uint) (*models.KYCVerification, error) {
	return s.kycRepo.GetLatestByUser(ctx, userID)
}

// SetKYCStatus records the outcome of identity verification on the user
// and on the latest submission. Screening reads the user flag when
// weighing the unverified-identity indicator.
func (s *service) SetKYCStatus(ctx context.Context, userID uint, status string, reviewedBy uint) (*models.User, error) {
	switch status {
	case models.KYCStatusPending, models.KYCStatusVerified, models.KYCStatusRejected:
	default:
		return nil, errors.New("invalid kyc status")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.KYCStatus = status
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	// Accounts created before a document submission have no row to stamp.
	kyc, err := s.kycRepo.GetLatestByUser(ctx, userID)
	if err == nil {
		kyc.Status = status
		kyc.ReviewedBy = &reviewedBy
		if err := s.kycRepo.Update(ctx, kyc); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return user, nil
}

func (s *service) GetTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	return s.txRepo.ListByUser(ctx, userID, limit, offset)
}
