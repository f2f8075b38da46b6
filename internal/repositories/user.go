package repositories

import (
	"context"
	"fmt"
	"log"
	"time"

	"localpay/internal/models"

	"gorm.io/gorm"
)

const userCacheExpiration = 24 * time.Hour

func userCacheKeyByID(id uint) string {
	return fmt.Sprintf("user:id:%d", id)
}

func userCacheKeyByEmail(email string) string {
	return fmt.Sprintf("user:email:%s", email)
}

// UserRepository provides user lookup for auth and the compliance engines
// (KYC status reads).
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	IncrementTokenVersion(ctx context.Context, userID uint) error
	GetTokenVersion(ctx context.Context, userID uint) (int, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	var existing models.User
	err := r.db.WithContext(ctx).Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		return fmt.Errorf("user with email %s already exists", user.Email)
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if CacheService != nil {
		var cached models.User
		if hit, err := CacheService.Get(ctx, userCacheKeyByID(id), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	r.cacheUser(&user)
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if CacheService != nil {
		var cached models.User
		if hit, err := CacheService.Get(ctx, userCacheKeyByEmail(email), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	r.cacheUser(&user)
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}
	r.invalidateUser(user)
	return nil
}

func (r *userRepository) IncrementTokenVersion(ctx context.Context, userID uint) error {
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.TokenVersion++
	return r.Update(ctx, user)
}

func (r *userRepository) GetTokenVersion(ctx context.Context, userID uint) (int, error) {
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.TokenVersion, nil
}

func (r *userRepository) cacheUser(user *models.User) {
	if CacheService == nil {
		return
	}
	// Cache writes are best-effort and must not block the request.
	go func() {
		ctx := context.Background()
		if err := CacheService.SetWithTTL(ctx, userCacheKeyByID(user.ID), user, userCacheExpiration); err != nil {
			log.Printf("failed to cache user %d: %v", user.ID, err)
		}
		if err := CacheService.SetWithTTL(ctx, userCacheKeyByEmail(user.Email), user, userCacheExpiration); err != nil {
			log.Printf("failed to cache user %s: %v", user.Email, err)
		}
	}()
}

func (r *userRepository) invalidateUser(user *models.User) {
	if CacheService == nil {
		return
	}
	if err := CacheService.Delete(context.Background(), userCacheKeyByID(user.ID), userCacheKeyByEmail(user.Email)); err != nil {
		log.Printf("failed to invalidate user cache: %v", err)
	}
}
