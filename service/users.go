package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Kousuke-irie/chancenmarket-backend/auth"
	"github.com/Kousuke-irie/chancenmarket-backend/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// ProfileUpdate nil の項目は変更しない
type ProfileUpdate struct {
	Name         *string
	ProfileImage *string
	PhoneEnabled *bool
}

// PublicUser 他のユーザーに見せるプロフィール (メールアドレスなし)
type PublicUser struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Rating       float64   `json:"rating"`
	ReviewCount  int       `json:"review_count"`
	ProfileImage *string   `json:"profile_image"`
	PhoneEnabled bool      `json:"phone_enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register ユーザー登録してトークンを返す
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" {
		return nil, "", Validation("Name ist erforderlich")
	}
	if email == "" {
		return nil, "", Validation("E-Mail ist erforderlich")
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, "", Validation(err.Error())
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, "", dbError("count users by email", err)
	}
	if count > 0 {
		return nil, "", ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	user := models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  hash,
		Role:      models.RoleUser,
		CreatedAt: s.timestamp(),
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", dbError("create user", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("user registered", zap.String("user_id", user.ID))
	return &user, token, nil
}

// Login メールアドレスとパスワードで認証する
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if isNotFound(err) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", dbError("find user by email", err)
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *Service) findUser(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, dbError("find user", err)
	}
	return &user, nil
}

// Profile 自分のプロフィール
func (s *Service) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.findUser(s.db.WithContext(ctx), userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*models.User, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, Validation("Name ist erforderlich")
		}
		updates["name"] = name
	}
	if in.ProfileImage != nil {
		updates["profile_image"] = *in.ProfileImage
	}
	if in.PhoneEnabled != nil {
		updates["phone_enabled"] = *in.PhoneEnabled
	}

	db := s.db.WithContext(ctx)
	user, err := s.findUser(db, userID)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return user, nil
	}
	if err := db.Model(user).Updates(updates).Error; err != nil {
		return nil, dbError("update profile", err)
	}
	return s.findUser(db, userID)
}

// PublicProfile 公開プロフィール
func (s *Service) PublicProfile(ctx context.Context, userID string) (*PublicUser, error) {
	user, err := s.findUser(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	return &PublicUser{
		ID:           user.ID,
		Name:         user.Name,
		Rating:       user.Rating,
		ReviewCount:  user.ReviewCount,
		ProfileImage: user.ProfileImage,
		PhoneEnabled: user.PhoneEnabled,
		CreatedAt:    user.CreatedAt,
	}, nil
}

// ListUsers 管理者用: 全ユーザー (新しい順)
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Limit(1000).Find(&users).Error; err != nil {
		return nil, dbError("list users", err)
	}
	return users, nil
}
