package service

import (
	"context"
	"errors"

	"github.com/Kousuke-irie/chancenmarket-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewInput struct {
	ReviewedUserID string
	Rating         int
	Comment        *string
}

// AddReview 評価を追加し、対象ユーザーの平均評価を再計算する
func (s *Service) AddReview(ctx context.Context, reviewerID string, in ReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, Validation("Bewertung muss zwischen 1 und 5 liegen")
	}
	if in.ReviewedUserID == reviewerID {
		return nil, Validation("Sie können sich nicht selbst bewerten")
	}

	var review models.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reviewer, err := s.findUser(tx, reviewerID)
		if err != nil {
			return err
		}
		if _, err := s.findUser(tx, in.ReviewedUserID); err != nil {
			return err
		}

		var count int64
		err = tx.Model(&models.Review{}).
			Where("reviewer_id = ? AND reviewed_user_id = ?", reviewerID, in.ReviewedUserID).
			Count(&count).Error
		if err != nil {
			return dbError("count reviews", err)
		}
		if count > 0 {
			return ErrDuplicateReview
		}

		review = models.Review{
			ID:             uuid.NewString(),
			ReviewerID:     reviewerID,
			ReviewerName:   reviewer.Name,
			ReviewedUserID: in.ReviewedUserID,
			Rating:         in.Rating,
			Comment:        in.Comment,
			CreatedAt:      s.timestamp(),
		}
		if err := tx.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateReview
			}
			return dbError("create review", err)
		}
		return recomputeRating(tx, in.ReviewedUserID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// recomputeRating 受け取った評価の平均と件数を保存し直す
func recomputeRating(tx *gorm.DB, userID string) error {
	var agg struct {
		Avg   float64
		Count int
	}
	err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("reviewed_user_id = ?", userID).
		Scan(&agg).Error
	if err != nil {
		return dbError("aggregate ratings", err)
	}
	err = tx.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumns(map[string]interface{}{"rating": agg.Avg, "review_count": agg.Count}).Error
	if err != nil {
		return dbError("update rating", err)
	}
	return nil
}

// Reviews ユーザーが受け取った評価 (新しい順)
func (s *Service) Reviews(ctx context.Context, userID string) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).Where("reviewed_user_id = ?", userID).
		Order("created_at DESC").Limit(maxPageSize).Find(&reviews).Error
	if err != nil {
		return nil, dbError("list reviews", err)
	}
	return reviews, nil
}
