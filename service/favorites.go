package service

import (
	"context"
	"errors"

	"github.com/Kousuke-irie/chancenmarket-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Service) AddFavorite(ctx context.Context, userID, listingID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.findUser(tx, userID); err != nil {
			return err
		}
		if _, err := findListing(tx, listingID); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.Favorite{}).Where("user_id = ? AND listing_id = ?", userID, listingID).Count(&count).Error; err != nil {
			return dbError("count favorites", err)
		}
		if count > 0 {
			return ErrAlreadyFavorited
		}
		fav := models.Favorite{
			ID:        uuid.NewString(),
			UserID:    userID,
			ListingID: listingID,
			CreatedAt: s.timestamp(),
		}
		if err := tx.Create(&fav).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyFavorited
			}
			return dbError("create favorite", err)
		}
		return nil
	})
}

func (s *Service) RemoveFavorite(ctx context.Context, userID, listingID string) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND listing_id = ?", userID, listingID).Delete(&models.Favorite{})
	if res.Error != nil {
		return dbError("delete favorite", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// Favorites お気に入りの出品 (追加した新しい順、削除済みは除く)
func (s *Service) Favorites(ctx context.Context, userID string) ([]models.Listing, error) {
	db := s.db.WithContext(ctx)
	var favs []models.Favorite
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Limit(maxPageSize).Find(&favs).Error; err != nil {
		return nil, dbError("list favorites", err)
	}
	ids := make([]string, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.ListingID)
	}
	listings, err := loadListings(db, ids)
	if err != nil {
		return nil, dbError("load favorite listings", err)
	}

	out := make([]models.Listing, 0, len(favs))
	for _, f := range favs {
		if l, ok := listings[f.ListingID]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Service) IsFavorite(ctx context.Context, userID, listingID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).Count(&count).Error
	if err != nil {
		return false, dbError("check favorite", err)
	}
	return count > 0, nil
}
