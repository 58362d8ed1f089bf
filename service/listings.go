package service

import (
	"context"
	"strings"

	"github.com/Kousuke-irie/chancenmarket-backend/catalog"
	"github.com/Kousuke-irie/chancenmarket-backend/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ListingInput struct {
	Title          string
	Description    string
	Price          float64
	Category       string
	Images         []string
	Video          *string
	CategoryFields map[string]interface{}
}

// ListingUpdate nil の項目は変更しない
type ListingUpdate struct {
	Title          *string
	Description    *string
	Price          *float64
	Category       *string
	Images         *[]string
	Video          *string
	CategoryFields map[string]interface{}
}

type ListingFilter struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Skip     int
	Limit    int
}

func validateListing(title string, price float64, category string, fields map[string]interface{}) error {
	if strings.TrimSpace(title) == "" {
		return Validation("Titel ist erforderlich")
	}
	if price < 0 {
		return Validation("Preis darf nicht negativ sein")
	}
	if err := catalog.ValidateFields(category, fields); err != nil {
		return Validation(err.Error())
	}
	return nil
}

// CreateListing 出品
func (s *Service) CreateListing(ctx context.Context, sellerID string, in ListingInput) (*models.Listing, error) {
	if err := validateListing(in.Title, in.Price, in.Category, in.CategoryFields); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	seller, err := s.findUser(db, sellerID)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	listing := models.Listing{
		ID:             uuid.NewString(),
		SellerID:       seller.ID,
		SellerName:     seller.Name,
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Price:          in.Price,
		Category:       in.Category,
		Images:         datatypes.JSONSlice[string](nonNil(in.Images)),
		Video:          in.Video,
		CategoryFields: datatypes.JSONMap(nonNilMap(in.CategoryFields)),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := db.Create(&listing).Error; err != nil {
		return nil, dbError("create listing", err)
	}
	s.log.Info("listing created", zap.String("listing_id", listing.ID), zap.String("seller_id", seller.ID))
	return &listing, nil
}

// ListListings 検索・絞り込み (新しい順)
func (s *Service) ListListings(ctx context.Context, f ListingFilter) ([]models.Listing, error) {
	q := s.db.WithContext(ctx).Model(&models.Listing{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		q = q.Where("(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	skip := f.Skip
	if skip < 0 {
		skip = 0
	}

	var listings []models.Listing
	if err := q.Order("created_at DESC, id DESC").Offset(skip).Limit(limit).Find(&listings).Error; err != nil {
		return nil, dbError("list listings", err)
	}
	return listings, nil
}

// MyListings 自分の出品
func (s *Service) MyListings(ctx context.Context, sellerID string) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.WithContext(ctx).Where("seller_id = ?", sellerID).
		Order("created_at DESC").Limit(maxPageSize).Find(&listings).Error
	if err != nil {
		return nil, dbError("list my listings", err)
	}
	return listings, nil
}

func findListing(db *gorm.DB, id string) (*models.Listing, error) {
	var listing models.Listing
	if err := db.Where("id = ?", id).First(&listing).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrListingNotFound
		}
		return nil, dbError("find listing", err)
	}
	return &listing, nil
}

// GetListing 詳細を取得し閲覧数を1増やす
func (s *Service) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	db := s.db.WithContext(ctx)
	res := db.Model(&models.Listing{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return nil, dbError("increment views", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrListingNotFound
	}
	return findListing(db, id)
}

// UpdateListing 出品者のみ更新できる
func (s *Service) UpdateListing(ctx context.Context, actorID, id string, in ListingUpdate) (*models.Listing, error) {
	db := s.db.WithContext(ctx)
	listing, err := findListing(db, id)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != actorID {
		return nil, ErrNotAuthorized
	}

	if in.Title != nil {
		listing.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		listing.Description = *in.Description
	}
	if in.Price != nil {
		listing.Price = *in.Price
	}
	if in.Category != nil {
		listing.Category = *in.Category
	}
	if in.Images != nil {
		listing.Images = datatypes.JSONSlice[string](nonNil(*in.Images))
	}
	if in.Video != nil {
		listing.Video = in.Video
	}
	if in.CategoryFields != nil {
		listing.CategoryFields = datatypes.JSONMap(in.CategoryFields)
	}
	if err := validateListing(listing.Title, listing.Price, listing.Category, listing.CategoryFields); err != nil {
		return nil, err
	}

	listing.UpdatedAt = s.timestamp()
	if err := db.Save(listing).Error; err != nil {
		return nil, dbError("update listing", err)
	}
	return listing, nil
}

// DeleteListing 出品者か管理者のみ削除できる
func (s *Service) DeleteListing(ctx context.Context, actor Actor, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listing, err := findListing(tx, id)
		if err != nil {
			return err
		}
		if listing.SellerID != actor.UserID && !actor.IsAdmin() {
			return ErrNotAuthorized
		}
		if err := tx.Where("listing_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return dbError("delete favorites of listing", err)
		}
		if err := tx.Delete(&models.Listing{}, "id = ?", id).Error; err != nil {
			return dbError("delete listing", err)
		}
		s.log.Info("listing deleted", zap.String("listing_id", id), zap.String("by", actor.UserID))
		return nil
	})
}

// AllListings 管理者用
func (s *Service) AllListings(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	if err := s.db.WithContext(ctx).Order("created_at DESC").Limit(1000).Find(&listings).Error; err != nil {
		return nil, dbError("list all listings", err)
	}
	return listings, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	return m
}
