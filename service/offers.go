package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Kousuke-irie/chancenmarket-backend/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

type ProposeInput struct {
	ListingID    string
	SellerID     string // 省略時は出品者
	OfferedPrice float64
	Message      *string
}

// SentOffer 自分が出した交渉 (出品者名つき)
type SentOffer struct {
	models.Offer
	SellerName   string  `json:"seller_name"`
	ListingTitle string  `json:"listing_title"`
	ListingImage *string `json:"listing_image"`
}

// ReceivedOffer 自分の出品に届いた交渉
type ReceivedOffer struct {
	models.Offer
	BuyerName     string  `json:"buyer_name"`
	ListingTitle  string  `json:"listing_title"`
	ListingImage  *string `json:"listing_image"`
	OriginalPrice float64 `json:"original_price"`
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// ProposeOffer 価格交渉を作成し、出品者へ自動メッセージを送る
func (s *Service) ProposeOffer(ctx context.Context, buyerID string, in ProposeInput) (*models.Offer, error) {
	if in.OfferedPrice <= 0 {
		return nil, Validation("Angebotspreis muss größer als 0 sein")
	}

	var offer models.Offer
	var notice models.Message
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listing, err := findListing(tx, in.ListingID)
		if err != nil {
			return err
		}
		sellerID := listing.SellerID
		if in.SellerID != "" && in.SellerID != sellerID {
			return Validation("Verkäufer passt nicht zur Anzeige")
		}
		if buyerID == sellerID {
			return Validation("Sie können kein Angebot für Ihre eigene Anzeige abgeben")
		}
		buyer, err := s.findUser(tx, buyerID)
		if err != nil {
			return err
		}

		now := s.timestamp()
		offer = models.Offer{
			ID:           uuid.NewString(),
			ListingID:    listing.ID,
			BuyerID:      buyerID,
			SellerID:     sellerID,
			OfferedPrice: in.OfferedPrice,
			Message:      in.Message,
			Status:       models.OfferPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Create(&offer).Error; err != nil {
			return dbError("create offer", err)
		}

		note := ""
		if in.Message != nil {
			note = *in.Message
		}
		content := fmt.Sprintf("Neues Angebot von %s: €%s - %s", buyer.Name, formatPrice(in.OfferedPrice), note)
		notice, err = s.appendMessage(tx, buyerID, sellerID, listing.ID, content, models.MessageText)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notify(notice)
	s.log.Info("offer proposed",
		zap.String("offer_id", offer.ID),
		zap.String("listing_id", offer.ListingID),
		zap.String("buyer_id", buyerID),
	)
	return &offer, nil
}

// ResolveOffer 出品者が交渉を承諾/拒否する。pending 以外からの遷移は Conflict
func (s *Service) ResolveOffer(ctx context.Context, offerID, actorID, action string) (*models.Offer, error) {
	var status, verdict string
	switch action {
	case ActionAccept:
		status, verdict = models.OfferAccepted, "✅ Ihr Angebot wurde angenommen!"
	case ActionReject:
		status, verdict = models.OfferRejected, "❌ Ihr Angebot wurde abgelehnt"
	default:
		return nil, Validation("Ungültige Aktion")
	}

	var offer models.Offer
	var notice models.Message
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", offerID).First(&offer).Error; err != nil {
			if isNotFound(err) {
				return ErrOfferNotFound
			}
			return dbError("find offer", err)
		}
		if offer.SellerID != actorID {
			return ErrNotAuthorized
		}

		now := s.timestamp()
		res := tx.Model(&models.Offer{}).
			Where("id = ? AND status = ?", offerID, models.OfferPending).
			Updates(map[string]interface{}{"status": status, "updated_at": now})
		if res.Error != nil {
			return dbError("update offer status", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrOfferResolved
		}
		offer.Status = status
		offer.UpdatedAt = now

		title := ""
		if listing, err := findListing(tx, offer.ListingID); err == nil {
			title = listing.Title
		} else if !errors.Is(err, ErrListingNotFound) {
			return err
		}

		content := fmt.Sprintf("%s - %s", verdict, title)
		var err error
		notice, err = s.appendMessage(tx, actorID, offer.BuyerID, offer.ListingID, content, models.MessageText)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notify(notice)
	s.log.Info("offer resolved", zap.String("offer_id", offer.ID), zap.String("status", status))
	return &offer, nil
}

// SentOffers 買い手として出した交渉
func (s *Service) SentOffers(ctx context.Context, buyerID string) ([]SentOffer, error) {
	db := s.db.WithContext(ctx)
	var offers []models.Offer
	if err := db.Where("buyer_id = ?", buyerID).Order("created_at DESC").Limit(maxPageSize).Find(&offers).Error; err != nil {
		return nil, dbError("list sent offers", err)
	}

	sellerIDs := make([]string, 0, len(offers))
	listingIDs := make([]string, 0, len(offers))
	for _, o := range offers {
		sellerIDs = append(sellerIDs, o.SellerID)
		listingIDs = append(listingIDs, o.ListingID)
	}
	users, err := loadUsers(db, sellerIDs)
	if err != nil {
		return nil, dbError("load sellers", err)
	}
	listings, err := loadListings(db, listingIDs)
	if err != nil {
		return nil, dbError("load listings", err)
	}

	out := make([]SentOffer, 0, len(offers))
	for _, o := range offers {
		out = append(out, SentOffer{
			Offer:        o,
			SellerName:   userName(users, o.SellerID),
			ListingTitle: listingTitle(listings, o.ListingID),
			ListingImage: listingImage(listings, o.ListingID),
		})
	}
	return out, nil
}

// ReceivedOffers 出品者として受け取った交渉
func (s *Service) ReceivedOffers(ctx context.Context, sellerID string) ([]ReceivedOffer, error) {
	db := s.db.WithContext(ctx)
	var offers []models.Offer
	if err := db.Where("seller_id = ?", sellerID).Order("created_at DESC").Limit(maxPageSize).Find(&offers).Error; err != nil {
		return nil, dbError("list received offers", err)
	}

	buyerIDs := make([]string, 0, len(offers))
	listingIDs := make([]string, 0, len(offers))
	for _, o := range offers {
		buyerIDs = append(buyerIDs, o.BuyerID)
		listingIDs = append(listingIDs, o.ListingID)
	}
	users, err := loadUsers(db, buyerIDs)
	if err != nil {
		return nil, dbError("load buyers", err)
	}
	listings, err := loadListings(db, listingIDs)
	if err != nil {
		return nil, dbError("load listings", err)
	}

	out := make([]ReceivedOffer, 0, len(offers))
	for _, o := range offers {
		ro := ReceivedOffer{
			Offer:        o,
			BuyerName:    userName(users, o.BuyerID),
			ListingTitle: listingTitle(listings, o.ListingID),
			ListingImage: listingImage(listings, o.ListingID),
		}
		if l, ok := listings[o.ListingID]; ok {
			ro.OriginalPrice = l.Price
		}
		out = append(out, ro)
	}
	return out, nil
}
