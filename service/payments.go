package service

import (
	"context"
	"fmt"
	"math"

	"github.com/Kousuke-irie/chancenmarket-backend/models"
	"go.uber.org/zap"
)

// PaymentRequest 金額は最小通貨単位 (セント)
type PaymentRequest struct {
	Amount      int64
	Currency    string
	Description string
	Metadata    map[string]string
}

type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// PaymentProvider 決済サービス (Stripe)
type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, req PaymentRequest) (*PaymentIntent, error)
}

// CreateOfferPayment 承諾された交渉の買い手が、交渉価格で支払いを開始する
func (s *Service) CreateOfferPayment(ctx context.Context, offerID, buyerID string) (*PaymentIntent, error) {
	var offer models.Offer
	if err := s.db.WithContext(ctx).Where("id = ?", offerID).First(&offer).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrOfferNotFound
		}
		return nil, dbError("find offer", err)
	}
	if offer.BuyerID != buyerID {
		return nil, ErrNotAuthorized
	}
	if offer.Status != models.OfferAccepted {
		return nil, ErrOfferNotAccepted
	}
	if s.payments == nil {
		return nil, internal(msgPaymentDisabled, fmt.Errorf("payment provider is not configured"))
	}

	intent, err := s.payments.CreatePaymentIntent(ctx, PaymentRequest{
		Amount:      int64(math.Round(offer.OfferedPrice * 100)),
		Currency:    s.currency,
		Description: "Angebot " + offer.ID,
		Metadata: map[string]string{
			"offer_id":   offer.ID,
			"listing_id": offer.ListingID,
			"buyer_id":   offer.BuyerID,
			"seller_id":  offer.SellerID,
		},
	})
	if err != nil {
		s.log.Error("failed to create payment intent", zap.String("offer_id", offer.ID), zap.Error(err))
		return nil, internal(msgPaymentFailed, err)
	}
	return intent, nil
}
