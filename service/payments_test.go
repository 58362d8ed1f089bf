package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayments struct {
	requests []PaymentRequest
	err      error
}

func (f *fakePayments) CreatePaymentIntent(_ context.Context, req PaymentRequest) (*PaymentIntent, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret", Amount: req.Amount, Currency: req.Currency}, nil
}

func TestCreateOfferPayment(t *testing.T) {
	payments := &fakePayments{}
	env := newTestEnv(t, WithPayments(payments, "eur"))
	ctx := context.Background()
	seller := env.register(t, "Sam", "sam@example.com")
	buyer := env.register(t, "Bea", "bea@example.com")
	listing := env.listing(t, seller, "Sofa", 650)

	offer, err := env.svc.ProposeOffer(ctx, buyer.ID, ProposeInput{ListingID: listing.ID, OfferedPrice: 499.99})
	require.NoError(t, err)

	_, err = env.svc.CreateOfferPayment(ctx, offer.ID, buyer.ID)
	assert.ErrorIs(t, err, ErrOfferNotAccepted)

	_, err = env.svc.ResolveOffer(ctx, offer.ID, seller.ID, ActionAccept)
	require.NoError(t, err)

	_, err = env.svc.CreateOfferPayment(ctx, offer.ID, seller.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)
	_, err = env.svc.CreateOfferPayment(ctx, "missing", buyer.ID)
	assert.ErrorIs(t, err, ErrOfferNotFound)

	intent, err := env.svc.CreateOfferPayment(ctx, offer.ID, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret", intent.ClientSecret)
	require.Len(t, payments.requests, 1)
	assert.Equal(t, int64(49999), payments.requests[0].Amount)
	assert.Equal(t, "eur", payments.requests[0].Currency)
	assert.Equal(t, offer.ID, payments.requests[0].Metadata["offer_id"])

	payments.err = errors.New("card_declined")
	_, err = env.svc.CreateOfferPayment(ctx, offer.ID, buyer.ID)
	assertKind(t, err, KindInternal)
}

func TestCreateOfferPaymentWithoutProvider(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.register(t, "Sam", "sam@example.com")
	buyer := env.register(t, "Bea", "bea@example.com")
	listing := env.listing(t, seller, "Sofa", 650)
	offer, err := env.svc.ProposeOffer(ctx, buyer.ID, ProposeInput{ListingID: listing.ID, OfferedPrice: 500})
	require.NoError(t, err)
	_, err = env.svc.ResolveOffer(ctx, offer.ID, seller.ID, ActionAccept)
	require.NoError(t, err)

	_, err = env.svc.CreateOfferPayment(ctx, offer.ID, buyer.ID)
	assertKind(t, err, KindInternal)
}
