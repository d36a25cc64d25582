package payment

import (
	"context"

	"app/internal/usecase"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// Stripe Checkout Sessionを作るgateway実装。
// キーはここに注入する。stripe.Keyのグローバルには触らない。
type StripeCheckoutGateway struct {
	api *client.API
}

func NewStripeCheckoutGateway(secretKey string) *StripeCheckoutGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeCheckoutGateway{api: api}
}

func (g *StripeCheckoutGateway) CreateSession(ctx context.Context, in usecase.CheckoutSessionInput) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(in.Lines))
	for _, line := range in.Lines {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(line.Name),
		}
		//空文字のdescriptionはStripeが弾く
		if line.Description != "" {
			productData.Description = stripe.String(line.Description)
		}
		if line.ImageURL != "" {
			productData.Images = stripe.StringSlice([]string{line.ImageURL})
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(in.Currency),
				UnitAmount:  stripe.Int64(line.UnitAmount),
				ProductData: productData,
			},
			Quantity: stripe.Int64(line.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		LineItems:  lineItems,
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
	}
	params.Context = ctx
	if in.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(in.CustomerEmail)
	}

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}
