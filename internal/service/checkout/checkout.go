package checkout

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"storefront-service/internal/domain/checkout"
	productsvc "storefront-service/internal/service/product"

	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"go.uber.org/zap"
)

type Config struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
}

type CheckoutService struct {
	stripe   *client.API
	products *productsvc.ProductService
	cfg      Config
	logger   *zap.Logger
}

func NewCheckoutService(products *productsvc.ProductService, cfg Config, logger *zap.Logger) *CheckoutService {
	sc := &client.API{}
	sc.Init(cfg.SecretKey, nil)

	return &CheckoutService{
		stripe:   sc,
		products: products,
		cfg:      cfg,
		logger:   logger,
	}
}

// CreateSession opens a hosted payment session for a single product.
func (s *CheckoutService) CreateSession(ctx context.Context, productID int64) (*checkout.CreateSessionResponse, error) {
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
		Metadata: map[string]string{
			"productId": strconv.FormatInt(productID, 10),
		},
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(p.Name),
						Description: stripe.String(p.Description),
					},
					UnitAmount: stripe.Int64(int64(math.Round(p.Price * 100))),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.cfg.SuccessURL),
		CancelURL:  stripe.String(s.cfg.CancelURL),
	}

	sess, err := s.stripe.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &checkout.CreateSessionResponse{
		SessionID: sess.ID,
		URL:       sess.URL,
	}, nil
}

// HandleWebhook relays a provider event. Only completed checkout
// sessions matter here: the referenced product is marked sold. Other
// event types are acknowledged and ignored.
func (s *CheckoutService) HandleWebhook(ctx context.Context, event *stripe.Event) error {
	if event.Type != "checkout.session.completed" {
		return nil
	}

	sessionID, _ := event.Data.Object["id"].(string)
	if sessionID == "" {
		return fmt.Errorf("webhook event has no session id")
	}

	sess, err := s.stripe.CheckoutSessions.Get(sessionID, &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return fmt.Errorf("failed to retrieve checkout session: %w", err)
	}

	raw, ok := sess.Metadata["productId"]
	if !ok {
		return fmt.Errorf("session metadata is missing productId")
	}

	productID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid productId in session metadata: %w", err)
	}

	if err := s.products.MarkSold(ctx, productID); err != nil {
		return err
	}

	s.logger.Info("product sold via checkout",
		zap.Int64("product_id", productID),
		zap.String("session_id", sessionID),
	)

	return nil
}
