package service

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayGateway is the subset of the Razorpay API the billing flow uses.
type RazorpayGateway interface {
	CreateOrder(ctx context.Context, data map[string]interface{}) (map[string]interface{}, error)
	CreateSubscription(ctx context.Context, data map[string]interface{}) (map[string]interface{}, error)
	CancelSubscription(ctx context.Context, subscriptionID string, atCycleEnd bool) error
}

type razorpayClient struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string) RazorpayGateway {
	return &razorpayClient{client: razorpay.NewClient(keyID, keySecret)}
}

func (c *razorpayClient) CreateOrder(_ context.Context, data map[string]interface{}) (map[string]interface{}, error) {
	order, err := c.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}
	return order, nil
}

func (c *razorpayClient) CreateSubscription(_ context.Context, data map[string]interface{}) (map[string]interface{}, error) {
	sub, err := c.client.Subscription.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay create subscription: %w", err)
	}
	return sub, nil
}

func (c *razorpayClient) CancelSubscription(_ context.Context, subscriptionID string, atCycleEnd bool) error {
	flag := 0
	if atCycleEnd {
		flag = 1
	}
	if _, err := c.client.Subscription.Cancel(subscriptionID, map[string]interface{}{"cancel_at_cycle_end": flag}, nil); err != nil {
		return fmt.Errorf("razorpay cancel subscription %s: %w", subscriptionID, err)
	}
	return nil
}

// stringField reads a string value from a Razorpay response map.
func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
