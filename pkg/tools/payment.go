package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// PaymentLinkTool creates a Midtrans Snap checkout link for the amount
// the customer agreed to in conversation.
type PaymentLinkTool struct {
	client snap.Client
}

func NewPaymentLinkTool(serverKey string, production bool) *PaymentLinkTool {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	var client snap.Client
	client.New(serverKey, env)

	return &PaymentLinkTool{client: client}
}

func (t *PaymentLinkTool) Name() string {
	return "create_payment_link"
}

func (t *PaymentLinkTool) Description() string {
	return `Create a payment link. Args: {"amount": 150000, "description": "what is being paid for"}`
}

func (t *PaymentLinkTool) Execute(_ context.Context, tenantID string, args map[string]interface{}) (string, error) {
	amount, ok := args["amount"].(float64)
	if !ok || amount <= 0 {
		return "", fmt.Errorf("create_payment_link requires a positive amount")
	}
	description, _ := args["description"].(string)
	if description == "" {
		description = "Agent-assisted payment"
	}

	orderID := fmt.Sprintf("%s-%d", tenantID, time.Now().UnixNano())
	grossAmt := int64(amount)

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: grossAmt,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    orderID,
				Name:  description,
				Price: grossAmt,
				Qty:   1,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	resp, midErr := t.client.CreateTransaction(snapReq)
	if midErr != nil {
		return "", fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	return fmt.Sprintf("Payment link created: %s (order %s)", resp.RedirectURL, orderID), nil
}
