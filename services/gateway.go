package services

import (
	"fmt"
	"os"

	"vaccitrack-backend/utils"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
)

// ChargeRequest is what the payment service hands to the gateway.
type ChargeRequest struct {
	OrderNumber   string
	Amount        float64
	Method        string
	CustomerName  string
	CustomerEmail string
}

// ChargeResult carries the gateway's transaction reference back.
type ChargeResult struct {
	TransactionReference string
}

// PaymentGateway is the boundary to the external payment provider. The
// payment state machine never depends on which implementation sits
// behind it.
type PaymentGateway interface {
	Charge(req ChargeRequest) (*ChargeResult, error)
	Refund(orderNumber string, amount float64, reason string) error
}

// NewGatewayFromEnv picks the Midtrans gateway when a server key is
// configured and falls back to the simulated one otherwise.
func NewGatewayFromEnv() PaymentGateway {
	if key := os.Getenv("MIDTRANS_SERVER_KEY"); key != "" {
		return NewMidtransGateway(key)
	}
	return &SimulatedGateway{}
}

// MidtransGateway charges and refunds through the Midtrans Core API.
type MidtransGateway struct {
	client coreapi.Client
}

func NewMidtransGateway(serverKey string) *MidtransGateway {
	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_ENV") == "production" {
		env = midtrans.Production
	}
	g := &MidtransGateway{}
	g.client.New(serverKey, env)
	return g
}

func (g *MidtransGateway) Charge(req ChargeRequest) (*ChargeResult, error) {
	chargeReq := &coreapi.ChargeReq{
		PaymentType: coreapi.PaymentTypeBankTransfer,
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderNumber,
			GrossAmt: int64(req.Amount),
		},
		BankTransfer: &coreapi.BankTransferDetails{
			Bank: midtrans.BankBca,
		},
		CustomerDetails: &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Email: req.CustomerEmail,
		},
	}

	resp, err := g.client.ChargeTransaction(chargeReq)
	if err != nil {
		return nil, fmt.Errorf("midtrans charge: %s", err.GetMessage())
	}
	return &ChargeResult{TransactionReference: resp.TransactionID}, nil
}

func (g *MidtransGateway) Refund(orderNumber string, amount float64, reason string) error {
	_, err := g.client.RefundTransaction(orderNumber, &coreapi.RefundReq{
		Amount: int64(amount),
		Reason: reason,
	})
	if err != nil {
		return fmt.Errorf("midtrans refund: %s", err.GetMessage())
	}
	return nil
}

// SimulatedGateway approves every charge and refund. Used for local
// development and tests when no Midtrans key is configured.
type SimulatedGateway struct{}

func (g *SimulatedGateway) Charge(req ChargeRequest) (*ChargeResult, error) {
	return &ChargeResult{
		TransactionReference: "SIM-" + utils.GenerateRandomString(12),
	}, nil
}

func (g *SimulatedGateway) Refund(orderNumber string, amount float64, reason string) error {
	return nil
}
