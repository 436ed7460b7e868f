package commands

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/pkg/guard"
)

var ErrConfirmPaymentCommandIsNotConstructed = errors.New(
	"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
)

// ConfirmPaymentCommand carries the gateway's verdict on an online order.
type ConfirmPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	success   bool
	amount    kernel.Money
	reference string
	signature string

	guard guard.ConstructorGuard
}

// NewConfirmPaymentCommand creates a command from a payment gateway callback.
// Reference and signature are trimmed. Whether they are required depends on the handler.
func NewConfirmPaymentCommand(
	orderID kernel.UUID,
	success bool,
	amount kernel.Money,
	reference string,
	signature string,
) (ConfirmPaymentCommand, error) {
	if err := errors.Join(orderID.Validate(), amount.Validate()); err != nil {
		return ConfirmPaymentCommand{}, err
	}

	return ConfirmPaymentCommand{
		orderID:   orderID,
		success:   success,
		amount:    amount,
		reference: strings.TrimSpace(reference),
		signature: strings.TrimSpace(signature),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmPaymentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentCommandIsNotConstructed)
}

func (c ConfirmPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ConfirmPaymentCommand) Success() bool {
	return c.success
}

func (c ConfirmPaymentCommand) Amount() kernel.Money {
	return c.amount
}

func (c ConfirmPaymentCommand) Reference() string {
	return c.reference
}

func (c ConfirmPaymentCommand) Signature() string {
	return c.signature
}

// SignGatewayResult is the hex HMAC-SHA256 of "order_id|amount|reference" under secret,
// the signature a gateway attaches to its callback.
func SignGatewayResult(secret string, orderID kernel.UUID, amount kernel.Money, reference string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID.String() + "|" + amount.String() + "|" + reference))
	return hex.EncodeToString(mac.Sum(nil))
}

func signatureMatches(secret string, cmd ConfirmPaymentCommand) bool {
	expected := SignGatewayResult(secret, cmd.OrderID(), cmd.Amount(), cmd.Reference())
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(cmd.Signature())))
}
