package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
)

// MidtransClient queries transaction status through the Midtrans core API.
type MidtransClient struct {
	core coreapi.Client
}

func NewMidtransClient(serverKey string, live bool) *MidtransClient {
	env := midtrans.Sandbox
	if live {
		env = midtrans.Production
	}

	var c coreapi.Client
	c.New(serverKey, env)

	return &MidtransClient{core: c}
}

// TransactionStatus checks the transaction at Midtrans. The SDK carries its
// own HTTP timeout, so the context is only consulted up front.
func (c *MidtransClient) TransactionStatus(ctx context.Context, transactionID string) (*StatusResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, checkErr := c.core.CheckTransaction(transactionID)
	if checkErr != nil {
		return nil, fmt.Errorf("midtrans check transaction: %w", checkErr)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		raw = nil
	}

	return &StatusResult{NativeStatus: resp.TransactionStatus, Raw: raw}, nil
}
