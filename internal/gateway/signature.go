package gateway

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

// VerifyMidtransSignature checks the signature_key of a Midtrans
// notification: SHA512(order_id + status_code + gross_amount + server_key).
func VerifyMidtransSignature(orderID, statusCode, grossAmount, serverKey, signatureKey string) bool {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signatureKey)) == 1
}
