package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignHMACSHA256 returns the lower-case hex HMAC-SHA256 of message.
func SignHMACSHA256(secret string, message []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHMACSHA256 compares signature against the expected digest in constant time.
func VerifyHMACSHA256(secret string, message []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := SignHMACSHA256(secret, message)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

// PaymentSignaturePayload is the string Razorpay signs for checkout callbacks:
// "payment_id|subscription_id" for subscriptions, "order_id|payment_id" for orders.
func PaymentSignaturePayload(orderID, paymentID, subscriptionID string) string {
	if subscriptionID != "" {
		return paymentID + "|" + subscriptionID
	}
	return orderID + "|" + paymentID
}
