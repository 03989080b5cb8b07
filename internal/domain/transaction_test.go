package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskRecipient(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"account number", "9876543210123456", "************3456"},
		{"routing-style", "123456789", "*****6789"},
		{"exactly four", "1234", "****"},
		{"shorter than four", "12", "**"},
		{"empty", "", ""},
		{"surrounding whitespace", "  987654321  ", "*****4321"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskRecipient(tt.in))
		})
	}
}

func TestTransactionStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	for _, s := range []TransactionStatus{StatusProcessing, StatusCompleted, StatusRejected, StatusFailed} {
		assert.True(t, s.Terminal(), string(s))
	}
}

func TestTransferTypeValid(t *testing.T) {
	assert.True(t, TransferChecking.Valid())
	assert.True(t, TransferSavings.Valid())
	assert.True(t, TransferExternalBank.Valid())
	assert.False(t, TransferType("wire").Valid())
	assert.False(t, TransferType("").Valid())

	assert.True(t, TransferExternalBank.External())
	assert.False(t, TransferChecking.External())
}
