package services

import (
	"testing"

	"toto_api_go/models"

	"github.com/stretchr/testify/assert"
)

func TestResolveDepositAction(t *testing.T) {
	t.Run("processed latch ignores everything", func(t *testing.T) {
		for _, status := range []string{
			ProviderStatusPaid, ProviderStatusOverpaid, ProviderStatusUnderpaid,
			ProviderStatusExpired, ProviderStatusPartial, ProviderStatusNew, "ANYTHING",
		} {
			assert.Equal(t, ActionIgnore,
				ResolveDepositAction(status, models.DepositStatusConfirmed, true),
				"provider status %s", status)
		}
	})

	t.Run("paid credits a pending deposit", func(t *testing.T) {
		assert.Equal(t, ActionCredit,
			ResolveDepositAction(ProviderStatusPaid, models.DepositStatusPending, false))
	})

	t.Run("overpaid credits the actual amount", func(t *testing.T) {
		assert.Equal(t, ActionCredit,
			ResolveDepositAction(ProviderStatusOverpaid, models.DepositStatusProcessing, false))
	})

	t.Run("paid after local failure is ignored", func(t *testing.T) {
		assert.Equal(t, ActionIgnore,
			ResolveDepositAction(ProviderStatusPaid, models.DepositStatusFailed, false))
	})

	t.Run("underpaid and expired close without crediting", func(t *testing.T) {
		assert.Equal(t, ActionFail,
			ResolveDepositAction(ProviderStatusUnderpaid, models.DepositStatusPending, false))
		assert.Equal(t, ActionFail,
			ResolveDepositAction(ProviderStatusExpired, models.DepositStatusPending, false))
		assert.Equal(t, ActionFail,
			ResolveDepositAction(ProviderStatusPartial, models.DepositStatusProcessing, false))
	})

	t.Run("new keeps the intent pending", func(t *testing.T) {
		assert.Equal(t, ActionMarkPending,
			ResolveDepositAction(ProviderStatusNew, models.DepositStatusPending, false))
	})

	t.Run("unknown interim status marks processing", func(t *testing.T) {
		assert.Equal(t, ActionMarkProcessing,
			ResolveDepositAction("CONFIRMATIONS_PENDING", models.DepositStatusPending, false))
	})
}
