package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategory(t *testing.T) {
	assert.True(t, CategoryAnnual.Valid())
	assert.False(t, Category("SABBATICAL").Valid())

	assert.Equal(t, "Annual Leave", CategoryAnnual.DisplayName())
	assert.Equal(t, "Sick Leave", CategorySick.DisplayName())

	assert.Equal(t, 15.0, CategorySick.DefaultAllowance())
	assert.Equal(t, 21.0, CategoryAnnual.DefaultAllowance())
	assert.Equal(t, 7.0, CategoryCasual.DefaultAllowance())
	assert.Equal(t, 90.0, CategoryMaternity.DefaultAllowance())

	assert.True(t, CategoryAnnual.Accrues())
	assert.False(t, CategorySick.Accrues())
	assert.False(t, CategoryCasual.Accrues())
	assert.False(t, CategoryMaternity.Accrues())
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestBalanceCarryoverExpired(t *testing.T) {
	expiry := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	balance := Balance{CarryoverExpiryDate: &expiry}

	assert.False(t, balance.CarryoverExpired(time.Date(2026, time.January, 30, 0, 0, 0, 0, time.UTC)))
	assert.False(t, balance.CarryoverExpired(time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)))
	// Still spendable mid-day on the expiry date
	assert.False(t, balance.CarryoverExpired(time.Date(2026, time.January, 31, 12, 0, 0, 0, time.UTC)))
	assert.True(t, balance.CarryoverExpired(time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, balance.CarryoverExpired(time.Date(2026, time.February, 1, 9, 30, 0, 0, time.UTC)))

	assert.False(t, Balance{}.CarryoverExpired(time.Date(2099, time.January, 1, 0, 0, 0, 0, time.UTC)))
}
