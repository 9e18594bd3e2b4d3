package websocket

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshersPerRole(t *testing.T) {
	tests := []struct {
		role   string
		tables []string
	}{
		{"admin", []string{"payout_requests", "groomer_profiles"}},
		{"groomer", []string{"grooming_bookings", "payout_requests"}},
		{"pet_owner", []string{"grooming_bookings"}},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			refreshers := refreshersFor(tt.role)
			var tables []string
			for _, r := range refreshers {
				tables = append(tables, r.table)
				require.NotNil(t, r.load, "refresher for %s has no listing query", r.table)
			}
			assert.Equal(t, tt.tables, tables)
		})
	}
}

// A groomer's payout subscription must re-run the payout listing, not the
// bookings listing, so a payout status change refreshes the payout panel.
func TestGroomerPayoutRefreshUsesPayoutListing(t *testing.T) {
	byTable := make(map[string]refresher)
	for _, r := range refreshersFor("groomer") {
		byTable[r.table] = r
	}

	payouts, ok := byTable["payout_requests"]
	require.True(t, ok)
	bookings, ok := byTable["grooming_bookings"]
	require.True(t, ok)

	assert.NotEqual(t,
		reflect.ValueOf(bookings.load).Pointer(),
		reflect.ValueOf(payouts.load).Pointer(),
		"payout subscription reuses the bookings listing")
	assert.Equal(t,
		reflect.ValueOf(groomerPayoutRows).Pointer(),
		reflect.ValueOf(payouts.load).Pointer())
}
