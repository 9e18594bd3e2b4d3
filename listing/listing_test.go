package listing

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type bankInfo struct {
	BankName      string
	AccountNumber string
}

type groomerRow struct {
	Name        string
	ContactName string
	BankDetails *bankInfo
}

func bankLookup(details map[string]*bankInfo, failFor map[string]bool) Lookup[groomerRow] {
	return Lookup[groomerRow]{
		Name: "bank_details",
		Fetch: func(_ context.Context, row *groomerRow) error {
			if failFor[row.Name] {
				return errors.New("permission denied")
			}
			d, ok := details[row.Name]
			if !ok {
				return gorm.ErrRecordNotFound
			}
			row.BankDetails = d
			return nil
		},
		ApplyMissing: func(row *groomerRow) {
			row.BankDetails = nil
		},
		ApplyFailed: func(row *groomerRow) {
			row.BankDetails = nil
		},
	}
}

func contactLookup(contacts map[string]string) Lookup[groomerRow] {
	return Lookup[groomerRow]{
		Name: "contact",
		Fetch: func(_ context.Context, row *groomerRow) error {
			c, ok := contacts[row.Name]
			if !ok {
				return gorm.ErrRecordNotFound
			}
			row.ContactName = c
			return nil
		},
		ApplyMissing: func(row *groomerRow) {
			row.ContactName = PlaceholderNotProvided
		},
		ApplyFailed: func(row *groomerRow) {
			row.ContactName = PlaceholderUnavailable
		},
	}
}

func TestEnrichPreservesOrderAndCount(t *testing.T) {
	rows := []*groomerRow{
		{Name: "Green Paws Salon"},
		{Name: "Blue Grooming"},
		{Name: "Happy Tails"},
	}
	details := map[string]*bankInfo{
		"Green Paws Salon": {BankName: "KCB", AccountNumber: "111"},
		"Happy Tails":      {BankName: "Equity", AccountNumber: "333"},
	}

	enriched := Enrich(context.Background(), rows, []Lookup[groomerRow]{
		bankLookup(details, nil),
	})

	require.Len(t, enriched, 3)
	assert.Equal(t, "Green Paws Salon", enriched[0].Row.Name)
	assert.Equal(t, "Blue Grooming", enriched[1].Row.Name)
	assert.Equal(t, "Happy Tails", enriched[2].Row.Name)
}

func TestEnrichMissingRelationIsDataNotError(t *testing.T) {
	// Three groomers, one without a bank-details row: all three must come
	// back, the bare one with a nil bank detail and no degradation flag.
	rows := []*groomerRow{
		{Name: "Green Paws Salon"},
		{Name: "Blue Grooming"},
		{Name: "Happy Tails"},
	}
	details := map[string]*bankInfo{
		"Green Paws Salon": {BankName: "KCB", AccountNumber: "111"},
		"Happy Tails":      {BankName: "Equity", AccountNumber: "333"},
	}

	enriched := Enrich(context.Background(), rows, []Lookup[groomerRow]{
		bankLookup(details, nil),
	})

	require.Len(t, enriched, 3)
	assert.NotNil(t, enriched[0].Row.BankDetails)
	assert.Nil(t, enriched[1].Row.BankDetails)
	assert.NotNil(t, enriched[2].Row.BankDetails)
	for _, e := range enriched {
		assert.False(t, e.Degraded)
	}
}

func TestEnrichBackendErrorMarksRowDegraded(t *testing.T) {
	rows := []*groomerRow{
		{Name: "Green Paws Salon"},
		{Name: "Blue Grooming"},
	}
	details := map[string]*bankInfo{
		"Green Paws Salon": {BankName: "KCB", AccountNumber: "111"},
		"Blue Grooming":    {BankName: "DTB", AccountNumber: "222"},
	}

	enriched := Enrich(context.Background(), rows, []Lookup[groomerRow]{
		bankLookup(details, map[string]bool{"Blue Grooming": true}),
	})

	require.Len(t, enriched, 2)
	assert.False(t, enriched[0].Degraded)
	assert.True(t, enriched[1].Degraded)
	assert.Nil(t, enriched[1].Row.BankDetails)
}

func TestEnrichNotFoundPlaceholderApplied(t *testing.T) {
	rows := []*groomerRow{{Name: "Green Paws Salon"}}

	enriched := Enrich(context.Background(), rows, []Lookup[groomerRow]{
		contactLookup(map[string]string{}),
	})

	require.Len(t, enriched, 1)
	assert.Equal(t, PlaceholderNotProvided, enriched[0].Row.ContactName)
	assert.False(t, enriched[0].Degraded)
}

func TestEnrichMultipleLookupsPerRow(t *testing.T) {
	rows := []*groomerRow{
		{Name: "Green Paws Salon"},
		{Name: "Blue Grooming"},
	}
	details := map[string]*bankInfo{
		"Green Paws Salon": {BankName: "KCB", AccountNumber: "111"},
	}
	contacts := map[string]string{
		"Blue Grooming": "Jess",
	}

	enriched := Enrich(context.Background(), rows, []Lookup[groomerRow]{
		bankLookup(details, nil),
		contactLookup(contacts),
	})

	require.Len(t, enriched, 2)
	assert.NotNil(t, enriched[0].Row.BankDetails)
	assert.Equal(t, PlaceholderNotProvided, enriched[0].Row.ContactName)
	assert.Nil(t, enriched[1].Row.BankDetails)
	assert.Equal(t, "Jess", enriched[1].Row.ContactName)
}

func TestEnrichRunsEveryLookupOnce(t *testing.T) {
	var calls int64
	rows := make([]*groomerRow, 50)
	for i := range rows {
		rows[i] = &groomerRow{Name: "salon"}
	}

	counting := Lookup[groomerRow]{
		Name: "counting",
		Fetch: func(_ context.Context, _ *groomerRow) error {
			atomic.AddInt64(&calls, 1)
			return nil
		},
	}

	enriched := Enrich(context.Background(), rows, []Lookup[groomerRow]{counting, counting})
	require.Len(t, enriched, 50)
	assert.Equal(t, int64(100), atomic.LoadInt64(&calls))
}

func TestRows(t *testing.T) {
	enriched := []Enriched[groomerRow]{
		{Row: &groomerRow{Name: "a"}},
		{Row: &groomerRow{Name: "b"}, Degraded: true},
	}
	rows := Rows(enriched)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].Name)
	assert.Equal(t, "b", rows[1].Name)
}
