package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type salon struct {
	Name    string
	Address string
	Email   string
	Status  string
}

func salonFields(s *salon) []string {
	return []string{s.Name, s.Address, s.Email}
}

func TestMatchesQuery(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		fields []string
		want   bool
	}{
		{"empty query matches", "", []string{"anything"}, true},
		{"whitespace query matches", "   ", []string{"anything"}, true},
		{"case insensitive", "GREEN", []string{"Green Paws Salon"}, true},
		{"substring of later field", "oak", []string{"Blue Grooming", "45 Oak Ave"}, true},
		{"no match", "purple", []string{"Green Paws Salon", "123 Green St"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesQuery(tt.query, tt.fields...))
		})
	}
}

func TestFilterByQueryIntersectsWithStatusFilter(t *testing.T) {
	// The rows stand in for the result of a status = approved query; the
	// text filter must narrow that set, not replace it.
	approved := []*salon{
		{Name: "Green Paws Salon", Address: "123 Green St", Email: "hello@greenpaws.ke", Status: "approved"},
		{Name: "Blue Grooming", Address: "45 Oak Ave", Email: "info@bluegrooming.ke", Status: "approved"},
	}

	got := FilterByQuery(approved, "green", salonFields)

	require.Len(t, got, 1)
	assert.Equal(t, "Green Paws Salon", got[0].Name)
}

func TestFilterByQueryEmptyKeepsAll(t *testing.T) {
	rows := []*salon{{Name: "a"}, {Name: "b"}}
	got := FilterByQuery(rows, "", salonFields)
	assert.Len(t, got, 2)
}

func TestFilterByQueryMatchesAddress(t *testing.T) {
	rows := []*salon{
		{Name: "Blue Grooming", Address: "45 Green Ave"},
		{Name: "Happy Tails", Address: "9 Elm Rd"},
	}
	got := FilterByQuery(rows, "green", salonFields)
	require.Len(t, got, 1)
	assert.Equal(t, "Blue Grooming", got[0].Name)
}
