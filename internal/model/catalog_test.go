package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog_RejectsDuplicates(t *testing.T) {
	_, err := NewCatalog([]Item{
		{ID: "a.com", Category: Critical},
		{ID: "a.com", Category: Low},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate domain a.com")
}

func TestNewCatalog_RejectsUnknownCategory(t *testing.T) {
	_, err := NewCatalog([]Item{{ID: "a.com", Category: "urgent"}})
	require.Error(t, err)
}

func TestFromGroups_OrdersByCategory(t *testing.T) {
	c, err := FromGroups(map[Category][]string{
		Low:      {"z.com", "y.com"},
		Critical: {"b.com"},
	})
	require.NoError(t, err)

	var ids []string
	for _, it := range c.Items() {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"b.com", "z.com", "y.com"}, ids)
	assert.Equal(t, map[Category]int{Critical: 1, High: 0, Medium: 0, Low: 2}, c.Counts())
	assert.Equal(t, []string{}, c.ByCategory()[High])
	assert.True(t, c.Contains("y.com"))
	assert.False(t, c.Contains("x.com"))
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseFilter("HIGH")
	require.NoError(t, err)
	assert.True(t, f.Matches(High))
	assert.False(t, f.Matches(Low))

	_, err = ParseFilter("nope")
	assert.Error(t, err)
}

func TestFilter_NextCycles(t *testing.T) {
	f := FilterAll
	seen := []Filter{f}
	for i := 0; i < len(Filters); i++ {
		f = f.Next()
		seen = append(seen, f)
	}
	assert.Equal(t, FilterAll, seen[len(seen)-1])
	assert.Equal(t, Filter(Critical), seen[1])
}

func TestTheme_Toggle(t *testing.T) {
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, Theme("").Toggle())
}
