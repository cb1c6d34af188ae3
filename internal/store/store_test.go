package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/breachtrack/internal/kv"
	"github.com/idilsaglam/breachtrack/internal/model"
)

var fixedNow = func() time.Time { return time.Date(2025, 8, 27, 16, 35, 0, 0, time.UTC) }

func testCatalog(t *testing.T) model.Catalog {
	t.Helper()
	c, err := model.NewCatalog([]model.Item{
		{ID: "a.com", Category: model.Critical},
		{ID: "b.com", Category: model.Low},
	})
	require.NoError(t, err)
	return c
}

// brokenKV fails every call, like a disabled or full storage backend.
type brokenKV struct {
	failGets bool
	sets     int
}

var errBroken = errors.New("quota exceeded")

func (b *brokenKV) Get(context.Context, string) ([]byte, error) {
	if b.failGets {
		return nil, errBroken
	}
	return nil, kv.ErrNotFound
}

func (b *brokenKV) Set(context.Context, string, []byte) error {
	b.sets++
	return errBroken
}

func (b *brokenKV) Close() error { return nil }

func TestStore_WriteThenRead(t *testing.T) {
	s := Open(kv.NewMemory())
	for _, id := range []string{"a.com", "b.com", "orphan.example"} {
		for _, v := range []bool{true, false, true} {
			assert.Equal(t, Saved, s.SetChecked(id, v))
			assert.Equal(t, v, s.GetChecked(id))
		}
	}

	assert.Equal(t, "", s.GetNote("a.com"))
	s.SetNote("a.com", "rotated password")
	assert.Equal(t, "rotated password", s.GetNote("a.com"))
}

func TestStore_SetCheckedIdempotent(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := Open(backend)

	s.SetChecked("a.com", true)
	first, err := backend.Get(ctx, KeyChecklist)
	require.NoError(t, err)
	s.SetChecked("a.com", true)
	second, err := backend.Get(ctx, KeyChecklist)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStore_ToggleChecked(t *testing.T) {
	s := Open(kv.NewMemory())
	v, _ := s.ToggleChecked("a.com")
	assert.True(t, v)
	v, _ = s.ToggleChecked("a.com")
	assert.False(t, v)
	assert.False(t, s.GetChecked("a.com"))
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s := Open(kv.NewFile(path))
	s.SetChecked("a.com", true)
	s.SetNote("b.com", "watch this")
	s.SetTheme(model.ThemeLight)
	s.SetCategoryCollapsed(model.Low, true)
	s.SetHeaderCollapsed(true)
	s.MarkWelcomeShown()

	again := Open(kv.NewFile(path))
	assert.True(t, again.GetChecked("a.com"))
	assert.Equal(t, "watch this", again.GetNote("b.com"))
	assert.Equal(t, model.ThemeLight, again.Theme())
	assert.True(t, again.CategoryCollapsed(model.Low))
	assert.False(t, again.CategoryCollapsed(model.Critical))
	assert.Equal(t, map[model.Category]bool{model.Low: true}, again.Collapsed())
	assert.True(t, again.HeaderCollapsed())
	assert.True(t, again.WelcomeShown())
}

func TestStore_CategoriesKeepExpandedShape(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := Open(backend)
	s.SetCategoryCollapsed(model.High, true)

	raw, err := backend.Get(ctx, KeyCategories)
	require.NoError(t, err)
	assert.JSONEq(t, `{"critical":true,"high":false,"medium":true,"low":true}`, string(raw))
}

func TestStore_MergesWritesFromOtherHandles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	one := Open(kv.NewFile(path))
	two := Open(kv.NewFile(path))

	one.SetChecked("a.com", true)
	two.SetChecked("b.com", true)

	fresh := Open(kv.NewFile(path))
	assert.True(t, fresh.GetChecked("a.com"))
	assert.True(t, fresh.GetChecked("b.com"))
}

func TestStore_ReloadsRecordsReplacedElsewhere(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	running := Open(kv.NewFile(path))
	running.SetChecked("a.com", true)
	running.SetNote("a.com", "old")

	other := Open(kv.NewFile(path))
	_, err := other.ImportSnapshot(&Snapshot{
		Catalog: map[model.Category][]string{},
		Checked: map[string]bool{"b.com": true},
		Notes:   map[string]string{"b.com": "new"},
	})
	require.NoError(t, err)

	running.SetChecked("c.com", true)
	running.SetNote("c.com", "later")

	fresh := Open(kv.NewFile(path))
	assert.Equal(t, map[string]bool{"b.com": true, "c.com": true}, fresh.UserState().Checked)
	assert.Equal(t, map[string]string{"b.com": "new", "c.com": "later"}, fresh.UserState().Notes)
}

func TestStore_DegradesOnWriteFailure(t *testing.T) {
	b := &brokenKV{}
	s := Open(b)
	require.False(t, s.Degraded())

	assert.Equal(t, MemoryOnly, s.SetChecked("a.com", true))
	assert.True(t, s.Degraded())
	assert.True(t, s.GetChecked("a.com"))

	// Once degraded, the backend is left alone.
	s.SetNote("a.com", "x")
	assert.Equal(t, 1, b.sets)
	assert.Equal(t, "x", s.GetNote("a.com"))
}

func TestStore_ReadFailureFallsBackToDefaults(t *testing.T) {
	s := Open(&brokenKV{failGets: true})
	assert.False(t, s.GetChecked("a.com"))
	assert.Equal(t, model.ThemeDark, s.Theme())
	assert.False(t, s.HeaderCollapsed())
	assert.False(t, s.CategoryCollapsed(model.Critical))
}

func TestStore_NilBackendIsMemoryOnly(t *testing.T) {
	s := Open(nil)
	assert.True(t, s.Degraded())
	assert.Equal(t, MemoryOnly, s.SetChecked("a.com", true))
	assert.True(t, s.GetChecked("a.com"))
	assert.NoError(t, s.Close())
}

func TestStore_ImportIsAllOrNothing(t *testing.T) {
	c := testCatalog(t)
	s := Open(kv.NewMemory(), WithClock(fixedNow))
	s.SetChecked("a.com", true)
	s.SetNote("b.com", "keep me")

	before, err := json.Marshal(s.ExportSnapshot(c))
	require.NoError(t, err)

	bad := []*Snapshot{
		nil,
		{Checked: map[string]bool{}, Notes: map[string]string{}},
		{Catalog: map[model.Category][]string{}, Notes: map[string]string{}},
		{Catalog: map[model.Category][]string{"severe": {}}, Checked: map[string]bool{}, Notes: map[string]string{}},
		{Catalog: map[model.Category][]string{}, Checked: map[string]bool{"": true}, Notes: map[string]string{}},
	}
	for i, snap := range bad {
		_, err := s.ImportSnapshot(snap)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "case %d", i)

		after, err := json.Marshal(s.ExportSnapshot(c))
		require.NoError(t, err)
		assert.Equal(t, string(before), string(after), "case %d", i)
	}
}

func TestStore_ImportOverwritesAndKeepsOrphans(t *testing.T) {
	s := Open(kv.NewMemory())
	s.SetChecked("a.com", true)
	s.SetNote("a.com", "old")

	res, err := s.ImportSnapshot(&Snapshot{
		Catalog: map[model.Category][]string{model.Low: {"b.com"}},
		Checked: map[string]bool{"b.com": true, "unknown.example": true},
		Notes:   map[string]string{},
	})
	require.NoError(t, err)
	assert.Equal(t, Saved, res)
	assert.False(t, s.GetChecked("a.com"))
	assert.Equal(t, "", s.GetNote("a.com"))
	assert.True(t, s.GetChecked("b.com"))
	assert.True(t, s.GetChecked("unknown.example"))
}

func TestStore_ImportWithoutNotesKeepsNotes(t *testing.T) {
	s := Open(kv.NewMemory())
	s.SetChecked("b.com", true)
	s.SetNote("b.com", "rotated password")

	res, err := s.ImportSnapshot(&Snapshot{
		Catalog: map[model.Category][]string{model.Critical: {"a.com"}},
		Checked: map[string]bool{"a.com": true},
	})
	require.NoError(t, err)
	assert.Equal(t, Saved, res)
	assert.True(t, s.GetChecked("a.com"))
	assert.False(t, s.GetChecked("b.com"))
	assert.Equal(t, "rotated password", s.GetNote("b.com"))
}

func TestStore_ExportSnapshot(t *testing.T) {
	c := testCatalog(t)
	s := Open(kv.NewMemory(), WithClock(fixedNow))
	s.SetChecked("a.com", true)
	s.SetNote("b.com", "watch this")

	snap := s.ExportSnapshot(c)
	assert.Equal(t, fixedNow(), snap.Timestamp)
	assert.Equal(t, map[string]bool{"a.com": true}, snap.Checked)
	assert.Equal(t, map[string]string{"b.com": "watch this"}, snap.Notes)
	assert.Equal(t, []string{"a.com"}, snap.Catalog[model.Critical])

	// The snapshot is a copy.
	snap.Checked["a.com"] = false
	assert.True(t, s.GetChecked("a.com"))
}
