package catalog

import (
	"testing"

	"github.com/datallboy/mediashelf/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := New(Default())
	require.NoError(t, err)

	assert.Len(t, c.All(), 11)
	assert.Len(t, c.ByKind(domain.KindBook), 4)
	assert.Len(t, c.ByKind(domain.KindAudiobook), 3)
	assert.Len(t, c.ByKind(domain.KindExplained), 4)

	for _, b := range c.ByKind(domain.KindBook) {
		assert.False(t, b.HasMedia(), b.ID)
	}

	a1, err := c.Get("a1")
	require.NoError(t, err)
	assert.Equal(t, "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3", a1.MediaURL)
}

func TestGet_Unknown(t *testing.T) {
	c, err := New(Default())
	require.NoError(t, err)

	_, err = c.Get("zz")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestNew_RejectsDuplicates(t *testing.T) {
	_, err := New([]domain.LibraryItem{{ID: "a1"}, {ID: "a1"}})
	assert.Error(t, err)
}

func TestAll_ReturnsCopy(t *testing.T) {
	c, err := New(Default())
	require.NoError(t, err)

	items := c.All()
	items[0].Title = "changed"
	first, _ := c.Get(items[0].ID)
	assert.NotEqual(t, "changed", first.Title)
}
