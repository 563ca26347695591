// Package catalog serves the static library records. Items are immutable once loaded.
package catalog

import (
	"fmt"

	"github.com/datallboy/mediashelf/internal/domain"
)

type Catalog struct {
	items []domain.LibraryItem
	byID  map[string]domain.LibraryItem
}

// New builds a catalog from items, keeping their order. Duplicate ids are rejected.
func New(items []domain.LibraryItem) (*Catalog, error) {
	c := &Catalog{
		items: make([]domain.LibraryItem, 0, len(items)),
		byID:  make(map[string]domain.LibraryItem, len(items)),
	}
	for _, item := range items {
		if _, dup := c.byID[item.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog id %q", item.ID)
		}
		c.items = append(c.items, item)
		c.byID[item.ID] = item
	}
	return c, nil
}

func (c *Catalog) All() []domain.LibraryItem {
	out := make([]domain.LibraryItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Get(id string) (domain.LibraryItem, error) {
	item, ok := c.byID[id]
	if !ok {
		return domain.LibraryItem{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return item, nil
}

func (c *Catalog) ByKind(kind domain.ItemKind) []domain.LibraryItem {
	var out []domain.LibraryItem
	for _, item := range c.items {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out
}

// Default is the built-in library used when the config lists no catalog.
func Default() []domain.LibraryItem {
	const media = "https://www.soundhelix.com/examples/mp3/"
	return []domain.LibraryItem{
		{ID: "b1", Kind: domain.KindBook, Title: "A Arte da Guerra", Author: "Sun Tzu", CoverURL: "https://picsum.photos/seed/b1/400/600"},
		{ID: "b2", Kind: domain.KindBook, Title: "O Poder do Hábito", Author: "Charles Duhigg", CoverURL: "https://picsum.photos/seed/b2/400/600"},
		{ID: "b3", Kind: domain.KindBook, Title: "Sapiens: Uma Breve História da Humanidade", Author: "Yuval Noah Harari", CoverURL: "https://picsum.photos/seed/b3/400/600"},
		{ID: "b4", Kind: domain.KindBook, Title: "1984", Author: "George Orwell", CoverURL: "https://picsum.photos/seed/b4/400/600"},
		{ID: "a1", Kind: domain.KindAudiobook, Title: "O Alquimista", Author: "Paulo Coelho", Duration: "4h 22m", CoverURL: "https://picsum.photos/seed/a1/400/400", MediaURL: media + "SoundHelix-Song-1.mp3"},
		{ID: "a2", Kind: domain.KindAudiobook, Title: "Mindset: A Nova Psicologia do Sucesso", Author: "Carol S. Dweck", Duration: "8h 5m", CoverURL: "https://picsum.photos/seed/a2/400/400", MediaURL: media + "SoundHelix-Song-2.mp3"},
		{ID: "a3", Kind: domain.KindAudiobook, Title: "Pai Rico, Pai Pobre", Author: "Robert T. Kiyosaki", Duration: "6h 30m", CoverURL: "https://picsum.photos/seed/a3/400/400", MediaURL: media + "SoundHelix-Song-3.mp3"},
		{ID: "e1", Kind: domain.KindExplained, Title: "Essencialismo em 10 Minutos", Duration: "10m", CoverURL: "https://picsum.photos/seed/e1/400/400", MediaURL: media + "SoundHelix-Song-4.mp3"},
		{ID: "e2", Kind: domain.KindExplained, Title: "Os 7 Hábitos Explicados", Duration: "15m", CoverURL: "https://picsum.photos/seed/e2/400/400", MediaURL: media + "SoundHelix-Song-5.mp3"},
		{ID: "e3", Kind: domain.KindExplained, Title: "Decifrando Rápido e Devagar", Duration: "12m", CoverURL: "https://picsum.photos/seed/e3/400/400", MediaURL: media + "SoundHelix-Song-6.mp3"},
		{ID: "e4", Kind: domain.KindExplained, Title: "O Ponto da Virada: Resumo", Duration: "8m", CoverURL: "https://picsum.photos/seed/e4/400/400", MediaURL: media + "SoundHelix-Song-7.mp3"},
	}
}
