package domain

type ItemKind string

const (
	KindBook      ItemKind = "book"
	KindAudiobook ItemKind = "audiobook"
	KindExplained ItemKind = "explained"
)

// LibraryItem is a catalog record. Only items with a MediaURL can be cached offline.
type LibraryItem struct {
	ID       string   `json:"id" mapstructure:"id"`
	Kind     ItemKind `json:"type" mapstructure:"kind"`
	Title    string   `json:"title" mapstructure:"title"`
	Author   string   `json:"author,omitempty" mapstructure:"author"`
	Duration string   `json:"duration,omitempty" mapstructure:"duration"`
	CoverURL string   `json:"coverUrl,omitempty" mapstructure:"cover_url"`
	MediaURL string   `json:"mediaUrl,omitempty" mapstructure:"media_url"`
}

func (i LibraryItem) HasMedia() bool {
	return i.MediaURL != ""
}
