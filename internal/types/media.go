package types

// MediaKind tells the object store which asset of a video it is handling.
type MediaKind string

const (
	MediaKindVideo     MediaKind = "video"
	MediaKindThumbnail MediaKind = "thumbnail"
)

// StoredObject is the durable result of one remote upload.
type StoredObject struct {
	Key      string  `json:"key"`
	URL      string  `json:"url"`
	Duration float64 `json:"duration,omitempty"`
}
