package models

// SegmentURL pairs a segment object key with its presigned URL so callers get
// a self-describing order instead of relying on storage enumeration order.
type SegmentURL struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type SignedPlaylist struct {
	PlaylistURL string       `json:"playlist_url"`
	Segments    []SegmentURL `json:"segment_urls"`
}
