package models

// FrameMessage is one frame pushed over the stream channel. FrameImage is a
// JPEG still; encoding/json emits it base64 encoded.
type FrameMessage struct {
	FrameImage  []byte  `json:"frame_image"`
	FrameCount  int     `json:"frame_count"`
	TotalFrames int     `json:"total_frames"`
	FPS         float64 `json:"fps"`
	FileKey     string  `json:"file_key"`
}

// DrawInput is the annotation payload; it is acknowledged and logged only.
type DrawInput struct {
	FileKey    string     `json:"file_key"`
	FrameIndex int        `json:"frame_index"`
	Lines      []DrawLine `json:"lines"`
}

type DrawLine struct {
	Points []DrawPoint `json:"points"`
}

type DrawPoint struct {
	XPercentage float64 `json:"xPercentage"`
	YPercentage float64 `json:"yPercentage"`
}
