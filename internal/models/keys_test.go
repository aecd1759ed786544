package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKeys(t *testing.T) {
	assert.Equal(t, "user_1/key_1/", AssetPrefix("user_1", "key_1"))
	assert.Equal(t, "user_1/key_1/output.m3u8", PlaylistKey("user_1", "key_1"))
	assert.Equal(t, "user_1/key_1/output_signed.m3u8", SignedPlaylistKey("user_1", "key_1"))
}

func TestOriginalKey(t *testing.T) {
	assert.Equal(t, "user_1/key_1/original.mp4", OriginalKey("user_1", "key_1", "clip.mp4"))
	assert.Equal(t, "user_1/key_1/original.webm", OriginalKey("user_1", "key_1", "clip.webm"))
	assert.Equal(t, "user_1/key_1/original.mov", OriginalKey("user_1", "key_1", "CLIP.MOV"))
	// No extension falls back to the default container.
	assert.Equal(t, "user_1/key_1/original.mp4", OriginalKey("user_1", "key_1", "clip"))
}
