package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Object storage layout under one asset:
//
//	<userID>/<fileKey>/original.<ext>
//	<userID>/<fileKey>/output.m3u8
//	<userID>/<fileKey>/segment_NNN.ts
//	<userID>/<fileKey>/output_signed.m3u8
const (
	PlaylistFile       = "output.m3u8"
	SignedPlaylistFile = "output_signed.m3u8"
	SegmentSuffix      = ".ts"
	OriginalBaseName   = "original"
	DefaultVideoExt    = ".mp4"
)

func AssetPrefix(userID, fileKey string) string {
	return fmt.Sprintf("%s/%s/", userID, fileKey)
}

func OriginalKey(userID, fileKey, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = DefaultVideoExt
	}
	return AssetPrefix(userID, fileKey) + OriginalBaseName + ext
}

func PlaylistKey(userID, fileKey string) string {
	return AssetPrefix(userID, fileKey) + PlaylistFile
}

func SignedPlaylistKey(userID, fileKey string) string {
	return AssetPrefix(userID, fileKey) + SignedPlaylistFile
}
