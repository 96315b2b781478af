package playback

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
)

// trackInfo extracts title, artist and album from the file's tags. Files
// without readable tags fall back to the bare file name as the title.
func trackInfo(path string) domain.TrackInfo {
	filename := filepath.Base(path)
	ext := filepath.Ext(filename)
	info := domain.TrackInfo{Title: strings.TrimSuffix(filename, ext)}

	file, err := os.Open(path)
	if err != nil {
		return info
	}
	defer func() {
		_ = file.Close()
	}()

	metadata, err := tag.ReadFrom(file)
	if err != nil || metadata == nil {
		return info
	}

	if title := strings.TrimSpace(metadata.Title()); title != "" {
		info.Title = title
	}
	info.Artist = strings.TrimSpace(metadata.Artist())
	info.Album = strings.TrimSpace(metadata.Album())

	return info
}
