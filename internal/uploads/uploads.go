// Package uploads drives the two-phase material upload pipeline: parallel
// uploads into a temporary object-store prefix, then a single finalize call
// that promotes the batch into permanent category-scoped paths.
package uploads

import (
	"context"
	"io"
	"path"
	"regexp"
	"strings"

	"brandvault/internal/models"
)

// ObjectStore is the slice of the storage service the pipeline needs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, keys ...string) error
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFileName strips everything outside [a-zA-Z0-9._-] from a filename.
func SanitizeFileName(name string) string {
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == "" {
		name = "arquivo"
	}
	return unsafeNameChars.ReplaceAllString(name, "_")
}

// SplitName separates a filename into base name and lowercased extension.
func SplitName(name string) (base, ext string) {
	ext = strings.TrimPrefix(path.Ext(name), ".")
	base = strings.TrimSuffix(name, path.Ext(name))
	if base == "" {
		base = name
	}
	return base, strings.ToLower(ext)
}

var extensionTypes = map[string]models.AssetType{
	"jpg": models.AssetTypeImage, "jpeg": models.AssetTypeImage,
	"png": models.AssetTypeImage, "gif": models.AssetTypeImage,
	"webp": models.AssetTypeImage, "svg": models.AssetTypeImage,
	"mp4": models.AssetTypeVideo, "mov": models.AssetTypeVideo,
	"avi": models.AssetTypeVideo, "webm": models.AssetTypeVideo,
	"pdf": models.AssetTypeDocument, "doc": models.AssetTypeDocument,
	"docx": models.AssetTypeDocument, "ppt": models.AssetTypeDocument,
	"pptx": models.AssetTypeDocument, "xls": models.AssetTypeDocument,
	"xlsx": models.AssetTypeDocument, "txt": models.AssetTypeDocument,
	"zip": models.AssetTypeArchive, "rar": models.AssetTypeArchive,
	"7z": models.AssetTypeArchive, "tar": models.AssetTypeArchive,
	"gz": models.AssetTypeArchive,
}

// DetectAssetType classifies a file by MIME type first, extension second.
func DetectAssetType(mimeType, ext string) models.AssetType {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return models.AssetTypeImage
	case strings.HasPrefix(mimeType, "video/"):
		return models.AssetTypeVideo
	}
	if t, ok := extensionTypes[strings.ToLower(ext)]; ok {
		return t
	}
	return models.AssetTypeDocument
}
