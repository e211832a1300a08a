package utils

// ExtensionForType maps a photo content type to the on-disk file extension.
// Unknown types fall back to jpg, which is what the remote service serves
// when it doesn't label a rendition.
func ExtensionForType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/heic":
		return "heic"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "video/mp4":
		return "mp4"
	default:
		return "jpg"
	}
}

// IsVideoType reports whether the content type is a video rendition.
func IsVideoType(contentType string) bool {
	return contentType == "video/mp4"
}
