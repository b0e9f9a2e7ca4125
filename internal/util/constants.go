package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

const (
	MimeImage       = "image/"
	MimeOctetStream = "application/octet-stream"
)

const (
	MediaKindImage    = "image"
	MediaKindPanorama = "panorama"
)

var AllowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// CompletionThreshold is the percentage at which a scenario counts as completed.
const CompletionThreshold = 100.0

const DefaultPassingScore = 70.0
