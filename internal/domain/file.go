package domain

// UploadedFile is an object stored in media storage.
type UploadedFile struct {
	FileID string `json:"file_id"`
	URL    string `json:"url"`
}

const ImageContentType = "image/jpeg"
