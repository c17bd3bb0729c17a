package models

// Upload is a file kept in the local uploads map after a failed remote upload.
type Upload struct {
	ID        string `json:"id"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	DataURL   string `json:"data_url"`
	CreatedAt string `json:"created_at"`
}

// UploadResult mirrors the response of a successful POST /files/upload.
type UploadResult struct {
	FileURL       string `json:"file_url"`
	FileID        string `json:"file_id"`
	FileName      string `json:"file_name"`
	MimeType      string `json:"mime_type"`
	StoredLocally bool   `json:"stored_locally,omitempty"`
}
