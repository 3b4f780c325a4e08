package api

const (
	// PrmFile parameter
	PrmFile = "file"
	// PrmLanguage parameter
	PrmLanguage = "language"
	// PrmEmail parameter
	PrmEmail = "email"
)

// UploadResult - upload method response in JSON
type UploadResult struct {
	ID string `json:"id"`
}

// StatusResult - job status response in JSON
type StatusResult struct {
	ID       string  `json:"id"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
	Model    string  `json:"model,omitempty"`
	Language string  `json:"language,omitempty"`
	Error    string  `json:"error,omitempty"`
}
