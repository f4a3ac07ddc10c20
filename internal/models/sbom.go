package models

// SBOMUpload describes the multipart upload to update-sbom.
type SBOMUpload struct {
	FilePath    string
	DisplayName string
	BranchName  string
}

// SBOMUploadResult is the subset of the API answer we log.
type SBOMUploadResult struct {
	ComponentCount int `json:"componentCount"`
}
