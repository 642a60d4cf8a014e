package dto

// UpdateTransactionRequest is the body of PUT /transactions/:id.
// Only the label and the two category fields are mutable.
type UpdateTransactionRequest struct {
	Label          string  `json:"label" binding:"required"`
	Category       *string `json:"category"`
	CategoryParent *string `json:"categoryParent"`
}

// UploadResponse is the payload of POST /transactions/upload.
type UploadResponse struct {
	Success        bool   `json:"success"`
	Count          int    `json:"count"`
	Categorization string `json:"categorization"`
}
