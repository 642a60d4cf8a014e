package dto

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse carries the assistant's natural-language answer.
type ChatResponse struct {
	Response string `json:"response"`
}
