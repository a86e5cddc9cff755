package announcement

type CreateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

type UpdateRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Type    *string `json:"type"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}
