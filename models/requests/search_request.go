package requests

// SearchRequest Queries one provider's job board.
type SearchRequest struct {
	Provider string `json:"provider" binding:"required"`
	Query    string `json:"query" binding:"required"`
}
