package personnel

type CreateRequest struct {
	Name       string  `json:"name"`
	Rank       string  `json:"rank"`
	Badge      *string `json:"badge"`
	Department string  `json:"department"`
	Discord    *string `json:"discord"`
	Status     string  `json:"status"`
	ImageURL   *string `json:"imageUrl"`
	Notes      *string `json:"notes"`
}

type UpdateRequest struct {
	Name       *string `json:"name"`
	Rank       *string `json:"rank"`
	Badge      *string `json:"badge"`
	Department *string `json:"department"`
	Discord    *string `json:"discord"`
	Status     *string `json:"status"`
	ImageURL   *string `json:"imageUrl"`
	Notes      *string `json:"notes"`
}

// CreateRecordRequest accepts the date as RFC 3339 or YYYY-MM-DD. Any
// createdBy sent by the client is ignored.
type CreateRecordRequest struct {
	PersonnelID int64   `json:"personnelId"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	Date        *string `json:"date"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}
