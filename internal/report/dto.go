package report

type SubmitRequest struct {
	Name        string   `json:"name"`
	Discord     string   `json:"discord"`
	Content     string   `json:"content"`
	Attachments []string `json:"attachments"`
}

type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CreateInternalRequest struct {
	FromPersonnelID *int64 `json:"fromPersonnelId"`
	FromName        string `json:"fromName"`
	ToPersonnelID   *int64 `json:"toPersonnelId"`
	ToName          string `json:"toName"`
	Subject         string `json:"subject"`
	Content         string `json:"content"`
	Attachment      string `json:"attachment"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}
