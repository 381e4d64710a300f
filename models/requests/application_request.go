package requests

// ApplicationStartRequest Starts an automation run for an already tracked application.
type ApplicationStartRequest struct {
	Provider string `json:"provider" binding:"required"`
	Mode     string `json:"mode"`
}

// ApplicationCreateRequest Adds an application to the tracking table. The key is
// derived server-side from company and title.
type ApplicationCreateRequest struct {
	Company     string  `json:"company" valid:"Required"`
	Title       string  `json:"title" valid:"Required"`
	URL         string  `json:"url"`
	Provider    string  `json:"provider"`
	Score       float64 `json:"score"`
	SalaryMin   int     `json:"salaryMin"`
	SalaryMax   int     `json:"salaryMax"`
	Description string  `json:"description"`
	ExternalID  string  `json:"externalId"`
	ResumePath  string  `json:"resumePath"`
	CoverLetter string  `json:"coverLetter"`
}

// ApplicationStatusRequest Manually moves an application through the pipeline,
// i.e. after an interview invitation arrived by mail.
type ApplicationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
