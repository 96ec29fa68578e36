package dto

type EligibilityCheckRequest struct {
	Category       string   `json:"category" validate:"required,max=100"`
	Subcategories  []string `json:"subcategories" validate:"max=10,dive,max=100"`
	ProductName    string   `json:"product_name" validate:"required,max=255"`
	CompanyName    string   `json:"company_name" validate:"required,max=255"`
	Location       string   `json:"location" validate:"max=255"`
	Certifications []string `json:"certifications" validate:"max=20,dive,max=255"`
	Description    string   `json:"description" validate:"max=4000"`
}

type ClarificationAnswer struct {
	Question string `json:"question" validate:"required,max=500"`
	Answer   string `json:"answer" validate:"required,max=2000"`
}

type EligibilityFinalizeRequest struct {
	EligibilityCheckRequest
	Answers []ClarificationAnswer `json:"answers" validate:"required,min=1,max=3,dive"`
}

type EligibilityResponse struct {
	Decision            string   `json:"decision"`
	Reason              string   `json:"reason"`
	Certifications      []string `json:"certifications"`
	ClarifyingQuestions []string `json:"clarifying_questions,omitempty"`
	ProductId           string   `json:"product_id,omitempty"`
}
