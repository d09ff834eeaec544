package domain

// ComplaintInput is one user submission. It lives for a single analysis.
type ComplaintInput struct {
	Image       []byte
	MimeType    string
	Filename    string
	Description string
}

// Assessment is the structured answer to the assessment query.
type Assessment struct {
	ProductCondition   string `json:"product_condition"`
	ExpiryStatus       string `json:"expiry_status"`
	PackagingIntegrity string `json:"packaging_integrity"`
	FoodSafetyConcerns string `json:"food_safety_concerns"`
	Severity           string `json:"severity"`
}

// Report bundles everything the renderer needs for one analysis.
type Report struct {
	Input        ComplaintInput
	Assessment   Assessment
	Observations string
}
