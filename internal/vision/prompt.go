package vision

import "fmt"

const assessmentTemplate = `
Analyze this food-related complaint: "%s". Based on the uploaded image, perform the following checks:

1. **Product Condition**: Assess the physical state of the food item.
2. **Expiry Date**: Verify if the product is expired or close to expiration.
3. **Packaging Integrity**: Check for signs of tampering, leaks, or damage.
4. **Food Safety Concerns**: Identify potential health hazards.

Respond in JSON format:
{
  "product_condition": "...",
  "expiry_status": "...",
  "packaging_integrity": "...",
  "food_safety_concerns": "...",
  "severity": "..."
}
`

const observationTemplate = `
Given the image, provide a detailed description of the observed issues, expanding on the initial complaint: "%s". Focus on:

- **Detailed Physical Observations**: Describe any visible defects, mold, discoloration, etc.
- **Contextual Information**: Note any text, logos, or environmental context in the image that might relate to the complaint.

Respond in a paragraph format:
`

// AssessmentPrompt builds the query whose answer must be a JSON object with
// the five assessment keys.
func AssessmentPrompt(complaint string) string {
	return fmt.Sprintf(assessmentTemplate, complaint)
}

// ObservationPrompt builds the query for the free-text observations paragraph.
func ObservationPrompt(complaint string) string {
	return fmt.Sprintf(observationTemplate, complaint)
}
