package vision

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vbonduro/snapback/internal/domain"
)

// assessmentKeys lists the keys every assessment answer must carry.
var assessmentKeys = []string{
	"product_condition",
	"expiry_status",
	"packaging_integrity",
	"food_safety_concerns",
	"severity",
}

// ParseAssessment decodes raw strictly as a JSON object holding all five
// assessment keys as strings. Values are returned verbatim. Any deviation is
// a domain.ErrParse failure; no repair is attempted.
func ParseAssessment(raw string) (*domain.Assessment, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, domain.WrapError(domain.ErrParse, "parse assessment", err)
	}

	values := make(map[string]string, len(assessmentKeys))
	for _, key := range assessmentKeys {
		val, ok := fields[key]
		if !ok {
			return nil, domain.WrapError(domain.ErrParse, "parse assessment", fmt.Errorf("missing key %q", key))
		}
		var s string
		if bytes.Equal(bytes.TrimSpace(val), []byte("null")) {
			return nil, domain.WrapError(domain.ErrParse, "parse assessment", fmt.Errorf("key %q is null", key))
		}
		if err := json.Unmarshal(val, &s); err != nil {
			return nil, domain.WrapError(domain.ErrParse, "parse assessment", fmt.Errorf("key %q is not a string", key))
		}
		values[key] = s
	}

	return &domain.Assessment{
		ProductCondition:   values["product_condition"],
		ExpiryStatus:       values["expiry_status"],
		PackagingIntegrity: values["packaging_integrity"],
		FoodSafetyConcerns: values["food_safety_concerns"],
		Severity:           values["severity"],
	}, nil
}
