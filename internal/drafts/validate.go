package drafts

import (
	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/haroldnikoue/storefront-backend/pkg/errors"
	"github.com/haroldnikoue/storefront-backend/pkg/types"
)

// knownFieldRules is the lenient draft schema: fields the checkout form is
// known to produce are type- and format-checked, anything else passes
// through untouched. Drafts are partial by nature, so every rule is
// omitempty-style and only fires when the field is present.
var knownFieldRules = map[string]string{
	"email":       "email",
	"phone":       "max=32",
	"first_name":  "max=100",
	"last_name":   "max=100",
	"company":     "max=150",
	"line1":       "max=200",
	"line2":       "max=200",
	"city":        "max=100",
	"state":       "max=100",
	"postal_code": "max=20",
	"country":     "len=2",
	"notes":       "max=2000",
}

// ValidateDraftData checks known scalar fields against the lenient schema.
// Violations come back as one validation error carrying a field→problem map;
// unknown fields are never rejected.
func ValidateDraftData(validate *validator.Validate, data types.DraftData) error {
	if len(data) == 0 {
		return nil
	}

	problems := map[string]string{}
	for field, rule := range knownFieldRules {
		raw, present := data[field]
		if !present || raw == nil {
			continue
		}
		value, ok := raw.(string)
		if !ok {
			problems[field] = "must be a string"
			continue
		}
		if value == "" {
			continue
		}
		if err := validate.Var(value, rule); err != nil {
			problems[field] = "failed on rule " + rule
		}
	}

	if len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "draft data failed validation").
			WithDetails(problems)
	}
	return nil
}
