package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/HarshJain-sudo/oldmachine-backend/utils"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateJSON decodes the JSON payload into dst and runs struct-tag
// validation. On failure it writes the error envelope and returns a
// non-nil error so the handler can bail out.
func ValidateJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid JSON body", "INVALID_DATA")
		return err
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			utils.Error(w, http.StatusBadRequest, verrs[0].Field()+" failed validation on '"+verrs[0].Tag()+"'", "INVALID_DATA")
			return err
		}
		utils.Error(w, http.StatusBadRequest, "Validation failed", "INVALID_DATA")
		return err
	}
	return nil
}
