package checkout

import (
	"regexp"
	"strings"

	"github.com/asifmahmud/banglahat-backend/internal/geo"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
)

// phonePattern matches Bangladeshi mobile numbers: 018..., 017... and so on.
var phonePattern = regexp.MustCompile(`^01[3-9]\d{8}$`)

const minAddressLength = 10

// validateStep checks only the fields owned by the given step. Fields from
// later steps are never inspected, so an empty payment block does not block
// the address step.
func validateStep(step int, form FormData, geoSvc geo.Service) map[string]string {
	fieldErrors := map[string]string{}

	switch step {
	case 1:
		if strings.TrimSpace(form.CustomerName) == "" {
			fieldErrors["customerName"] = "name is required"
		}
		if !phonePattern.MatchString(form.Phone) {
			fieldErrors["phone"] = "phone must be a valid Bangladeshi mobile number"
		}

	case 2:
		if form.District == "" {
			fieldErrors["district"] = "district is required"
		} else if _, known := geoSvc.Thanas(form.District); !known {
			fieldErrors["district"] = "unknown district"
		} else {
			// thana is required iff the district has thana data
			if geoSvc.RequiresThana(form.District) {
				if form.Thana == "" {
					fieldErrors["thana"] = "thana is required for this district"
				} else if !geoSvc.ValidThana(form.District, form.Thana) {
					fieldErrors["thana"] = "thana does not belong to the selected district"
				}
			}
		}
		if len([]rune(strings.TrimSpace(form.Address))) < minAddressLength {
			fieldErrors["address"] = "address is too short"
		}

	case 3:
		if strings.TrimSpace(form.PaymentNumber) == "" {
			fieldErrors["paymentNumber"] = "payment number is required"
		}
		if strings.TrimSpace(form.TransactionID) == "" {
			fieldErrors["transactionId"] = "transaction id is required"
		}
		if form.PaymentMethod != "" && !form.PaymentMethod.IsValid() {
			fieldErrors["paymentMethod"] = "unknown payment method"
		}
	}

	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

func validationError(fieldErrors map[string]string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "checkout step validation failed").
		WithDetails(map[string]any{"fields": fieldErrors})
}
