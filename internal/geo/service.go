package geo

import (
	"github.com/shopspring/decimal"

	"github.com/asifmahmud/banglahat-backend/pkg/config"
)

// Service answers district and thana lookups and computes the delivery fee
// for a shipping address.
type Service interface {
	// Districts returns every selectable district in display order.
	Districts() []string

	// Thanas returns the thana list for a district. The second return is
	// false for unknown districts. A known district may have an empty list,
	// in which case the thana requirement is waived at checkout.
	Thanas(district string) ([]string, bool)

	// RequiresThana reports whether a thana must be chosen for the district.
	RequiresThana(district string) bool

	// ValidThana reports whether thana is a member of the district's list.
	ValidThana(district, thana string) bool

	// DeliveryFee returns the delivery charge in taka for the district given
	// the current cart subtotal.
	DeliveryFee(district string, subtotal decimal.Decimal) int
}

type service struct {
	cfg config.DeliveryConfig
}

func NewService(cfg config.DeliveryConfig) Service {
	return &service{cfg: cfg}
}

func (s *service) Districts() []string {
	out := make([]string, len(districtOrder))
	copy(out, districtOrder)
	return out
}

func (s *service) Thanas(district string) ([]string, bool) {
	thanas, ok := districtThanas[district]
	if !ok {
		return nil, false
	}
	out := make([]string, len(thanas))
	copy(out, thanas)
	return out, true
}

func (s *service) RequiresThana(district string) bool {
	thanas, ok := districtThanas[district]
	return ok && len(thanas) > 0
}

func (s *service) ValidThana(district, thana string) bool {
	thanas, ok := districtThanas[district]
	if !ok {
		return false
	}
	for _, t := range thanas {
		if t == thana {
			return true
		}
	}
	return false
}

func (s *service) DeliveryFee(district string, subtotal decimal.Decimal) int {
	if s.cfg.FreeDeliveryEnabled && s.cfg.FreeDeliveryThreshold > 0 &&
		subtotal.GreaterThanOrEqual(decimal.NewFromInt(int64(s.cfg.FreeDeliveryThreshold))) {
		return 0
	}
	// Before a district is chosen the storefront shows the inside-Dhaka fee.
	if district == "" || district == CapitalDistrict {
		return s.cfg.InsideDhakaFee
	}
	return s.cfg.OutsideDhakaFee
}
