// Package quote produces rough repair price estimates from a static
// catalog plus the urgency surcharge. Estimates are indicative, the final
// price is agreed over WhatsApp.
package quote

import (
	"math"
	"strings"

	"campusfix/internal/models"
)

// Estimate is a price range in Ghana cedis for a requested repair.
type Estimate struct {
	Service      string `json:"service"`
	Currency     string `json:"currency"`
	MinGHS       int    `json:"min_ghs"`
	MaxGHS       int    `json:"max_ghs"`
	SurchargeGHS int    `json:"surcharge_ghs"`
	Turnaround   string `json:"turnaround"`
}

// Estimate matches the issue text against the catalog keywords, scales by
// device tier and adds the urgency surcharge. An issue nothing matches
// falls through to the diagnosis entry, so the caller always gets a range.
func (c *Catalog) Estimate(device, issue string, urgency models.Urgency) *Estimate {
	svc := c.matchService(issue)
	multiplier := c.deviceMultiplier(device)

	surcharge := urgency.SurchargeGHS()
	return &Estimate{
		Service:      svc.Name,
		Currency:     "GH₵",
		MinGHS:       scale(svc.MinGHS, multiplier) + surcharge,
		MaxGHS:       scale(svc.MaxGHS, multiplier) + surcharge,
		SurchargeGHS: surcharge,
		Turnaround:   urgency.Turnaround(),
	}
}

func (c *Catalog) matchService(issue string) Service {
	needle := strings.ToLower(issue)
	for _, svc := range c.Services {
		for _, kw := range svc.Keywords {
			if strings.Contains(needle, strings.ToLower(kw)) {
				return svc
			}
		}
	}
	return c.fallbackService()
}

func (c *Catalog) fallbackService() Service {
	for _, svc := range c.Services {
		if svc.Fallback {
			return svc
		}
	}
	// Catalog validation guarantees at least one service.
	return c.Services[len(c.Services)-1]
}

func (c *Catalog) deviceMultiplier(device string) float64 {
	needle := strings.ToLower(device)
	for _, tier := range c.DeviceTiers {
		for _, m := range tier.Match {
			if strings.Contains(needle, strings.ToLower(m)) {
				return tier.Multiplier
			}
		}
	}
	return 1.0
}

func scale(base int, multiplier float64) int {
	if multiplier <= 0 {
		multiplier = 1.0
	}
	return int(math.Round(float64(base) * multiplier))
}
