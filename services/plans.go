package services

import (
	"fmt"

	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/models"
)

// PlanInfo pairs a service-plan id with its customer-facing display string.
type PlanInfo struct {
	ID      string
	Display string
}

var ServicePlans = map[string]string{
	models.PlanMonthly:       "Monthly Service ($30)",
	models.PlanQuarterly:     "Quarterly Service ($45)",
	models.PlanOneTime:       "One-Time Service ($60)",
	models.PlanSummerPackage: "Buckeye Summer Package ($100)",
}

var PlanPriceIDs = map[string]string{
	models.PlanMonthly:       "price_1R8ELrGMbVFwRLXqhUtIBohJ",
	models.PlanQuarterly:     "price_1R8ES4GMbVFwRLXq0Kwc7QZO",
	models.PlanOneTime:       "price_1R8EV4GMbVFwRLXqGIsSuhEB",
	models.PlanSummerPackage: "price_1R8EZFGMbVFwRLXqAtRwjnuK",
}

var PriceIDToPlan = map[string]PlanInfo{
	"price_1R8ELrGMbVFwRLXqhUtIBohJ": {ID: models.PlanMonthly, Display: "Monthly Service ($30)"},
	"price_1R8ES4GMbVFwRLXq0Kwc7QZO": {ID: models.PlanQuarterly, Display: "Quarterly Service ($45)"},
	"price_1R8EV4GMbVFwRLXqGIsSuhEB": {ID: models.PlanOneTime, Display: "One-Time Service ($60)"},
	"price_1R8EZFGMbVFwRLXqAtRwjnuK": {ID: models.PlanSummerPackage, Display: "Buckeye Summer Package ($100)"},
}

var TimeSlots = map[string]string{
	"morning":   "Morning (7am - 11am)",
	"afternoon": "Afternoon (11am - 2pm)",
	"evening":   "Evening (2pm - 5pm)",
}

var DaysOfWeek = map[string]string{
	"monday":    "Monday",
	"tuesday":   "Tuesday",
	"wednesday": "Wednesday",
	"thursday":  "Thursday",
	"friday":    "Friday",
}

// PlanFromAmount is the last-resort plan resolution when a session carries no
// usable metadata or line items: match against the fixed price table.
func PlanFromAmount(amountDollars float64) PlanInfo {
	switch amountDollars {
	case 30:
		return PlanInfo{ID: models.PlanMonthly, Display: "Monthly Service ($30)"}
	case 45:
		return PlanInfo{ID: models.PlanQuarterly, Display: "Quarterly Service ($45)"}
	case 60:
		return PlanInfo{ID: models.PlanOneTime, Display: "One-Time Service ($60)"}
	case 100:
		return PlanInfo{ID: models.PlanSummerPackage, Display: "Buckeye Summer Package ($100)"}
	default:
		return PlanInfo{ID: models.PlanCustom, Display: fmt.Sprintf("Custom Service ($%.2f)", amountDollars)}
	}
}
