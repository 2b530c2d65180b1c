package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fretecalc/internal"
)

var (
	cepPattern   = regexp.MustCompile(`^\d{5}-\d{3}$`)
	digitPattern = regexp.MustCompile(`\d+`)
)

func ValidateCEP(cep string) bool {
	return cepPattern.MatchString(cep)
}

// ParseLeadTimeDays turns a shippingEstimate token ("5bd", "3d", "7") into
// a number of days usable as a sort key. Business days and calendar days
// are not distinguished numerically. Unparseable input yields 0.
func ParseLeadTimeDays(estimate string) int {
	if estimate == "" {
		return 0
	}
	token := estimate
	switch {
	case strings.Contains(estimate, "bd"):
		token = strings.ReplaceAll(estimate, "bd", "")
	case strings.Contains(estimate, "d"):
		token = strings.ReplaceAll(estimate, "d", "")
	}
	days, err := strconv.Atoi(token)
	if err != nil {
		return 0
	}
	return days
}

// FormatCurrencyFromCents renders integer cents as Brazilian currency,
// thousands separated by "." and decimals by ",".
func FormatCurrencyFromCents(cents int64) string {
	fixed := decimal.New(cents, -2).StringFixed(2)
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	intPart := parts[0]
	grouped := make([]string, 0, len(intPart)/3+1)
	for len(intPart) > 3 {
		grouped = append([]string{intPart[len(intPart)-3:]}, grouped...)
		intPart = intPart[:len(intPart)-3]
	}
	grouped = append([]string{intPart}, grouped...)

	out := strings.Join(grouped, ".") + "," + parts[1]
	if negative {
		out = "-" + out
	}
	return "R$ " + out
}

// EstimatedDeliveryDate adds the first run of digits in the estimate to
// now, as calendar days. Estimates without digits come back unchanged.
func EstimatedDeliveryDate(estimate string, now time.Time) string {
	match := digitPattern.FindString(estimate)
	if match == "" {
		return estimate
	}
	days, err := strconv.Atoi(match)
	if err != nil {
		return estimate
	}
	return now.AddDate(0, 0, days).Format("02/01/2006")
}

func FormatAddress(addr *internal.PickupAddress) string {
	if addr == nil {
		return ""
	}

	parts := make([]string, 0, 5)
	if addr.Street != "" {
		street := addr.Street
		if addr.Number != "" {
			street += ", " + addr.Number
		}
		parts = append(parts, street)
	}
	if addr.Complement != "" {
		parts = append(parts, addr.Complement)
	}
	if addr.Neighborhood != "" {
		parts = append(parts, addr.Neighborhood)
	}
	if addr.City != "" && addr.State != "" {
		parts = append(parts, addr.City+" - "+addr.State)
	}
	if addr.PostalCode != "" {
		parts = append(parts, "CEP: "+addr.PostalCode)
	}
	return strings.Join(parts, "\n")
}

// FriendlyStoreName resolves a store id to its branch name via the last
// six characters of the id. Unknown stores get a synthesized seller label
// from the last ten characters. Ids shorter than the suffix are used whole.
func FriendlyStoreName(storeID string, branchNames map[string]string) string {
	if name, ok := branchNames[idSuffix(storeID, 6)]; ok {
		return name
	}
	return fmt.Sprintf("seller: (%s)", idSuffix(storeID, 10))
}

// StoreClassification reports "Nacional" when the store's branch code is
// in the national table, "Local" otherwise.
func StoreClassification(storeID string, national map[string]string) string {
	if _, ok := national[idSuffix(storeID, 6)]; ok {
		return "Nacional"
	}
	return "Local"
}

func idSuffix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
