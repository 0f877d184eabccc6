// Package format renders stored values the way the admin screens show them.
package format

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	isoDate    = "2006-01-02"
	isoPeriod  = "2006-01"
	dayLayout  = "02 Jan 2006"
	rupeeSign  = "₹"
	maskDigits = "XXXX XXXX "
)

// Currency renders an amount in rupees with Indian digit grouping: ₹12,34,567.50.
func Currency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}

	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	return sign + rupeeSign + groupIndian(whole) + "." + frac
}

// groupIndian groups the last three digits, then pairs: 1234567 -> 12,34,567.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}

	return strings.Join(append(parts, tail), ",")
}

// Date turns 2026-10-15 into "15 Oct 2026". Unparseable input is returned unchanged.
func Date(iso string) string {
	t, err := time.Parse(isoDate, iso)
	if err != nil {
		return iso
	}
	return t.Format(dayLayout)
}

// Period turns 2026-09 into "September 2026".
func Period(period string) string {
	t, err := time.Parse(isoPeriod, period)
	if err != nil {
		return period
	}
	return t.Format("January 2006")
}

// MaskAadhar hides all but the last four digits.
func MaskAadhar(aadhar string) string {
	if len(aadhar) < 4 {
		return aadhar
	}
	return maskDigits + aadhar[len(aadhar)-4:]
}

// GroupAadhar splits a 12 digit Aadhar number into blocks of four.
func GroupAadhar(aadhar string) string {
	if len(aadhar) != 12 {
		return aadhar
	}
	return aadhar[:4] + " " + aadhar[4:8] + " " + aadhar[8:]
}

// Phone renders a 10 digit mobile number as +91 98765 43210.
func Phone(phone string) string {
	if len(phone) != 10 {
		return phone
	}
	return "+91 " + phone[:5] + " " + phone[5:]
}

// Title capitalises each word of a person's name, including the parts after
// an apostrophe or hyphen ("O'Brien", "Mary-Jane").
func Title(s string) string {
	r := []rune(cases.Title(language.English).String(strings.ToLower(s)))
	for i := 1; i < len(r); i++ {
		if r[i-1] == '\'' || r[i-1] == '-' {
			r[i] = unicode.ToUpper(r[i])
		}
	}
	return string(r)
}

var acronyms = map[string]string{
	"upi": "UPI",
}

// Label turns an enum value such as half_day into "Half Day".
func Label(v string) string {
	if a, ok := acronyms[v]; ok {
		return a
	}
	return cases.Title(language.English).String(strings.ReplaceAll(v, "_", " "))
}

// Minutes renders a duration in minutes as "8h 30m".
func Minutes(m int) string {
	if m <= 0 {
		return "0m"
	}

	h, rest := m/60, m%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", rest)
	case rest == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, rest)
	}
}

// Tenure describes the whole months between an ISO joining date and now.
func Tenure(joined string, now time.Time) string {
	start, err := time.Parse(isoDate, joined)
	if err != nil {
		return ""
	}

	months := (now.Year()-start.Year())*12 + int(now.Month()-start.Month())
	if now.Day() < start.Day() {
		months--
	}
	if months <= 0 {
		return "less than a month"
	}

	years, months := months/12, months%12

	var parts []string
	if years > 0 {
		parts = append(parts, plural(years, "year"))
	}
	if months > 0 {
		parts = append(parts, plural(months, "month"))
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
