package jalali

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// DateParseError строка даты, которую не удалось разобрать ни в одном из форматов
type DateParseError struct {
	Raw string
	Err error
}

func (e *DateParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse date %q: %v", e.Raw, e.Err)
	}
	return fmt.Sprintf("cannot parse date %q", e.Raw)
}

func (e *DateParseError) Unwrap() error {
	return e.Err
}

// ParseDate единственная точка нормализации внешних дат.
// Форматы: 2006-01-02, RFC 3339 (время отбрасывается), 1404/09/05 (солнечная хиджра,
// допускаются персидские цифры). Через "-" всегда читается григорианская дата.
func ParseDate(raw string) (civil.Date, error) {
	s := normalizeDigits(strings.TrimSpace(raw))
	if s == "" {
		return civil.Date{}, &DateParseError{Raw: raw}
	}

	if strings.Contains(s, "/") {
		d, ok := parseJalali(s)
		if !ok {
			return civil.Date{}, &DateParseError{Raw: raw}
		}
		g, err := d.Gregorian()
		if err != nil {
			return civil.Date{}, &DateParseError{Raw: raw, Err: err}
		}
		return g, nil
	}

	if d, err := civil.ParseDate(s); err == nil {
		return checkSupported(raw, d)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return checkSupported(raw, civil.DateOf(t))
	}

	return civil.Date{}, &DateParseError{Raw: raw}
}

// Supported попадает ли григорианский день в поддерживаемый диапазон лет
func Supported(d civil.Date) bool {
	if !d.IsValid() {
		return false
	}
	jy := FromGregorian(d).Year
	return jy >= MinYear && jy <= MaxYear
}

func checkSupported(raw string, d civil.Date) (civil.Date, error) {
	if !Supported(d) {
		return civil.Date{}, &DateParseError{Raw: raw, Err: ErrInvalidDate}
	}
	return d, nil
}

func parseJalali(s string) (Date, bool) {
	parts := strings.Split(normalizeDigits(strings.TrimSpace(s)), "/")
	if len(parts) != 3 {
		return Date{}, false
	}
	var vals [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return Date{}, false
		}
		vals[i] = v
	}
	return Date{Year: vals[0], Month: vals[1], Day: vals[2]}, true
}

// normalizeDigits персидские и арабские цифры в ASCII
func normalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		}
		return r
	}, s)
}
