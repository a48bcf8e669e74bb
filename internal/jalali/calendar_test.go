package jalali

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func TestFromGregorianKnownDates(t *testing.T) {
	tests := []struct {
		g    civil.Date
		want Date
	}{
		{civil.Date{Year: 2025, Month: time.March, Day: 21}, Date{1404, 1, 1}},
		{civil.Date{Year: 2025, Month: time.March, Day: 20}, Date{1403, 12, 30}},
		{civil.Date{Year: 2024, Month: time.March, Day: 20}, Date{1403, 1, 1}},
		{civil.Date{Year: 2021, Month: time.March, Day: 20}, Date{1399, 12, 30}},
		{civil.Date{Year: 2021, Month: time.March, Day: 21}, Date{1400, 1, 1}},
		{civil.Date{Year: 2025, Month: time.September, Day: 23}, Date{1404, 7, 1}},
		{civil.Date{Year: 2025, Month: time.November, Day: 22}, Date{1404, 9, 1}},
		{civil.Date{Year: 2025, Month: time.November, Day: 26}, Date{1404, 9, 5}},
		{civil.Date{Year: 2023, Month: time.March, Day: 20}, Date{1401, 12, 29}},
	}

	for _, tt := range tests {
		t.Run(tt.g.String(), func(t *testing.T) {
			if got := FromGregorian(tt.g); got != tt.want {
				t.Errorf("FromGregorian(%s) = %s, want %s", tt.g, got, tt.want)
			}
			back, err := tt.want.Gregorian()
			if err != nil {
				t.Fatalf("Gregorian(%s): %v", tt.want, err)
			}
			if back != tt.g {
				t.Errorf("Gregorian(%s) = %s, want %s", tt.want, back, tt.g)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	start := civil.Date{Year: 1950, Month: time.January, Day: 1}
	end := civil.Date{Year: 2050, Month: time.December, Day: 31}

	prev := FromGregorian(start.AddDays(-1))
	for d := start; !d.After(end); d = d.AddDays(1) {
		j := FromGregorian(d)
		if !j.IsValid() {
			t.Fatalf("FromGregorian(%s) = %s is not a valid date", d, j)
		}
		back, err := j.Gregorian()
		if err != nil {
			t.Fatalf("Gregorian(%s): %v", j, err)
		}
		if back != d {
			t.Fatalf("round trip %s -> %s -> %s", d, j, back)
		}
		if !prev.Before(j) {
			t.Fatalf("jalali dates not increasing: %s then %s", prev, j)
		}
		prev = j
	}
}

func TestIsLeapYear(t *testing.T) {
	leap := []int{1370, 1375, 1379, 1383, 1387, 1391, 1395, 1399, 1403, 1408}
	common := []int{1398, 1400, 1401, 1402, 1404, 1405}

	for _, y := range leap {
		if !IsLeapYear(y) {
			t.Errorf("IsLeapYear(%d) = false, want true", y)
		}
	}
	for _, y := range common {
		if IsLeapYear(y) {
			t.Errorf("IsLeapYear(%d) = true, want false", y)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	for m := 1; m <= 6; m++ {
		if got := DaysInMonth(1404, m); got != 31 {
			t.Errorf("DaysInMonth(1404, %d) = %d, want 31", m, got)
		}
	}
	for m := 7; m <= 11; m++ {
		if got := DaysInMonth(1404, m); got != 30 {
			t.Errorf("DaysInMonth(1404, %d) = %d, want 30", m, got)
		}
	}
	if got := DaysInMonth(1403, 12); got != 30 {
		t.Errorf("DaysInMonth(1403, 12) = %d, want 30", got)
	}
	if got := DaysInMonth(1404, 12); got != 29 {
		t.Errorf("DaysInMonth(1404, 12) = %d, want 29", got)
	}
	if got := DaysInMonth(1404, 13); got != 0 {
		t.Errorf("DaysInMonth(1404, 13) = %d, want 0", got)
	}
}

// месяц 12 длиннее ровно в високосные годы
func TestLeapBoundaryMatchesEsfandLength(t *testing.T) {
	for y := 1300; y <= 1500; y++ {
		want := 29
		if IsLeapYear(y) {
			want = 30
		}
		if got := DaysInMonth(y, 12); got != want {
			t.Fatalf("DaysInMonth(%d, 12) = %d, want %d", y, got, want)
		}
		nowruz, err := ToGregorian(y+1, 1, 1)
		if err != nil {
			t.Fatalf("ToGregorian(%d, 1, 1): %v", y+1, err)
		}
		last := FromGregorian(nowruz.AddDays(-1))
		if last != (Date{y, 12, want}) {
			t.Fatalf("day before nowruz %d = %s, want %d/12/%d", y+1, last, y, want)
		}
	}
}

func TestNewRejectsInvalid(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day int
	}{
		{"esfand 30 in common year", 1404, 12, 30},
		{"month zero", 1404, 0, 1},
		{"month thirteen", 1404, 13, 1},
		{"day 31 in mehr", 1404, 7, 31},
		{"day zero", 1404, 1, 0},
		{"year zero", 0, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.year, tt.month, tt.day); !errors.Is(err, ErrInvalidDate) {
				t.Errorf("New(%d, %d, %d) error = %v, want ErrInvalidDate", tt.year, tt.month, tt.day, err)
			}
			if _, err := ToGregorian(tt.year, tt.month, tt.day); !errors.Is(err, ErrInvalidDate) {
				t.Errorf("ToGregorian(%d, %d, %d) error = %v, want ErrInvalidDate", tt.year, tt.month, tt.day, err)
			}
		})
	}

	if _, err := New(1403, 12, 30); err != nil {
		t.Errorf("New(1403, 12, 30) unexpected error: %v", err)
	}
}

func TestFirstWeekday(t *testing.T) {
	tests := []struct {
		year, month int
		want        int
	}{
		{1404, 1, 6}, // 2025-03-21 пятница
		{1403, 1, 4}, // 2024-03-20 среда
		{1404, 9, 0}, // 2025-11-22 суббота
	}
	for _, tt := range tests {
		got, err := FirstWeekday(tt.year, tt.month)
		if err != nil {
			t.Fatalf("FirstWeekday(%d, %d): %v", tt.year, tt.month, err)
		}
		if got != tt.want {
			t.Errorf("FirstWeekday(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}

	if _, err := FirstWeekday(1404, 13); err == nil {
		t.Error("FirstWeekday(1404, 13) expected error")
	}
}

func TestBounds(t *testing.T) {
	start, end, err := YearBounds(1403)
	if err != nil {
		t.Fatalf("YearBounds: %v", err)
	}
	if start != (civil.Date{Year: 2024, Month: time.March, Day: 20}) || end != (civil.Date{Year: 2025, Month: time.March, Day: 20}) {
		t.Errorf("YearBounds(1403) = %s..%s", start, end)
	}

	start, end, err = MonthBounds(1404, 9)
	if err != nil {
		t.Fatalf("MonthBounds: %v", err)
	}
	if start != (civil.Date{Year: 2025, Month: time.November, Day: 22}) || end != (civil.Date{Year: 2025, Month: time.December, Day: 21}) {
		t.Errorf("MonthBounds(1404, 9) = %s..%s", start, end)
	}

	if _, _, err := MonthBounds(1404, 0); err == nil {
		t.Error("MonthBounds(1404, 0) expected error")
	}
}

func TestDateOrderingAndFormat(t *testing.T) {
	a := Date{1404, 9, 5}
	b := Date{1404, 10, 1}
	if !a.Before(b) || b.Before(a) || a.Compare(a) != 0 {
		t.Errorf("unexpected ordering between %s and %s", a, b)
	}
	if got := a.String(); got != "1404/09/05" {
		t.Errorf("String() = %q", got)
	}
	if MonthName(9) != "آذر" || MonthName(0) != "" {
		t.Errorf("unexpected month names: %q %q", MonthName(9), MonthName(0))
	}
}
