// Package jalali переводит даты между григорианским календарем (хранение)
// и солнечным хиджры (отображение, фильтрация, группировка).
package jalali

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// поддерживаемый диапазон лет солнечной хиджры
const (
	MinYear = 1
	MaxYear = 3177
)

var ErrInvalidDate = errors.New("invalid jalali date")

// годы, на которых меняется длина 33-летнего цикла (алгоритм Борковского, как в jalaali-js)
var breaks = [...]int{-61, 9, 38, 199, 426, 686, 756, 818, 1111, 1181, 1210, 1635, 2060, 2097, 2192, 2262, 2324, 2394, 2456, 3178}

var monthNames = [12]string{
	"فروردین", "اردیبهشت", "خرداد",
	"تیر", "مرداد", "شهریور",
	"مهر", "آبان", "آذر",
	"دی", "بهمن", "اسفند",
}

// Date день по солнечной хиджре
type Date struct {
	Year  int
	Month int
	Day   int
}

// New проверяет компоненты и возвращает дату; 30 эсфанда допустимо только в високосный год
func New(year, month, day int) (Date, error) {
	d := Date{Year: year, Month: month, Day: day}
	if !d.IsValid() {
		return Date{}, fmt.Errorf("%w: %d/%d/%d", ErrInvalidDate, year, month, day)
	}
	return d, nil
}

func (d Date) IsValid() bool {
	if d.Year < MinYear || d.Year > MaxYear || d.Month < 1 || d.Month > 12 {
		return false
	}
	return d.Day >= 1 && d.Day <= DaysInMonth(d.Year, d.Month)
}

// String формат jYYYY/jMM/jDD
func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(d.Month - other.Month)
	default:
		return sign(d.Day - other.Day)
	}
}

func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(data []byte) error {
	parsed, ok := parseJalali(string(data))
	if !ok {
		return &DateParseError{Raw: string(data)}
	}
	if !parsed.IsValid() {
		return &DateParseError{Raw: string(data), Err: ErrInvalidDate}
	}
	*d = parsed
	return nil
}

// Gregorian обратное преобразование
func (d Date) Gregorian() (civil.Date, error) {
	if !d.IsValid() {
		return civil.Date{}, fmt.Errorf("%w: %s", ErrInvalidDate, d)
	}
	c := jalCal(d.Year)
	nowruz := civil.Date{Year: c.gy, Month: time.March, Day: c.march}
	offset := (d.Month-1)*31 - d.Month/7*(d.Month-7) + d.Day - 1
	return nowruz.AddDays(offset), nil
}

// ToGregorian то же, что New(...).Gregorian()
func ToGregorian(year, month, day int) (civil.Date, error) {
	return Date{Year: year, Month: month, Day: day}.Gregorian()
}

// FromGregorian переводит григорианский день в солнечную хиджру.
// Точен для григорианских лет 622..3798.
func FromGregorian(g civil.Date) Date {
	jy := g.Year - 621
	c := jalCal(jy)
	k := g.DaysSince(civil.Date{Year: g.Year, Month: time.March, Day: c.march})

	if k >= 0 {
		if k <= 185 {
			return Date{Year: jy, Month: 1 + k/31, Day: k%31 + 1}
		}
		k -= 186
	} else {
		// день до новруза относится к предыдущему году
		jy--
		k += 179
		if c.leap == 1 {
			k++
		}
	}
	return Date{Year: jy, Month: 7 + k/30, Day: k%30 + 1}
}

// FromTime берет календарный день из t в его собственной локации
func FromTime(t time.Time) Date {
	return FromGregorian(civil.DateOf(t))
}

func IsLeapYear(year int) bool {
	return jalCal(year).leap == 0
}

// DaysInMonth 0 для месяца вне 1..12
func DaysInMonth(year, month int) int {
	switch {
	case month < 1 || month > 12:
		return 0
	case month <= 6:
		return 31
	case month <= 11:
		return 30
	case IsLeapYear(year):
		return 30
	default:
		return 29
	}
}

// FirstWeekday день недели первого числа месяца: 0 = шанбе (суббота) ... 6 = джоме (пятница)
func FirstWeekday(year, month int) (int, error) {
	g, err := ToGregorian(year, month, 1)
	if err != nil {
		return 0, err
	}
	return (int(g.In(time.UTC).Weekday()) + 1) % 7, nil
}

// YearBounds первый и последний григорианские дни года (включительно)
func YearBounds(year int) (civil.Date, civil.Date, error) {
	start, err := ToGregorian(year, 1, 1)
	if err != nil {
		return civil.Date{}, civil.Date{}, err
	}
	last, err := ToGregorian(year, 12, DaysInMonth(year, 12))
	if err != nil {
		return civil.Date{}, civil.Date{}, err
	}
	return start, last, nil
}

// MonthBounds первый и последний григорианские дни месяца (включительно)
func MonthBounds(year, month int) (civil.Date, civil.Date, error) {
	start, err := ToGregorian(year, month, 1)
	if err != nil {
		return civil.Date{}, civil.Date{}, err
	}
	return start, start.AddDays(DaysInMonth(year, month) - 1), nil
}

// MonthName персидское название месяца, пустая строка для месяца вне 1..12
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

type calendarYear struct {
	leap  int // 0 для високосного года
	gy    int // григорианский год, на который приходится новруз
	march int // день марта, на который приходится новруз
}

func jalCal(jy int) calendarYear {
	gy := jy + 621
	leapJ := -14
	jp := breaks[0]
	jump := 0

	for i := 1; i < len(breaks); i++ {
		jm := breaks[i]
		jump = jm - jp
		if jy < jm {
			break
		}
		leapJ += jump/33*8 + jump%33/4
		jp = jm
	}

	n := jy - jp
	leapJ += n/33*8 + (n%33+3)/4
	if jump%33 == 4 && jump-n == 4 {
		leapJ++
	}

	leapG := gy/4 - (gy/100+1)*3/4 - 150
	march := 20 + leapJ - leapG

	if jump-n < 6 {
		n = n - jump + (jump+4)/33*33
	}
	leap := ((n+1)%33 - 1) % 4
	if leap == -1 {
		leap = 4
	}

	return calendarYear{leap: leap, gy: gy, march: march}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
