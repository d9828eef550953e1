package timeutil

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ulugbekk/beautybot/internal/model"
)

// DefaultTimezone - все даты бота живут в одном фиксированном поясе
const DefaultTimezone = "Asia/Tashkent"

// LocalFormat - формат дат на границе с пользователем и таблицей
const LocalFormat = "02.01.2006 15:04"

var dateRe = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{2}|\d{4})\s+(\d{1,2}):(\d{2})$`)

// LoadLocation загружает фиксированный часовой пояс бота
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// ParseLocal разбирает строку 'ДД.ММ.ГГГГ ЧЧ:ММ' или 'ДД.ММ.ГГ ЧЧ:ММ'
// и возвращает aware время в поясе loc. Год из двух цифр - это 2000+ГГ.
func ParseLocal(s string, loc *time.Location) (time.Time, error) {
	s = strings.Join(strings.Fields(s), " ")

	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, model.Validationf("неверный формат даты, используйте ДД.ММ.ГГГГ ЧЧ:ММ")
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])

	if year < 100 { // '25' → 2025
		year += 2000
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	// time.Date нормализует переполнение (32.01 → 01.02), для ввода это ошибка
	if t.Day() != day || int(t.Month()) != month || t.Year() != year || t.Hour() != hour || t.Minute() != minute {
		return time.Time{}, model.Validationf("неверная дата/время: %s", s)
	}

	return t, nil
}

// FormatLocal возвращает строку 'ДД.ММ.ГГГГ ЧЧ:ММ' в поясе loc
func FormatLocal(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(LocalFormat)
}

// FloorMinute обрезает секунды и наносекунды в поясе loc
func FloorMinute(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

// SameMinute сравнивает два момента с точностью до минуты
func SameMinute(a, b time.Time, loc *time.Location) bool {
	return FloorMinute(a, loc).Equal(FloorMinute(b, loc))
}

// HoursFromMinutes округляет минуты вверх до целых часов, минимум 1.
// События во внешнем календаре занимают целое число часов.
func HoursFromMinutes(minutes int) int {
	if minutes <= 0 {
		minutes = 60
	}
	h := int(math.Ceil(float64(minutes) / 60.0))
	if h < 1 {
		h = 1
	}
	return h
}
