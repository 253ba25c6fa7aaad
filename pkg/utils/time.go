package utils

import (
	"fmt"
	"math"
	"time"
)

// time.go - утилиты для работы со временем
//
// Назначение:
// Форматирование времени для ленты сделок, ленты активности и карточки модели.
//
// Функции:
// - FormatHoldingTime: длительность удержания позиции ("2h 15m")
// - FormatTimeAgo: относительное время ("5 minutes ago")
// - FormatTimestamp: короткая метка времени ("Jan 2, 03:04 PM")

// HoldingTimePlaceholder выводится для открытых сделок без времени удержания
const HoldingTimePlaceholder = "—"

// FormatHoldingTime форматирует время удержания в миллисекундах.
//
// nil и 0 дают HoldingTimePlaceholder.
//
// Примеры:
//   - 8_100_000 -> "2h 15m"
//   - 1_800_000 -> "0h 30m"
func FormatHoldingTime(ms *int64) string {
	if ms == nil || *ms == 0 {
		return HoldingTimePlaceholder
	}

	d := time.Duration(*ms) * time.Millisecond
	if d < 0 {
		d = -d
	}
	hours := int64(d / time.Hour)
	minutes := int64((d % time.Hour) / time.Minute)

	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// FormatTimeAgo возвращает расстояние от t до now словами с суффиксом "ago"
// (или префиксом "in" для будущего времени).
func FormatTimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	future := d < 0
	if future {
		d = -d
	}

	text := distanceInWords(d)
	if future {
		return "in " + text
	}
	return text + " ago"
}

func distanceInWords(d time.Duration) string {
	minutes := int(math.Round(d.Minutes()))

	switch {
	case minutes < 1:
		return "less than a minute"
	case minutes == 1:
		return "1 minute"
	case minutes < 45:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes < 90:
		return "about 1 hour"
	case minutes < 24*60:
		return fmt.Sprintf("about %d hours", int(math.Round(float64(minutes)/60)))
	case minutes < 42*60:
		return "1 day"
	case minutes < 30*24*60:
		return fmt.Sprintf("%d days", int(math.Round(float64(minutes)/(24*60))))
	case minutes < 45*24*60:
		return "about 1 month"
	default:
		months := int(math.Round(float64(minutes) / (30 * 24 * 60)))
		return fmt.Sprintf("%d months", months)
	}
}

// FormatTimestamp форматирует время в коротком виде: "Jan 2, 03:04 PM"
func FormatTimestamp(t time.Time) string {
	return t.Format("Jan 2, 03:04 PM")
}
