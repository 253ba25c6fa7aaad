package utils

// math.go - расчёт результата сделок
//
// Функции:
// - CalculatePNL: PNL сделки по направлению, ценам и объёму

import "strings"

// CalculatePNL рассчитывает PNL сделки.
//
// Формулы:
//   - Long PNL = (P_close - P_open) × qty
//   - Short PNL = (P_open - P_close) × qty
//
// Параметры:
//   - side: "LONG" или "SHORT" (регистр не важен)
//   - entryPrice: цена входа
//   - currentPrice: текущая/выходная цена
//   - quantity: объём позиции с учётом плеча
//
// Для неизвестного направления и неположительного объёма возвращает 0.
func CalculatePNL(side string, entryPrice, currentPrice, quantity float64) float64 {
	if quantity <= 0 {
		return 0
	}

	switch strings.ToUpper(side) {
	case "LONG":
		// Лонг: прибыль если цена выросла
		return (currentPrice - entryPrice) * quantity
	case "SHORT":
		// Шорт: прибыль если цена упала
		return (entryPrice - currentPrice) * quantity
	default:
		return 0
	}
}
