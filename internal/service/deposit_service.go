package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"arena/internal/metrics"
	"arena/pkg/utils"
)

// Ошибки депозита. Тексты совпадают с уведомлениями, которые видит пользователь.
var (
	ErrWalletNotConnected   = errors.New("Please connect your wallet first")
	ErrInvalidDepositAmount = errors.New("Please enter a valid deposit amount")
	ErrUnknownDuration      = errors.New("unknown deposit duration")
)

// DepositDuration - срок депозита
type DepositDuration string

// Допустимые сроки
const (
	Duration7D  DepositDuration = "7d"
	Duration30D DepositDuration = "30d"
	Duration90D DepositDuration = "90d"
	Duration1Y  DepositDuration = "1y"
)

// DefaultDepositDuration - срок, выбранный по умолчанию
const DefaultDepositDuration = Duration30D

// apyMonths - во сколько раз APY больше средней доходности
const apyMonths = 12

// DurationOption - срок депозита с подписью и множителем
type DurationOption struct {
	Value      DepositDuration `json:"value"`
	Label      string          `json:"label"`
	Multiplier float64         `json:"multiplier"`
}

// DurationOptions - все сроки в порядке отображения
var DurationOptions = []DurationOption{
	{Value: Duration7D, Label: "7 Days", Multiplier: 1},
	{Value: Duration30D, Label: "30 Days", Multiplier: 1.2},
	{Value: Duration90D, Label: "90 Days", Multiplier: 1.5},
	{Value: Duration1Y, Label: "1 Year", Multiplier: 2},
}

// ParseDepositDuration разбирает срок. Пустая строка = DefaultDepositDuration.
func ParseDepositDuration(s string) (DurationOption, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		s = string(DefaultDepositDuration)
	}
	for _, opt := range DurationOptions {
		if string(opt.Value) == s {
			return opt, nil
		}
	}
	return DurationOption{}, fmt.Errorf("%w: %q", ErrUnknownDuration, s)
}

// DepositRequest - запрос на депозит
type DepositRequest struct {
	Amount   string `json:"amount"`
	Duration string `json:"duration"`
}

// DepositReceipt - подтверждение принятого депозита
type DepositReceipt struct {
	ID              string          `json:"id"`
	Amount          float64         `json:"amount"`
	Duration        DepositDuration `json:"duration"`
	ProjectedReturn float64         `json:"projected_return"`
	Message         string          `json:"message"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Projection - прогноз доходности депозита по средним показателям моделей
type Projection struct {
	Amount          float64         `json:"amount"`
	Duration        DepositDuration `json:"duration"`
	Multiplier      float64         `json:"multiplier"`
	AvgReturn       float64         `json:"avg_return"`
	ProjectedReturn float64         `json:"projected_return"`
	APY             float64         `json:"apy"`
}

// ModelPreview - строка блока "Model Performance"
type ModelPreview struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Glyph            string  `json:"glyph"`
	Color            string  `json:"color"`
	ReturnPercentage float64 `json:"return_percentage"`
}

// PoolStats - статистика пула
type PoolStats struct {
	TotalPoolValue float64          `json:"total_pool_value"`
	APY            float64          `json:"apy"`
	AvgReturn      float64          `json:"avg_return"`
	ActiveModels   int              `json:"active_models"`
	TotalModels    int              `json:"total_models"`
	TopModels      []ModelPreview   `json:"top_models"`
	Durations      []DurationOption `json:"durations"`
}

// poolPreviewSize - сколько моделей показывать в превью
const poolPreviewSize = 3

// DepositService предоставляет логику страницы депозита.
//
// Функции:
// - Deposit: проверка и подтверждение депозита (без изменения состояния)
// - Projection: прогноз доходности
// - PoolStats: статистика пула
//
// Проверки Deposit выполняются строго по порядку:
// сначала кошелёк, затем сумма, затем срок.
type DepositService struct {
	arena  ArenaState
	logger *utils.Logger
	now    func() time.Time
}

// NewDepositService создает новый экземпляр DepositService
func NewDepositService(arena ArenaState, logger *utils.Logger) *DepositService {
	return &DepositService{
		arena:  arena,
		logger: utils.OrGlobal(logger).WithComponent("deposit"),
		now:    time.Now,
	}
}

// Deposit проверяет запрос и возвращает подтверждение.
// Состояние арены не меняется ни при успехе, ни при отказе.
func (s *DepositService) Deposit(req DepositRequest) (*DepositReceipt, error) {
	if !s.arena.WalletConnected() {
		metrics.RecordDeposit("wallet_disconnected")
		return nil, ErrWalletNotConnected
	}

	amount := parseAmount(req.Amount)
	if !amount.IsPositive() {
		metrics.RecordDeposit("invalid_amount")
		return nil, ErrInvalidDepositAmount
	}

	opt, err := ParseDepositDuration(req.Duration)
	if err != nil {
		metrics.RecordDeposit("unknown_duration")
		return nil, err
	}

	avg := s.avgReturn()
	projected := amount.Mul(avg).Div(decimal.NewFromInt(100))
	value := amount.InexactFloat64()

	receipt := &DepositReceipt{
		ID:              uuid.NewString(),
		Amount:          value,
		Duration:        opt.Value,
		ProjectedReturn: projected.InexactFloat64(),
		Message:         fmt.Sprintf("Deposit of %s initiated for %s!", utils.FormatCurrency(value, 2), opt.Value),
		CreatedAt:       s.now(),
	}

	metrics.RecordDeposit("accepted")
	s.logger.Info("deposit initiated",
		utils.String("deposit_id", receipt.ID),
		utils.Amount(value),
		utils.String("duration", string(opt.Value)),
	)
	return receipt, nil
}

// Projection рассчитывает прогноз для суммы и срока.
// Некорректная сумма считается нулевой, как в поле ввода.
func (s *DepositService) Projection(amountStr, duration string) (*Projection, error) {
	opt, err := ParseDepositDuration(duration)
	if err != nil {
		return nil, err
	}

	amount := parseAmount(amountStr)
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	avg := s.avgReturn()

	return &Projection{
		Amount:          amount.InexactFloat64(),
		Duration:        opt.Value,
		Multiplier:      opt.Multiplier,
		AvgReturn:       avg.InexactFloat64(),
		ProjectedReturn: amount.Mul(avg).Div(decimal.NewFromInt(100)).InexactFloat64(),
		APY:             avg.Mul(decimal.NewFromInt(apyMonths)).InexactFloat64(),
	}, nil
}

// PoolStats возвращает статистику пула
func (s *DepositService) PoolStats() *PoolStats {
	list := s.arena.Models()
	avg := s.avgReturn()

	active := 0
	for _, m := range list {
		if m.IsActivelyTrading {
			active++
		}
	}

	top := make([]ModelPreview, 0, poolPreviewSize)
	for i, m := range list {
		if i == poolPreviewSize {
			break
		}
		top = append(top, ModelPreview{
			ID:               m.ID,
			Name:             m.Name,
			Glyph:            m.Glyph,
			Color:            m.Color,
			ReturnPercentage: m.ReturnPercentage,
		})
	}

	return &PoolStats{
		TotalPoolValue: s.arena.TotalAccountValue(),
		APY:            avg.Mul(decimal.NewFromInt(apyMonths)).InexactFloat64(),
		AvgReturn:      avg.InexactFloat64(),
		ActiveModels:   active,
		TotalModels:    len(list),
		TopModels:      top,
		Durations:      append([]DurationOption(nil), DurationOptions...),
	}
}

// avgReturn - средняя доходность моделей, 0 если моделей нет
func (s *DepositService) avgReturn() decimal.Decimal {
	list := s.arena.Models()
	if len(list) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, m := range list {
		sum = sum.Add(decimal.NewFromFloat(m.ReturnPercentage))
	}
	return sum.Div(decimal.NewFromInt(int64(len(list))))
}

// parseAmount разбирает сумму; пустая или некорректная строка даёт 0
func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
