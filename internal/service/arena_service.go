package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"arena/internal/models"
	"arena/pkg/utils"
)

// Ошибки сервиса арены
var (
	ErrUnknownSortKey   = errors.New("unknown leaderboard sort key")
	ErrUnknownSortOrder = errors.New("unknown sort order")
)

const (
	// DefaultFeedLimit - сколько сделок показывает живая лента
	DefaultFeedLimit = 20
	// ModelDetailTrades - сколько последних сделок на странице модели
	ModelDetailTrades = 25
)

// SortKey - колонка сортировки лидерборда
type SortKey string

// Колонки сортировки
const (
	SortByRank             SortKey = "rank"
	SortByReturnPercentage SortKey = "returnPercentage"
	SortByTotalPnL         SortKey = "totalPnL"
	SortByWinRate          SortKey = "winRate"
	SortBySharpeRatio      SortKey = "sharpeRatio"
	SortByTotalTrades      SortKey = "totalTrades"
)

// SortOrder - направление сортировки
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// sortValues - значение колонки для каждой модели лидерборда
var sortValues = map[SortKey]func(models.LeaderboardModel) float64{
	SortByRank:             func(m models.LeaderboardModel) float64 { return float64(m.Rank) },
	SortByReturnPercentage: func(m models.LeaderboardModel) float64 { return m.ReturnPercentage },
	SortByTotalPnL:         func(m models.LeaderboardModel) float64 { return m.TotalPnl },
	SortByWinRate:          func(m models.LeaderboardModel) float64 { return m.WinRate },
	SortBySharpeRatio:      func(m models.LeaderboardModel) float64 { return m.SharpeRatio },
	SortByTotalTrades:      func(m models.LeaderboardModel) float64 { return float64(m.TotalTrades) },
}

// FeedTrade - сделка ленты с именем и цветом модели.
// TimeAgo и TimeLabel считаются от времени выхода (для открытых сделок от входа).
type FeedTrade struct {
	models.Trade
	ModelName   string `json:"model_name"`
	ModelColor  string `json:"model_color"`
	HoldingTime string `json:"holding_time"`
	TimeAgo     string `json:"time_ago"`
	TimeLabel   string `json:"time_label"`
}

// ModelDetail - данные страницы модели
type ModelDetail struct {
	Model      models.AIModel    `json:"model"`
	Rank       int               `json:"rank"`
	Trades     []models.Trade    `json:"trades"`
	Positions  []models.Position `json:"positions"`
	TradeCount int               `json:"trade_count"`
}

// AccountSummary - шапка страницы Live
type AccountSummary struct {
	TotalAccountValue   float64 `json:"total_account_value"`
	Total24hChange      float64 `json:"total_24h_change"`
	Total24hChangeValue float64 `json:"total_24h_change_value"`
	FormattedValue      string  `json:"formatted_value"`
	FormattedChange     string  `json:"formatted_change"`
}

// ArenaService - модели чтения для страниц арены.
//
// Функции:
// - TradesFeed: последние сделки с подстановкой имени/цвета модели
// - ModelDetail: модель, место, последние сделки и позиции
// - SortedLeaderboard: лидерборд с сортировкой по колонке
// - Summary: суммарная стоимость и изменение за 24ч
type ArenaService struct {
	arena ArenaState
	now   func() time.Time
}

// NewArenaService создает новый экземпляр ArenaService
func NewArenaService(arena ArenaState) *ArenaService {
	return &ArenaService{arena: arena, now: time.Now}
}

// TradesFeed возвращает до limit последних сделок (limit <= 0 = DefaultFeedLimit).
// Для неизвестной модели имя равно ID, а цвет - цвету по умолчанию.
func (s *ArenaService) TradesFeed(limit int) []FeedTrade {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	trades := s.arena.Trades()
	if len(trades) > limit {
		trades = trades[:limit]
	}

	now := s.now()
	feed := make([]FeedTrade, 0, len(trades))
	for _, t := range trades {
		display := s.arena.ModelDisplay(t.ModelID)
		at := t.EntryTime
		if t.ExitTime != nil {
			at = *t.ExitTime
		}
		feed = append(feed, FeedTrade{
			Trade:       t,
			ModelName:   display.Name,
			ModelColor:  display.Color,
			HoldingTime: utils.FormatHoldingTime(t.HoldingTimeMs),
			TimeAgo:     utils.FormatTimeAgo(at, now),
			TimeLabel:   utils.FormatTimestamp(at),
		})
	}
	return feed
}

// ModelDetail возвращает данные страницы модели и false, если модели нет
func (s *ArenaService) ModelDetail(id string) (*ModelDetail, bool) {
	model, ok := s.arena.Model(id)
	if !ok {
		return nil, false
	}

	trades := s.arena.ModelTrades(id)
	total := len(trades)
	if len(trades) > ModelDetailTrades {
		trades = trades[:ModelDetailTrades]
	}

	rank := 0
	for _, entry := range s.arena.Leaderboard() {
		if entry.ID == id {
			rank = entry.Rank
			break
		}
	}

	return &ModelDetail{
		Model:      model,
		Rank:       rank,
		Trades:     trades,
		Positions:  s.arena.ModelPositions(id),
		TradeCount: total,
	}, true
}

// ParseSortKey разбирает колонку сортировки. Пустая строка = rank.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortByRank, nil
	}
	for key := range sortValues {
		if strings.EqualFold(string(key), s) {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

// ParseSortOrder разбирает направление. Пустая строка = asc.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(s) {
	case "", string(SortAsc):
		return SortAsc, nil
	case string(SortDesc):
		return SortDesc, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSortOrder, s)
	}
}

// SortedLeaderboard возвращает копию лидерборда, отсортированную по колонке.
// Равные значения сохраняют порядок по месту.
func (s *ArenaService) SortedLeaderboard(key SortKey, order SortOrder) ([]models.LeaderboardModel, error) {
	value, ok := sortValues[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
	}
	if order != SortAsc && order != SortDesc {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSortOrder, order)
	}

	board := s.arena.Leaderboard()
	sort.SliceStable(board, func(i, j int) bool {
		a, b := value(board[i]), value(board[j])
		if order == SortAsc {
			return a < b
		}
		return a > b
	})
	return board, nil
}

// Summary возвращает суммарную стоимость счетов и изменение за 24ч
func (s *ArenaService) Summary() AccountSummary {
	total := s.arena.TotalAccountValue()
	change := s.arena.Total24hChange()
	return AccountSummary{
		TotalAccountValue:   total,
		Total24hChange:      change,
		Total24hChangeValue: utils.Round(total*change/100, 2),
		FormattedValue:      utils.FormatCurrency(total, 2),
		FormattedChange:     utils.FormatPercentage(change, 2),
	}
}
