package websocket

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"

	jsoniter "github.com/json-iterator/go"

	"arena/internal/metrics"
	"arena/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// broadcastBufferSize - ёмкость очереди broadcast.
// При переполнении сообщение отбрасывается, а не блокирует отправителя.
const broadcastBufferSize = 256

// ============ sync.Pool для JSON буферов ============

var jsonBufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// Hub управляет всеми активными WebSocket соединениями
//
// Назначение:
// Рассылает изменения состояния арены всем подключенным клиентам,
// чтобы дашборд обновлялся без polling.
//
// Функции:
// - Регистрация и отмена регистрации клиентов
// - Broadcast сообщений всем активным клиентам
// - Отключение клиентов, которые не успевают читать
// - Подписка на изменения хранилищ (AttachStores)
//
// Использование:
// 1. hub := NewHub(logger)
// 2. go hub.Run(ctx)
// 3. detach := hub.AttachStores(trading, arena)
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	done     chan struct{}
	stopOnce sync.Once

	mu      sync.RWMutex
	dropped atomic.Int64

	origins *OriginChecker
	logger  *utils.Logger
}

// HubOption настраивает Hub
type HubOption func(*Hub)

// WithAllowedOrigins ограничивает Origin для websocket апгрейда.
// Пустой список или "*" разрешает все.
func WithAllowedOrigins(origins []string) HubOption {
	return func(h *Hub) {
		h.origins = NewOriginChecker(origins)
	}
}

// NewHub создает новый Hub
func NewHub(logger *utils.Logger, opts ...HubOption) *Hub {
	h := &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		origins:    NewOriginChecker(nil),
		logger:     utils.OrGlobal(logger).WithComponent("websocket"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run запускает главный цикл Hub.
// Завершается при отмене ctx или вызове Stop; все клиенты при этом закрываются.
func (h *Hub) Run(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			metrics.WebsocketClients.Set(float64(count))
			h.logger.Debug("client connected", append(client.logFields(), utils.Int("clients", count))...)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			metrics.WebsocketClients.Set(float64(count))
			h.logger.Debug("client disconnected", append(client.logFields(), utils.Int("clients", count))...)

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

// deliver отправляет сообщение всем клиентам.
// Список копируется под коротким RLock, медленные клиенты удаляются под Lock.
func (h *Hub) deliver(message []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			toRemove = append(toRemove, client)
		}
	}

	if len(toRemove) == 0 {
		return
	}

	h.mu.Lock()
	for _, client := range toRemove {
		if _, ok := h.clients[client]; ok {
			delete(h.clients, client)
			close(client.send)
		}
	}
	count := len(h.clients)
	h.mu.Unlock()

	metrics.WebsocketDropped.Add(float64(len(toRemove)))
	metrics.WebsocketClients.Set(float64(count))
	h.logger.Warn("removed slow clients",
		utils.Int("removed", len(toRemove)),
		utils.Int("clients", count),
	)
}

func (h *Hub) closeAll() {
	h.stopOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
	metrics.WebsocketClients.Set(0)
}

// Stop останавливает Run. Повторные вызовы безопасны.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Broadcast сериализует сообщение и ставит его в очередь рассылки.
// Не блокируется: при переполнении очереди сообщение отбрасывается.
func (h *Hub) Broadcast(message interface{}) {
	buf := jsonBufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer jsonBufferPool.Put(buf)

	if err := json.NewEncoder(buf).Encode(message); err != nil {
		h.logger.Error("failed to marshal broadcast message", utils.Err(err))
		return
	}

	data := bytes.TrimRight(buf.Bytes(), "\n")
	msg := make([]byte, len(data))
	copy(msg, data)

	h.BroadcastRaw(msg)
}

// BroadcastRaw ставит готовое сообщение в очередь рассылки без сериализации
func (h *Hub) BroadcastRaw(msg []byte) {
	select {
	case <-h.done:
		return
	default:
	}

	select {
	case h.broadcast <- msg:
	default:
		h.dropped.Add(1)
	}
}

// DroppedMessages возвращает число сообщений, отброшенных из-за переполнения очереди
func (h *Hub) DroppedMessages() int64 {
	return h.dropped.Load()
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// registerClient регистрирует клиента; false, если Hub уже остановлен
func (h *Hub) registerClient(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
