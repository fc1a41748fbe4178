package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chatbot_rag/internal/metrics"
)

const (
	readLimit    = 4096
	pongWait     = 60 * time.Second
	pingPeriod   = 54 * time.Second
	writeWait    = 10 * time.Second
	sendChanSize = 16
)

// MessageHandler 處理一個收到的 frame，回傳值會以 JSON 回寫給客戶端
type MessageHandler func(ctx context.Context, payload []byte) interface{}

// Client 代表一個 WebSocket 客戶端連接
type Client struct {
	ID       string
	Conn     *websocket.Conn
	SendChan chan interface{}
}

// WebSocketService 管理所有的 WebSocket 連接
type WebSocketService struct {
	clients    map[*Client]bool
	clientsMux sync.RWMutex
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewWebSocketService(m *metrics.Metrics, logger *zap.Logger) *WebSocketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketService{
		clients: make(map[*Client]bool),
		metrics: m,
		logger:  logger,
	}
}

// HandleConnection 處理連線直到客戶端斷線，handle 依序處理每個 frame
func (s *WebSocketService) HandleConnection(ctx context.Context, conn *websocket.Conn, handle MessageHandler) {
	client := &Client{
		ID:       uuid.NewString(),
		Conn:     conn,
		SendChan: make(chan interface{}, sendChanSize),
	}

	s.addClient(client)
	defer func() {
		s.removeClient(client)
		close(client.SendChan)
	}()

	go s.writePump(client)
	s.readPump(ctx, client, handle)
}

func (s *WebSocketService) readPump(ctx context.Context, client *Client, handle MessageHandler) {
	client.Conn.SetReadLimit(readLimit)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Info("websocket unexpected close", zap.String("client", client.ID), zap.Error(err))
			}
			return
		}

		reply := handle(ctx, message)
		// LLM 呼叫可能超過 pongWait
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))

		select {
		case client.SendChan <- reply:
		default:
			s.logger.Info("websocket send queue full, dropping client", zap.String("client", client.ID))
			return
		}
	}
}

func (s *WebSocketService) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.SendChan:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			payload, err := json.Marshal(message)
			if err != nil {
				s.logger.Error("websocket encode failed", zap.Error(err))
				continue
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *WebSocketService) addClient(client *Client) {
	s.clientsMux.Lock()
	s.clients[client] = true
	s.clientsMux.Unlock()

	s.metrics.WebSocketConnected()
	s.logger.Debug("websocket client connected", zap.String("client", client.ID))
}

func (s *WebSocketService) removeClient(client *Client) {
	s.clientsMux.Lock()
	_, ok := s.clients[client]
	delete(s.clients, client)
	s.clientsMux.Unlock()

	if ok {
		s.metrics.WebSocketDisconnected()
		s.logger.Debug("websocket client disconnected", zap.String("client", client.ID))
	}
}

// ClientCount 回傳目前在線的客戶端數量
func (s *WebSocketService) ClientCount() int {
	s.clientsMux.RLock()
	defer s.clientsMux.RUnlock()
	return len(s.clients)
}

// CloseAll 在關機時通知所有客戶端並關閉連線
func (s *WebSocketService) CloseAll() {
	s.clientsMux.RLock()
	defer s.clientsMux.RUnlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for client := range s.clients {
		client.Conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		client.Conn.Close()
	}
}
