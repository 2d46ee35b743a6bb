package ws

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Client é uma conexão de portal. CompanyID vazio = sessão de comprador, que
// recebe tudo; fornecedores só recebem o que é endereçado à sua empresa.
type Client struct {
	ID        string
	CompanyID string
	Send      chan []byte
}

type companyMsg struct {
	companyID string
	msg       []byte
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client // id da conexão -> client

	register chan *Client
	unreg    chan *Client

	sendAll   chan []byte     // broadcast (sessões de comprador e avisos gerais)
	toCompany chan companyMsg // entrega direcionada por empresa

	log     *slog.Logger
	stop    chan struct{}
	stopped chan struct{}

	nextID atomic.Uint64
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:   make(map[string]*Client),
		register:  make(chan *Client),
		unreg:     make(chan *Client),
		sendAll:   make(chan []byte, 1024),
		toCompany: make(chan companyMsg, 1024),
		log:       log.With("cmp", "ws.hub"),
		stop:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

func (h *Hub) newID() string {
	id := h.nextID.Add(1)
	return fmt.Sprintf("c%d", id)
}

func (h *Hub) Run() {
	h.log.Info("hub_run_start")
	defer close(h.stopped)

	for {
		select {
		case c := <-h.register:
			if c.ID == "" {
				c.ID = h.newID()
			}
			h.mu.Lock()
			h.clients[c.ID] = c
			h.mu.Unlock()
			h.log.Info("client_registered", "id", c.ID, "company_id", c.CompanyID, "total", len(h.clients))

		case c := <-h.unreg:
			h.mu.Lock()
			if c != nil && c.ID != "" {
				if _, ok := h.clients[c.ID]; ok {
					delete(h.clients, c.ID)
					close(c.Send)
				}
			}
			h.mu.Unlock()
			h.log.Info("client_unregistered", "id", c.ID, "total", len(h.clients))

		case msg := <-h.sendAll:
			h.deliver(func(c *Client) bool { return true }, msg)

		case cm := <-h.toCompany:
			h.deliver(func(c *Client) bool { return c.CompanyID == cm.companyID }, cm.msg)

		case <-h.stop:
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.log.Info("hub_run_stop")
			return
		}
	}
}

// deliver envia para todo cliente que o filtro aceitar; cliente lento é
// removido para não travar o hub.
func (h *Hub) deliver(match func(*Client) bool, msg []byte) {
	var slow []*Client

	h.mu.RLock()
	for _, c := range h.clients {
		if !match(c) {
			continue
		}
		select {
		case c.Send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	if len(slow) == 0 {
		return
	}
	h.mu.Lock()
	for _, c := range slow {
		if cc := h.clients[c.ID]; cc != nil {
			delete(h.clients, c.ID)
			close(cc.Send)
			h.log.Warn("client_drop_slow", "id", c.ID, "company_id", c.CompanyID)
		}
	}
	h.mu.Unlock()
}

func (h *Hub) Stop() {
	close(h.stop)
	<-h.stopped
}

func (h *Hub) Register(c *Client)   { h.register <- c }
func (h *Hub) Unregister(c *Client) { h.unreg <- c }

func (h *Hub) Broadcast(b []byte) { h.sendAll <- b }

// SendToCompany entrega para todas as conexões abertas daquela empresa.
func (h *Hub) SendToCompany(companyID string, b []byte) {
	h.toCompany <- companyMsg{companyID: companyID, msg: b}
}
