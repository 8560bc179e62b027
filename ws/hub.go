package ws

// Hub bertanggung jawab untuk:
// menyimpan koneksi client, menerima pesan dari service,
// dan melakukan broadcast pesan ke seluruh client yang terhubung.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Client mewakili koneksi WebSocket
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Pesan adalah amplop {"type","data"} yang dikirim ke dashboard.
type Pesan struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub mengelola semua koneksi client
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log.With().Str("komponen", "ws").Logger(),
	}
}

// Run berjalan sampai ctx selesai, lalu menutup semua client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for client := range h.Clients {
				close(client.Send)
				delete(h.Clients, client)
			}
			return
		case client := <-h.Register:
			h.Clients[client] = true
			h.log.Debug().Int("clients", len(h.Clients)).Msg("client registered")
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				h.log.Debug().Int("clients", len(h.Clients)).Msg("client unregistered")
			}
		case message := <-h.Broadcast:
			for client := range h.Clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.Clients, client)
				}
			}
		}
	}
}

// Kirim membungkus data dalam amplop dan mengantrekannya tanpa memblokir.
func (h *Hub) Kirim(tipe string, data interface{}) error {
	msg, err := json.Marshal(Pesan{Type: tipe, Data: data})
	if err != nil {
		return err
	}
	select {
	case h.Broadcast <- msg:
		return nil
	default:
		return fmt.Errorf("antrian broadcast penuh, pesan %s dibuang", tipe)
	}
}
