// Package hub fans broadcast messages out to the server-sent-event
// subscribers connected to this process.
package hub

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/alphadose/haxmap"
	"github.com/panjf2000/ants/v2"
	"github.com/scienceol/labmate/pkg/core/notify"
	"github.com/scienceol/labmate/pkg/middleware/logger"
)

const (
	poolSize   = 64
	bufferSize = 16
)

type subscriber struct {
	userID int64
	ch     chan *notify.SendMsg
}

type Hub struct {
	subs *haxmap.Map[uint64, *subscriber]
	pool *ants.Pool
	seq  atomic.Uint64
}

var (
	once sync.Once
	hub  *Hub
)

// Default returns the process wide hub.
func Default() *Hub {
	once.Do(func() {
		hub = New()
	})
	return hub
}

func New() *Hub {
	pool, err := ants.NewPool(poolSize, ants.WithNonblocking(false))
	if err != nil {
		pool, _ = ants.NewPool(ants.DefaultAntsPoolSize)
	}
	return &Hub{
		subs: haxmap.New[uint64, *subscriber](),
		pool: pool,
	}
}

// Subscribe registers a listener for the messages of userID. The returned
// cancel func must be called once the listener goes away.
func (h *Hub) Subscribe(userID int64) (<-chan *notify.SendMsg, func()) {
	id := h.seq.Add(1)
	sub := &subscriber{userID: userID, ch: make(chan *notify.SendMsg, bufferSize)}
	h.subs.Set(id, sub)

	var closeOnce sync.Once
	return sub.ch, func() {
		closeOnce.Do(func() {
			h.subs.Del(id)
		})
	}
}

func (h *Hub) Len() int {
	return int(h.subs.Len())
}

// Handle decodes a broadcast payload and delivers it to every subscriber of
// the message's user. Slow subscribers drop messages instead of blocking.
func (h *Hub) Handle(ctx context.Context, payload string) error {
	msg := &notify.SendMsg{}
	if err := json.Unmarshal([]byte(payload), msg); err != nil {
		return err
	}

	return h.pool.Submit(func() {
		h.subs.ForEach(func(_ uint64, sub *subscriber) bool {
			if sub.userID != msg.UserID {
				return true
			}
			select {
			case sub.ch <- msg:
			default:
				logger.Warnf(ctx, "sse subscriber of user %d is full, drop msg %s", msg.UserID, msg.UUID)
			}
			return true
		})
	})
}

func (h *Hub) Close() {
	h.pool.Release()
}
