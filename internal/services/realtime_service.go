// internal/services/realtime_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/kicks-catalog/internal/config"
	"github.com/javajoker/kicks-catalog/internal/gateway"
)

const channelSuffix = "_changes"

// ChannelName is the NOTIFY channel the database triggers publish on for a
// collection.
func ChannelName(collection string) string {
	return collection + channelSuffix
}

type notificationListener interface {
	Listen(channel string) error
	Unlisten(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// RealtimeService turns Postgres notifications into payload-free change
// signals per collection.
type RealtimeService struct {
	listener     notificationListener
	pingInterval time.Duration

	mu     sync.Mutex
	subs   map[string][]handler
	nextID uint64
}

type handler struct {
	id       uint64
	onChange func()
}

func NewRealtimeService(cfg *config.Config) *RealtimeService {
	listener := pq.NewListener(
		cfg.Database.DSN(),
		time.Duration(cfg.Realtime.MinReconnect)*time.Second,
		time.Duration(cfg.Realtime.MaxReconnect)*time.Second,
		logListenerEvent,
	)
	return newRealtimeService(listener, time.Duration(cfg.Realtime.PingInterval)*time.Second)
}

func newRealtimeService(listener notificationListener, pingInterval time.Duration) *RealtimeService {
	return &RealtimeService{
		listener:     listener,
		pingInterval: pingInterval,
		subs:         make(map[string][]handler),
	}
}

func logListenerEvent(ev pq.ListenerEventType, err error) {
	entry := logrus.WithField("component", "realtime")
	if err != nil {
		entry = entry.WithError(err)
	}
	switch ev {
	case pq.ListenerEventConnected:
		entry.Info("Change feed connected")
	case pq.ListenerEventDisconnected:
		entry.Warn("Change feed disconnected")
	case pq.ListenerEventReconnected:
		entry.Info("Change feed reconnected")
	case pq.ListenerEventConnectionAttemptFailed:
		entry.Warn("Change feed connection attempt failed")
	}
}

type subscription struct {
	service    *RealtimeService
	collection string
	id         uint64
	once       sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.service.unsubscribe(s.collection, s.id)
	})
}

func (s *RealtimeService) Subscribe(collection string, onChange func()) (gateway.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[collection]; !ok {
		err := s.listener.Listen(ChannelName(collection))
		if err != nil && !errors.Is(err, pq.ErrChannelAlreadyOpen) {
			return nil, fmt.Errorf("failed to listen on %s: %w", ChannelName(collection), err)
		}
	}

	s.nextID++
	s.subs[collection] = append(s.subs[collection], handler{id: s.nextID, onChange: onChange})
	return &subscription{service: s, collection: collection, id: s.nextID}, nil
}

func (s *RealtimeService) unsubscribe(collection string, id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handlers, ok := s.subs[collection]
	if !ok {
		return
	}
	handlers = slices.DeleteFunc(handlers, func(h handler) bool { return h.id == id })
	if len(handlers) > 0 {
		s.subs[collection] = handlers
		return
	}

	delete(s.subs, collection)
	if err := s.listener.Unlisten(ChannelName(collection)); err != nil && !errors.Is(err, pq.ErrChannelNotOpen) {
		logrus.WithError(err).WithField("collection", collection).Warn("Failed to stop listening")
	}
}

// Run dispatches notifications until ctx is done or the listener is closed.
func (s *RealtimeService) Run(ctx context.Context) {
	var tick <-chan time.Time
	if s.pingInterval > 0 {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	notifications := s.listener.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-notifications:
			if !ok {
				return
			}
			s.dispatch(n)
		case <-tick:
			go func() {
				if err := s.listener.Ping(); err != nil {
					logrus.WithError(err).Warn("Change feed ping failed")
				}
			}()
		}
	}
}

// dispatch notifies the subscribers of the notified collection, in the order
// they subscribed. A nil notification follows a reconnect, when changes may
// have been missed, so every subscriber is notified.
func (s *RealtimeService) dispatch(n *pq.Notification) {
	var targets []handler

	s.mu.Lock()
	if n == nil {
		for _, handlers := range s.subs {
			targets = append(targets, handlers...)
		}
	} else {
		collection := strings.TrimSuffix(n.Channel, channelSuffix)
		targets = slices.Clone(s.subs[collection])
	}
	s.mu.Unlock()

	for _, h := range targets {
		h.onChange()
	}
}

func (s *RealtimeService) Close() error {
	return s.listener.Close()
}
