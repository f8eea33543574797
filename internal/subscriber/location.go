// README: MQTT subscriber feeding rider GPS fixes into the trip tracker.
package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"fairride/internal/modules/trip"
	"fairride/internal/types"
)

const handleTimeout = 5 * time.Second

type sampler interface {
	Sample(ctx context.Context, ownerID string, p types.Coordinate) (trip.Snapshot, error)
}

type locationMessage struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Timestamp int64    `json:"timestamp"`
}

// LocationSubscriber consumes topics shaped like "fairride/riders/+/location";
// the "+" segment names the rider.
type LocationSubscriber struct {
	client   mqtt.Client
	topic    string
	ownerIdx int
	trips    sampler
	log      logrus.FieldLogger
}

func NewLocationSubscriber(client mqtt.Client, topic string, trips sampler, log logrus.FieldLogger) (*LocationSubscriber, error) {
	idx := -1
	for i, seg := range strings.Split(topic, "/") {
		if seg == "+" {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("topic %q has no rider wildcard", topic)
	}
	return &LocationSubscriber{client: client, topic: topic, ownerIdx: idx, trips: trips, log: log}, nil
}

func (s *LocationSubscriber) Start() error {
	token := s.client.Subscribe(s.topic, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *LocationSubscriber) Stop() {
	s.client.Unsubscribe(s.topic).Wait()
}

func (s *LocationSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	owner := s.ownerFromTopic(msg.Topic())
	log := s.log.WithFields(logrus.Fields{"topic": msg.Topic(), "owner_id": owner})
	if owner == "" {
		log.Warn("location message without rider id")
		return
	}

	var raw locationMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		log.WithError(err).Warn("invalid location message")
		return
	}
	p, err := parseLocation(&raw)
	if err != nil {
		log.WithError(err).Warn("location validation failed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()
	snap, err := s.trips.Sample(ctx, owner, p)
	if err != nil {
		log.WithError(err).Error("sample failed")
		return
	}
	if snap.State != trip.StateTracking {
		log.Debug("position for idle rider dropped")
	}
}

func (s *LocationSubscriber) ownerFromTopic(topic string) string {
	segs := strings.Split(topic, "/")
	if s.ownerIdx >= len(segs) {
		return ""
	}
	return segs[s.ownerIdx]
}

func parseLocation(msg *locationMessage) (types.Coordinate, error) {
	if msg.Latitude == nil || msg.Longitude == nil {
		return types.Coordinate{}, fmt.Errorf("latitude and longitude: required")
	}
	p := types.Coordinate{Latitude: *msg.Latitude, Longitude: *msg.Longitude}
	if !p.Valid() {
		return types.Coordinate{}, fmt.Errorf("coordinate out of range")
	}
	return p, nil
}
