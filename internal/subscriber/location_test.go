package subscriber

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"fairride/internal/modules/trip"
	"fairride/internal/types"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

type sample struct {
	owner string
	p     types.Coordinate
}

type recordingSampler struct {
	got []sample
}

func (r *recordingSampler) Sample(_ context.Context, ownerID string, p types.Coordinate) (trip.Snapshot, error) {
	r.got = append(r.got, sample{ownerID, p})
	return trip.Snapshot{State: trip.StateTracking}, nil
}

func newTestSubscriber(t *testing.T, rec *recordingSampler) *LocationSubscriber {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	s, err := NewLocationSubscriber(nil, "fairride/riders/+/location", rec, log)
	if err != nil {
		t.Fatalf("NewLocationSubscriber: %v", err)
	}
	return s
}

func TestNewLocationSubscriber_RequiresWildcard(t *testing.T) {
	if _, err := NewLocationSubscriber(nil, "fairride/riders/location", &recordingSampler{}, logrus.New()); err == nil {
		t.Fatal("expected error for topic without wildcard")
	}
}

func TestHandleMessage(t *testing.T) {
	cases := []struct {
		name    string
		topic   string
		payload string
		want    *sample
	}{
		{
			name:    "valid fix",
			topic:   "fairride/riders/rider-7/location",
			payload: `{"latitude":6.503,"longitude":124.848,"timestamp":1772353800}`,
			want:    &sample{"rider-7", types.Coordinate{Latitude: 6.503, Longitude: 124.848}},
		},
		{name: "bad json", topic: "fairride/riders/rider-7/location", payload: `{"latitude":`},
		{name: "missing longitude", topic: "fairride/riders/rider-7/location", payload: `{"latitude":6.5}`},
		{name: "out of range", topic: "fairride/riders/rider-7/location", payload: `{"latitude":95,"longitude":124.8}`},
		{name: "short topic", topic: "fairride/riders", payload: `{"latitude":6.5,"longitude":124.8}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recordingSampler{}
			s := newTestSubscriber(t, rec)
			s.handleMessage(nil, fakeMessage{topic: tc.topic, payload: []byte(tc.payload)})

			if tc.want == nil {
				if len(rec.got) != 0 {
					t.Fatalf("expected message to be dropped, got %+v", rec.got)
				}
				return
			}
			if len(rec.got) != 1 || rec.got[0] != *tc.want {
				t.Fatalf("got %+v, want %+v", rec.got, *tc.want)
			}
		})
	}
}
