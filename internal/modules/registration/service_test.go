package registration

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type stubDirectory struct {
	registered map[string]bool
	err        error
	calls      int
}

func (d *stubDirectory) IsRegistered(_ context.Context, mtopID string) (bool, error) {
	d.calls++
	if d.err != nil {
		return false, d.err
	}
	return d.registered[mtopID], nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestService_Check(t *testing.T) {
	dir := &stubDirectory{registered: map[string]bool{"KOR-0101": true}}
	failing := &stubDirectory{err: errors.New("firestore: deadline exceeded")}

	tests := []struct {
		name string
		dir  Directory
		mtop string
		want Status
	}{
		{name: "registered", dir: dir, mtop: "KOR-0101", want: StatusRegistered},
		{name: "registered with padding", dir: dir, mtop: "  KOR-0101 ", want: StatusRegistered},
		{name: "not registered", dir: dir, mtop: "KOR-9999", want: StatusNotRegistered},
		{name: "blank id", dir: dir, mtop: "  ", want: StatusUnknown},
		{name: "lookup failure", dir: failing, mtop: "KOR-0101", want: StatusUnknown},
		{name: "no directory", dir: nil, mtop: "KOR-0101", want: StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.dir, quietLogger())
			if got := svc.Check(context.Background(), tt.mtop); got != tt.want {
				t.Errorf("Check(%q) = %s, want %s", tt.mtop, got, tt.want)
			}
		})
	}
}

func TestCachedDirectory(t *testing.T) {
	addr := os.Getenv("FAIRRIDE_REDIS_ADDR")
	if addr == "" {
		t.Skip("FAIRRIDE_REDIS_ADDR not set; skipping integration test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	ctx := context.Background()
	mtop := "KOR-TEST-" + time.Now().Format("150405.000000")
	defer rdb.Del(ctx, cacheKeyPrefix+mtop)

	dir := &stubDirectory{registered: map[string]bool{mtop: true}}
	cached := NewCachedDirectory(dir, rdb, time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := cached.IsRegistered(ctx, mtop)
		if err != nil || !ok {
			t.Fatalf("IsRegistered() = %v, %v; want true", ok, err)
		}
	}
	if dir.calls != 1 {
		t.Errorf("directory calls = %d, want 1", dir.calls)
	}

	dir.err = errors.New("down")
	rdb.Del(ctx, cacheKeyPrefix+mtop)
	if _, err := cached.IsRegistered(ctx, mtop); err == nil {
		t.Error("expected lookup error to surface when cache is empty")
	}
}
