// README: Registration service turns directory lookups into rider-facing status.
package registration

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

type Service struct {
	dir Directory
	log logrus.FieldLogger
}

func NewService(dir Directory, log logrus.FieldLogger) *Service {
	return &Service{dir: dir, log: log}
}

// Check never fails: lookup errors are logged and reported as StatusUnknown.
func (s *Service) Check(ctx context.Context, mtopID string) Status {
	mtopID = strings.TrimSpace(mtopID)
	if mtopID == "" || s.dir == nil {
		return StatusUnknown
	}
	ok, err := s.dir.IsRegistered(ctx, mtopID)
	if err != nil {
		s.log.WithError(err).WithField("mtop_id", mtopID).Warn("registration lookup failed")
		return StatusUnknown
	}
	if ok {
		return StatusRegistered
	}
	return StatusNotRegistered
}
