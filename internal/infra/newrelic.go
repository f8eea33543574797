// README: Optional New Relic agent; disabled when no license key is configured.
package infra

import (
	"fmt"

	"github.com/newrelic/go-agent/v3/newrelic"
)

func NewNewRelic(appName, licenseKey string) (*newrelic.Application, error) {
	if licenseKey == "" {
		return nil, nil
	}
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(appName),
		newrelic.ConfigLicense(licenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
		newrelic.ConfigAppLogForwardingEnabled(true),
	)
	if err != nil {
		return nil, fmt.Errorf("newrelic: %w", err)
	}
	return app, nil
}
