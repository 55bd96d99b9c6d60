//go:build gcloud

package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate requires the Cloud Tasks queue that carries background dose
// alerts. The target must be an absolute https URL.
func (c *TaskQueueConfig) Validate() error {
	var errs []error

	for _, field := range []struct {
		env   string
		value string
	}{
		{env: "GCLOUD_PROJECT_ID", value: c.GCloudProjectID},
		{env: "GCLOUD_LOCATION_ID", value: c.GCloudLocationID},
		{env: "GCLOUD_QUEUE_ID", value: c.GCloudQueueID},
		{env: "GCLOUD_TARGET_URL", value: c.GCloudTargetURL},
	} {
		if field.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", field.env))
		}
	}

	if c.GCloudTargetURL != "" {
		if u, err := url.Parse(c.GCloudTargetURL); err != nil || u.Scheme != "https" || u.Host == "" {
			errs = append(errs, errors.New("GCLOUD_TARGET_URL must be an absolute https URL"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("task queue configuration errors: %w", errors.Join(errs...))
	}

	return nil
}

// Enabled is always true on gcloud; Validate has already required a queue.
func (c *TaskQueueConfig) Enabled() bool {
	return true
}
