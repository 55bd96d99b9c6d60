//go:build !gcloud

package config

// Validate accepts an empty PRIMIND_TASKS_URL; background push is then off
// and alerts go to open views only.
func (c *TaskQueueConfig) Validate() error {
	return nil
}

func (c *TaskQueueConfig) Enabled() bool {
	return c.PrimindTasksURL != ""
}
