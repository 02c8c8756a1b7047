package instance

import "os"

// GetID names the running process for logs: the platform dyno id, then the
// container hostname, then "local".
func GetID() string {
	for _, key := range []string{"DYNO", "HOSTNAME"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "local"
}
