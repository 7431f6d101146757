package env

import (
	"os"
)

// PodName example: k8ssta-marketledger-api-6868d88fbd-bz8zv, falls back to the hostname
func PodName() string {
	if name := os.Getenv("PODNAME"); name != "" {
		return name
	}
	name, _ := os.Hostname()
	return name
}

// AppName example: api
func AppName() string {
	return os.Getenv("APP_NAME")
}
