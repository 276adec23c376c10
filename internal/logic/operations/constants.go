package operations

import (
	"fmt"
	"time"
)

const (
	// podSuffixLength is the length of the random suffix of generated pod names.
	podSuffixLength = 8

	// maxNameAttempts bounds retries when a generated pod name was already issued.
	maxNameAttempts = 64

	// Display utilization ranges of pods created by scaling, in percent.
	minPodCPU       = 5
	podCPUSpread    = 15
	minPodMemory    = 10
	podMemorySpread = 20
)

// Delays holds the artificial latency of each operation.
type Delays struct {
	Restart    time.Duration
	Stop       time.Duration
	Delete     time.Duration
	Scale      time.Duration
	RestartAll time.Duration
	StopAll    time.Duration
	DeletePod  time.Duration
	ViewLogs   time.Duration
}

// DefaultDelays returns the latencies the portal has always simulated.
func DefaultDelays() Delays {
	return Delays{
		Restart:    3000 * time.Millisecond,
		Stop:       2000 * time.Millisecond,
		Delete:     1500 * time.Millisecond,
		Scale:      2500 * time.Millisecond,
		RestartAll: 4000 * time.Millisecond,
		StopAll:    3000 * time.Millisecond,
		DeletePod:  1000 * time.Millisecond,
		ViewLogs:   1000 * time.Millisecond,
	}
}

// Scaled multiplies every delay by factor. A factor of 0 disables delays.
func (d Delays) Scaled(factor float64) Delays {
	scale := func(v time.Duration) time.Duration {
		return time.Duration(float64(v) * factor)
	}

	return Delays{
		Restart:    scale(d.Restart),
		Stop:       scale(d.Stop),
		Delete:     scale(d.Delete),
		Scale:      scale(d.Scale),
		RestartAll: scale(d.RestartAll),
		StopAll:    scale(d.StopAll),
		DeletePod:  scale(d.DeletePod),
		ViewLogs:   scale(d.ViewLogs),
	}
}

// Notification keys. Operations on the same target share a key.

func RestartKey(service string) string { return "restart-" + service }

func StopKey(service string) string { return "stop-" + service }

func DeleteKey(service string) string { return "delete-" + service }

func ScaleKey(service string) string { return "scale-" + service }

func LogsKey(pod string) string { return "logs-" + pod }

func DeletePodKey(pod string) string { return "delete-pod-" + pod }

const (
	RestartAllKey = "restart-all"
	StopAllKey    = "stop-all"
)

// namespaceTarget renders the audit target of bulk operations.
func namespaceTarget(namespace string) string {
	return fmt.Sprintf("Namespace: %s", namespace)
}
