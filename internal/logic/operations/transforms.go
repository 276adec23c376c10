package operations

import (
	"fmt"

	"github.com/skillcoder/coreportal/internal/logic/cluster"
)

// restartPods gives every pod a fresh name, bumps its restart counter and resets its age.
func restartPods(svc *cluster.Service, names *NameGenerator) error {
	for i := range svc.Pods {
		name, err := names.Next(svc.Name)
		if err != nil {
			return err
		}

		svc.Pods[i].Name = name
		svc.Pods[i].Restarts++
		svc.Pods[i].Age = cluster.ZeroAge
		svc.Pods[i].Status = cluster.PodRunning
	}

	svc.Status = cluster.ServiceRunning

	return nil
}

// stopPods terminates every pod without removing any of them.
func stopPods(svc *cluster.Service) {
	for i := range svc.Pods {
		svc.Pods[i].Status = cluster.PodTerminated
	}

	svc.Status = cluster.ServiceStopped
}

// rebuildPods replaces the pod list with replicas fresh pods. Pods whose index existed
// before the scale keep the age of the pod they replace.
func rebuildPods(
	svc *cluster.Service,
	replicas int,
	names *NameGenerator,
	percent func(base, spread int) string,
) error {
	previous := svc.Replicas
	pods := make([]cluster.Pod, 0, replicas)

	for i := range replicas {
		name, err := names.Next(svc.Name)
		if err != nil {
			return err
		}

		age := cluster.ZeroAge
		if i < previous && i < len(svc.Pods) {
			age = svc.Pods[i].Age
		}

		pods = append(pods, cluster.Pod{
			Name:     name,
			Status:   cluster.PodRunning,
			Restarts: 0,
			Age:      age,
			Node:     cluster.NodeFor(i),
			CPU:      percent(minPodCPU, podCPUSpread),
			Memory:   percent(minPodMemory, podMemorySpread),
		})
	}

	svc.Pods = pods
	svc.Replicas = replicas
	svc.MaxReplicas = max(svc.MaxReplicas, replicas)
	svc.Status = cluster.ServiceRunning

	return nil
}

// replacePod swaps the pod at index for a fresh one on the same node.
func replacePod(svc *cluster.Service, index int, names *NameGenerator) error {
	name, err := names.Next(svc.Name)
	if err != nil {
		return err
	}

	pod := &svc.Pods[index]
	pod.Name = name
	pod.Status = cluster.PodRunning
	pod.Restarts = 0
	pod.Age = cluster.ZeroAge

	return nil
}

func formatPercent(v int) string {
	return fmt.Sprintf("%d%%", v)
}
