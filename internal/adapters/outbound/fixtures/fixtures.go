// Package fixtures loads the seed services of the mock cluster from YAML.
package fixtures

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skillcoder/coreportal/internal/logic/cluster"
)

//go:embed services.yaml
var defaultServices []byte

var ErrNoServices = errors.New("fixture document has no services")

type document struct {
	Services []service `yaml:"services"`
}

type service struct {
	Name        string `yaml:"name"`
	Namespace   string `yaml:"namespace"`
	Replicas    int    `yaml:"replicas"`
	MaxReplicas int    `yaml:"maxReplicas"`
	Status      string `yaml:"status"`
	CPU         string `yaml:"cpu"`
	Memory      string `yaml:"memory"`
	Pods        []pod  `yaml:"pods"`
}

type pod struct {
	Name     string `yaml:"name"`
	Status   string `yaml:"status"`
	Restarts int    `yaml:"restarts"`
	Age      string `yaml:"age"`
	Node     string `yaml:"node"`
	CPU      string `yaml:"cpu"`
	Memory   string `yaml:"memory"`
}

// Default returns the built-in seed services.
func Default() ([]cluster.Service, error) {
	return Parse(defaultServices)
}

// Load reads seed services from path, or the built-in set when path is empty.
func Load(path string) ([]cluster.Service, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures %s: %w", path, err)
	}

	services, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fixtures %s: %w", path, err)
	}

	return services, nil
}

// Parse decodes and validates a fixture document.
func Parse(data []byte) ([]cluster.Service, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	if len(doc.Services) == 0 {
		return nil, ErrNoServices
	}

	services := make([]cluster.Service, 0, len(doc.Services))
	for _, s := range doc.Services {
		services = append(services, s.toCluster())
	}

	if err := cluster.ValidateAll(services); err != nil {
		return nil, fmt.Errorf("validate fixtures: %w", err)
	}

	return services, nil
}

func (s service) toCluster() cluster.Service {
	pods := make([]cluster.Pod, 0, len(s.Pods))
	for _, p := range s.Pods {
		pods = append(pods, cluster.Pod{
			Name:     p.Name,
			Status:   cluster.PodStatus(p.Status),
			Restarts: p.Restarts,
			Age:      p.Age,
			Node:     p.Node,
			CPU:      p.CPU,
			Memory:   p.Memory,
		})
	}

	return cluster.Service{
		Name:        s.Name,
		Namespace:   s.Namespace,
		Replicas:    s.Replicas,
		MaxReplicas: s.MaxReplicas,
		Status:      cluster.ServiceStatus(s.Status),
		CPU:         s.CPU,
		Memory:      s.Memory,
		Pods:        pods,
	}
}
