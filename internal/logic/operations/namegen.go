package operations

import (
	"fmt"
	"sync"

	utilrand "k8s.io/apimachinery/pkg/util/rand"

	"github.com/skillcoder/coreportal/internal/logic/cluster"
)

// NameGenerator issues pod names that were never issued or seeded before.
type NameGenerator struct {
	mu     sync.Mutex
	seen   map[string]struct{}
	random func(n int) string
}

// NewNameGenerator creates a generator that will never return a pod name already
// present in services.
func NewNameGenerator(services []cluster.Service) *NameGenerator {
	g := &NameGenerator{
		seen:   make(map[string]struct{}),
		random: utilrand.String,
	}

	for i := range services {
		for _, name := range services[i].PodNames() {
			g.seen[name] = struct{}{}
		}
	}

	return g
}

// Next returns a fresh pod name for service.
func (g *NameGenerator) Next(service string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for range maxNameAttempts {
		name := service + "-" + g.random(podSuffixLength)
		if _, taken := g.seen[name]; taken {
			continue
		}

		g.seen[name] = struct{}{}

		return name, nil
	}

	return "", fmt.Errorf("%w for service %s", ErrNameExhausted, service)
}
