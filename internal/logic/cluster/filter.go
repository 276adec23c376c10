package cluster

import (
	"fmt"
	"slices"
	"strings"
)

// Filter returns the services matching namespace and a case-insensitive name query.
// An empty namespace or AllNamespaces matches every namespace; an empty query matches every name.
// The returned services are deep copies.
func Filter(services []Service, namespace, query string) []Service {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Service, 0, len(services))

	for i := range services {
		if !MatchNamespace(services[i], namespace) {
			continue
		}

		if query != "" && !strings.Contains(strings.ToLower(services[i].Name), query) {
			continue
		}

		out = append(out, services[i].Clone())
	}

	return out
}

// MatchNamespace reports whether the service belongs to namespace.
func MatchNamespace(service Service, namespace string) bool {
	return namespace == "" || namespace == AllNamespaces || service.Namespace == namespace
}

// Namespaces returns the sorted distinct namespaces of services.
func Namespaces(services []Service) []string {
	out := make([]string, 0)

	for i := range services {
		if !slices.Contains(out, services[i].Namespace) {
			out = append(out, services[i].Namespace)
		}
	}

	slices.Sort(out)

	return out
}

// Names returns the names of services in order.
func Names(services []Service) []string {
	out := make([]string, 0, len(services))
	for i := range services {
		out = append(out, services[i].Name)
	}

	return out
}

// Find returns the index of the service named name, or -1.
func Find(services []Service, name string) int {
	return slices.IndexFunc(services, func(s Service) bool {
		return s.Name == name
	})
}

// FindPod returns the index of the service owning podName and the pod's position in it.
func FindPod(services []Service, podName string) (int, int, bool) {
	for i := range services {
		for j := range services[i].Pods {
			if services[i].Pods[j].Name == podName {
				return i, j, true
			}
		}
	}

	return -1, -1, false
}

// NodeFor returns the round-robin node label for the pod at index.
func NodeFor(index int) string {
	return fmt.Sprintf("node-%d", (index%nodeCount)+1)
}
