package cluster

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

// ValidateName checks that name is a DNS-1123 label, as Kubernetes requires for
// service and namespace names.
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}

	if errs := validation.IsDNS1123Label(name); len(errs) > 0 {
		return fmt.Errorf("%w %q: %s", ErrInvalidName, name, strings.Join(errs, "; "))
	}

	return nil
}

// Validate checks the structural invariants of a service at rest.
func Validate(service Service) error {
	if err := ValidateName(service.Name); err != nil {
		return fmt.Errorf("service name: %w", err)
	}

	if err := ValidateName(service.Namespace); err != nil {
		return fmt.Errorf("service %s namespace: %w", service.Name, err)
	}

	switch service.Status {
	case ServiceRunning, ServiceStopped:
	case ServiceRestarting, ServiceStopping, ServiceScaling:
		return fmt.Errorf("service %s: %w: %s", service.Name, ErrNonTerminalStatus, service.Status)
	default:
		return fmt.Errorf("service %s: %w: %q", service.Name, ErrUnknownStatus, service.Status)
	}

	if service.Replicas != len(service.Pods) {
		return fmt.Errorf("service %s: %w: replicas=%d pods=%d",
			service.Name, ErrReplicaMismatch, service.Replicas, len(service.Pods))
	}

	if service.MaxReplicas < service.Replicas {
		return fmt.Errorf("service %s: %w: maxReplicas=%d replicas=%d",
			service.Name, ErrMaxReplicasTooLow, service.MaxReplicas, service.Replicas)
	}

	seen := make(map[string]struct{}, len(service.Pods))

	for i := range service.Pods {
		pod := service.Pods[i]
		if pod.Name == "" {
			return fmt.Errorf("service %s pod %d: %w", service.Name, i, ErrEmptyName)
		}

		if _, ok := seen[pod.Name]; ok {
			return fmt.Errorf("service %s: %w: %s", service.Name, ErrDuplicatePod, pod.Name)
		}

		seen[pod.Name] = struct{}{}

		if pod.Status != PodRunning && pod.Status != PodTerminated {
			return fmt.Errorf("pod %s: %w: %q", pod.Name, ErrUnknownPodStatus, pod.Status)
		}

		if pod.Restarts < 0 {
			return fmt.Errorf("pod %s: %w", pod.Name, ErrNegativeRestarts)
		}
	}

	return nil
}

// ValidateAll validates every service and checks service names are unique.
func ValidateAll(services []Service) error {
	seen := make(map[string]struct{}, len(services))

	for i := range services {
		if err := Validate(services[i]); err != nil {
			return err
		}

		if _, ok := seen[services[i].Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateService, services[i].Name)
		}

		seen[services[i].Name] = struct{}{}
	}

	return nil
}
