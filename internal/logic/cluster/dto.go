package cluster

// ServiceStatus is the lifecycle status of a Service.
type ServiceStatus string

const (
	ServiceRunning    ServiceStatus = "Running"
	ServiceRestarting ServiceStatus = "Restarting"
	ServiceStopping   ServiceStatus = "Stopping"
	ServiceScaling    ServiceStatus = "Scaling"
	ServiceStopped    ServiceStatus = "Stopped"
)

// IsTerminal reports whether no operation is in flight for a service in this status.
func (s ServiceStatus) IsTerminal() bool {
	return s == ServiceRunning || s == ServiceStopped
}

// PodStatus is the status of a single Pod.
type PodStatus string

const (
	PodRunning    PodStatus = "Running"
	PodTerminated PodStatus = "Terminated"
)

// Pod is a single replica instance of a Service.
type Pod struct {
	Name     string    `json:"name"`
	Status   PodStatus `json:"status"`
	Restarts int       `json:"restarts"`
	Age      string    `json:"age"`
	Node     string    `json:"node"`
	CPU      string    `json:"cpu"`
	Memory   string    `json:"memory"`
}

// Service is a named, namespaced workload owning zero or more Pods.
type Service struct {
	Name        string        `json:"name"`
	Namespace   string        `json:"namespace"`
	Replicas    int           `json:"replicas"`
	MaxReplicas int           `json:"maxReplicas"`
	Status      ServiceStatus `json:"status"`
	CPU         string        `json:"cpu"`
	Memory      string        `json:"memory"`
	Pods        []Pod         `json:"pods"`
}

// Clone returns a deep copy of the service.
func (s Service) Clone() Service {
	out := s
	if s.Pods != nil {
		out.Pods = make([]Pod, len(s.Pods))
		copy(out.Pods, s.Pods)
	}

	return out
}

// PodNames returns the names of the service's pods in display order.
func (s Service) PodNames() []string {
	names := make([]string, 0, len(s.Pods))
	for i := range s.Pods {
		names = append(names, s.Pods[i].Name)
	}

	return names
}

// CloneAll deep-copies a slice of services.
func CloneAll(services []Service) []Service {
	if services == nil {
		return nil
	}

	out := make([]Service, len(services))
	for i := range services {
		out[i] = services[i].Clone()
	}

	return out
}
