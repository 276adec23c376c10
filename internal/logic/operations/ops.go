package operations

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/skillcoder/coreportal/internal/logic/audit"
	"github.com/skillcoder/coreportal/internal/logic/cluster"
)

// RestartService replaces every pod of the service with a freshly named one.
func (s *Simulator) RestartService(ctx context.Context, name, reason string) (*Result, error) {
	return s.execute(ctx, plan{
		op: Operation{
			Action:       audit.ActionRestartService,
			Target:       name,
			Key:          RestartKey(name),
			Reason:       reason,
			StartMessage: fmt.Sprintf("Restarting service %s...", name),
			ErrorMessage: "Failed to restart service " + name,
		},
		lockKeys:     []string{name},
		transitional: cluster.ServiceRestarting,
		delay:        s.delays.Restart,
		apply: func(services []cluster.Service, res *Result) ([]cluster.Service, error) {
			idx, err := findService(services, name)
			if err != nil {
				return nil, err
			}

			if err := restartPods(&services[idx], s.names); err != nil {
				return nil, err
			}

			res.Details = "Service restarted successfully. Reason: " + reason
			res.SuccessMessage = fmt.Sprintf("Service %s restarted successfully!", name)
			res.Services = []cluster.Service{services[idx].Clone()}

			return services, nil
		},
	})
}

// StopService terminates every pod of the service. Pods stay listed.
func (s *Simulator) StopService(ctx context.Context, name, reason string) (*Result, error) {
	return s.execute(ctx, plan{
		op: Operation{
			Action:       audit.ActionStopService,
			Target:       name,
			Key:          StopKey(name),
			Reason:       reason,
			StartMessage: fmt.Sprintf("Stopping service %s...", name),
			ErrorMessage: "Failed to stop service " + name,
		},
		lockKeys:     []string{name},
		transitional: cluster.ServiceStopping,
		delay:        s.delays.Stop,
		apply: func(services []cluster.Service, res *Result) ([]cluster.Service, error) {
			idx, err := findService(services, name)
			if err != nil {
				return nil, err
			}

			stopPods(&services[idx])

			res.Details = "Service stopped successfully. Reason: " + reason
			res.SuccessMessage = fmt.Sprintf("Service %s stopped successfully!", name)
			res.Services = []cluster.Service{services[idx].Clone()}

			return services, nil
		},
	})
}

// DeleteService removes the service from the registry.
func (s *Simulator) DeleteService(ctx context.Context, name, reason string) (*Result, error) {
	return s.execute(ctx, plan{
		op: Operation{
			Action:       audit.ActionDeleteService,
			Target:       name,
			Key:          DeleteKey(name),
			Reason:       reason,
			StartMessage: fmt.Sprintf("Deleting service %s...", name),
			ErrorMessage: "Failed to delete service " + name,
		},
		lockKeys: []string{name},
		delay:    s.delays.Delete,
		precheck: s.serviceExists(name),
		apply: func(services []cluster.Service, res *Result) ([]cluster.Service, error) {
			idx, err := findService(services, name)
			if err != nil {
				return nil, err
			}

			res.Details = "Service deleted successfully. Reason: " + reason
			res.SuccessMessage = fmt.Sprintf("Service %s has been deleted!", name)
			res.Services = []cluster.Service{}

			return slices.Delete(services, idx, idx+1), nil
		},
	})
}

// ScaleService rebuilds the service's pods to replicas entries.
func (s *Simulator) ScaleService(ctx context.Context, name string, replicas int, reason string) (*Result, error) {
	current, _ := s.registry.Get(name)

	return s.execute(ctx, plan{
		op: Operation{
			Action: audit.ActionScaleService,
			Target: name,
			Key:    ScaleKey(name),
			Reason: reason,
			StartMessage: fmt.Sprintf("Scaling service %s from %d to %d replicas...",
				name, current.Replicas, replicas),
			ErrorMessage: "Failed to scale service " + name,
		},
		lockKeys:     []string{name},
		transitional: cluster.ServiceScaling,
		delay:        s.delays.Scale,
		precheck: func() error {
			if replicas < 0 {
				return fmt.Errorf("%w: %d", ErrInvalidReplicas, replicas)
			}

			return nil
		},
		apply: func(services []cluster.Service, res *Result) ([]cluster.Service, error) {
			idx, err := findService(services, name)
			if err != nil {
				return nil, err
			}

			previous := services[idx].Replicas

			if err := rebuildPods(&services[idx], replicas, s.names, s.percent); err != nil {
				return nil, err
			}

			res.Details = fmt.Sprintf("Scaling completed from %d to %d replicas. Reason: %s",
				previous, replicas, reason)
			res.SuccessMessage = fmt.Sprintf("Service %s scaled from %d to %d replicas!",
				name, previous, replicas)
			res.Services = []cluster.Service{services[idx].Clone()}

			return services, nil
		},
	})
}

// RestartAllServices restarts every named service in one registry write.
// Names no longer present are skipped. An empty list is still audited.
func (s *Simulator) RestartAllServices(
	ctx context.Context,
	namespace string,
	names []string,
	reason string,
) (*Result, error) {
	return s.bulk(ctx, bulkOp{
		action:     audit.ActionRestartAllServices,
		key:        RestartAllKey,
		namespace:  namespace,
		names:      names,
		reason:     reason,
		delay:      s.delays.RestartAll,
		verb:       "Restarting",
		done:       "restarted",
		infinitive: "restart",
		transform: func(svc *cluster.Service) error {
			return restartPods(svc, s.names)
		},
	})
}

// StopAllServices stops every named service in one registry write.
func (s *Simulator) StopAllServices(
	ctx context.Context,
	namespace string,
	names []string,
	reason string,
) (*Result, error) {
	return s.bulk(ctx, bulkOp{
		action:     audit.ActionStopAllServices,
		key:        StopAllKey,
		namespace:  namespace,
		names:      names,
		reason:     reason,
		delay:      s.delays.StopAll,
		verb:       "Stopping",
		done:       "stopped",
		infinitive: "stop",
		transform: func(svc *cluster.Service) error {
			stopPods(svc)

			return nil
		},
	})
}

type bulkOp struct {
	action     audit.Action
	key        string
	namespace  string
	names      []string
	reason     string
	delay      time.Duration
	verb       string
	done       string
	infinitive string
	transform  func(svc *cluster.Service) error
}

func (s *Simulator) bulk(ctx context.Context, b bulkOp) (*Result, error) {
	names := slices.Clone(b.names)
	details := fmt.Sprintf("Services: %s. Reason: %s", strings.Join(names, ", "), b.reason)

	p := plan{
		op: Operation{
			Action:       b.action,
			Target:       namespaceTarget(b.namespace),
			Key:          b.key,
			Reason:       b.reason,
			StartMessage: fmt.Sprintf("%s all services in namespace %s...", b.verb, b.namespace),
			ErrorMessage: fmt.Sprintf("Failed to %s all services in namespace %s", b.infinitive, b.namespace),
		},
		lockKeys: names,
		delay:    b.delay,
	}

	success := fmt.Sprintf("All services in namespace %s %s successfully!", b.namespace, b.done)
	p.describe = func(res *Result) {
		res.Details = details
		res.SuccessMessage = success
	}

	if len(names) == 0 {
		return s.execute(ctx, p)
	}

	p.apply = func(services []cluster.Service, res *Result) ([]cluster.Service, error) {
		res.Services = make([]cluster.Service, 0, len(names))

		for _, name := range names {
			idx := cluster.Find(services, name)
			if idx < 0 {
				continue
			}

			if err := b.transform(&services[idx]); err != nil {
				return nil, err
			}

			res.Services = append(res.Services, services[idx].Clone())
		}

		return services, nil
	}

	return s.execute(ctx, p)
}

// ViewLogs simulates opening the logs of a pod. It does not touch the registry.
func (s *Simulator) ViewLogs(ctx context.Context, pod string) (*Result, error) {
	return s.execute(ctx, plan{
		op: Operation{
			Action:        audit.ActionViewLogs,
			Target:        pod,
			Key:           LogsKey(pod),
			StartMessage:  fmt.Sprintf("Opening logs for pod %s...", pod),
			ErrorMessage:  "Failed to open logs for pod " + pod,
			Informational: true,
		},
		delay: s.delays.ViewLogs,
		describe: func(res *Result) {
			res.SuccessMessage = fmt.Sprintf("Logs for %s opened in new window", pod)
		},
	})
}

// DeletePod replaces the pod in place with a freshly named one.
func (s *Simulator) DeletePod(ctx context.Context, pod string) (*Result, error) {
	owner, _, found := s.registry.FindPod(pod)

	return s.execute(ctx, plan{
		op: Operation{
			Action:       audit.ActionDeletePod,
			Target:       pod,
			Key:          DeletePodKey(pod),
			StartMessage: fmt.Sprintf("Deleting pod %s...", pod),
			ErrorMessage: "Failed to delete pod " + pod,
		},
		lockKeys: []string{owner},
		delay:    s.delays.DeletePod,
		precheck: func() error {
			if !found {
				return fmt.Errorf("%w: %s", ErrPodNotFound, pod)
			}

			return nil
		},
		apply: func(services []cluster.Service, res *Result) ([]cluster.Service, error) {
			svcIdx, podIdx, ok := cluster.FindPod(services, pod)
			if !ok || services[svcIdx].Name != owner {
				return nil, fmt.Errorf("%w: %s", ErrPodNotFound, pod)
			}

			if err := replacePod(&services[svcIdx], podIdx, s.names); err != nil {
				return nil, err
			}

			res.Details = "Pod deleted and new pod created"
			res.SuccessMessage = fmt.Sprintf("Pod %s deleted and replaced with new pod", pod)
			res.Services = []cluster.Service{services[svcIdx].Clone()}

			return services, nil
		},
	})
}

func (s *Simulator) serviceExists(name string) func() error {
	return func() error {
		if _, ok := s.registry.Get(name); !ok {
			return fmt.Errorf("%w: %s", ErrServiceNotFound, name)
		}

		return nil
	}
}

func findService(services []cluster.Service, name string) (int, error) {
	idx := cluster.Find(services, name)
	if idx < 0 {
		return 0, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}

	return idx, nil
}
