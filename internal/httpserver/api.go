package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/skillcoder/coreportal/internal/adapters/outbound/fixtures"
	"github.com/skillcoder/coreportal/internal/logic/audit"
	"github.com/skillcoder/coreportal/internal/logic/authz"
	"github.com/skillcoder/coreportal/internal/logic/cluster"
	"github.com/skillcoder/coreportal/internal/logic/notify"
	"github.com/skillcoder/coreportal/internal/logic/operations"
)

// Dependencies are the components the API serves.
type Dependencies struct {
	Simulator     simulator
	Registry      serviceStore
	Audit         auditLog
	Notifications notificationReader
	Renderer      manifestRenderer
	Policy        *authz.Policy
	DefaultRole   authz.Role
	DefaultUser   string
	// Fixtures loads the services a registry reset restores. Defaults to the built-in set.
	Fixtures func() ([]cluster.Service, error)
}

// API is the JSON API mounted under /api/v1.
type API struct {
	logger        *slog.Logger
	sim           simulator
	registry      serviceStore
	audit         auditLog
	notifications notificationReader
	renderer      manifestRenderer
	policy        *authz.Policy
	defaultRole   authz.Role
	defaultUser   string
	fixtures      func() ([]cluster.Service, error)
	validate      *validator.Validate
}

func NewAPI(logger *slog.Logger, deps Dependencies) *API {
	policy := deps.Policy
	if policy == nil {
		policy = authz.DefaultPolicy()
	}

	defaultRole := deps.DefaultRole
	if defaultRole == "" {
		defaultRole = authz.RoleViewer
	}

	defaultUser := deps.DefaultUser
	if defaultUser == "" {
		defaultUser = audit.DefaultUser
	}

	loadFixtures := deps.Fixtures
	if loadFixtures == nil {
		loadFixtures = fixtures.Default
	}

	return &API{
		logger:        logger.With("component", "api"),
		sim:           deps.Simulator,
		registry:      deps.Registry,
		audit:         deps.Audit,
		notifications: deps.Notifications,
		renderer:      deps.Renderer,
		policy:        policy,
		defaultRole:   defaultRole,
		defaultUser:   defaultUser,
		fixtures:      loadFixtures,
		validate:      newValidator(),
	}
}

// Routes returns the API router.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(a.identify)

	r.With(a.require(authz.ServicesView)).Group(func(r chi.Router) {
		r.Get("/namespaces", a.handleNamespaces)
		r.Get("/services", a.handleListServices)
		r.Get("/services/{name}", a.handleGetService)
		r.Get("/services/{name}/manifest", a.handleManifest)
		r.Get("/notifications", a.handleNotifications)
		r.Get("/operations/{id}", a.handleOperation)
	})

	r.With(a.require(authz.ServicesOperate)).Group(func(r chi.Router) {
		r.Post("/services/{name}/restart", a.handleRestart)
		r.Post("/services/{name}/stop", a.handleStop)
		r.Post("/services/{name}/scale", a.handleScale)
	})

	r.With(a.require(authz.ServicesDelete)).Delete("/services/{name}", a.handleDeleteService)

	r.With(a.require(authz.ServicesBulk)).Group(func(r chi.Router) {
		r.Post("/services/restart-all", a.handleRestartAll)
		r.Post("/services/stop-all", a.handleStopAll)
	})

	r.With(a.require(authz.PodsOperate)).Group(func(r chi.Router) {
		r.Get("/pods/{pod}/logs", a.handleViewLogs)
		r.Delete("/pods/{pod}", a.handleDeletePod)
	})

	r.With(a.require(authz.AuditView)).Get("/audit", a.handleListAudit)
	r.With(a.require(authz.AuditClear)).Delete("/audit", a.handleClearAudit)
	r.With(a.require(authz.RegistryReset)).Post("/registry/reset", a.handleResetRegistry)

	return r
}

type namespacesResponse struct {
	Namespaces []string `json:"namespaces"`
}

type servicesResponse struct {
	Version  uint64            `json:"version"`
	Services []cluster.Service `json:"services"`
}

type notificationsResponse struct {
	Notifications []notify.Notification `json:"notifications"`
}

type auditResponse struct {
	Entries []audit.Entry `json:"entries"`
}

type acceptedResponse struct {
	OperationID     string `json:"operationId"`
	NotificationKey string `json:"notificationKey"`
}

type operationResponse struct {
	OperationID     string            `json:"operationId"`
	NotificationKey string            `json:"notificationKey"`
	Action          audit.Action      `json:"action"`
	Target          string            `json:"target"`
	Message         string            `json:"message"`
	Details         string            `json:"details,omitempty"`
	Services        []cluster.Service `json:"services,omitempty"`
	Version         uint64            `json:"version"`
	DurationMs      int64             `json:"durationMs"`
}

func (a *API) handleNamespaces(w http.ResponseWriter, r *http.Request) {
	snap := a.registry.Snapshot()

	writeJSON(a.logger, w, r, http.StatusOK, namespacesResponse{
		Namespaces: cluster.Namespaces(snap.Services),
	})
}

func (a *API) handleListServices(w http.ResponseWriter, r *http.Request) {
	snap := a.registry.Snapshot()
	q := r.URL.Query()

	writeJSON(a.logger, w, r, http.StatusOK, servicesResponse{
		Version:  snap.Version,
		Services: cluster.Filter(snap.Services, q.Get("namespace"), q.Get("q")),
	})
}

func (a *API) handleGetService(w http.ResponseWriter, r *http.Request) {
	svc, err := a.service(chi.URLParam(r, "name"))
	if err != nil {
		a.fail(w, r, err)

		return
	}

	writeJSON(a.logger, w, r, http.StatusOK, svc)
}

func (a *API) handleManifest(w http.ResponseWriter, r *http.Request) {
	svc, err := a.service(chi.URLParam(r, "name"))
	if err != nil {
		a.fail(w, r, err)

		return
	}

	writeJSON(a.logger, w, r, http.StatusOK, a.renderer.Render(r.Context(), svc))
}

func (a *API) handleNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(a.logger, w, r, http.StatusOK, notificationsResponse{
		Notifications: a.notifications.List(),
	})
}

func (a *API) handleOperation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	n, ok := a.notifications.Operation(id)
	if !ok {
		writeError(a.logger, w, r, http.StatusNotFound, fmt.Errorf("operation %s not found", id))

		return
	}

	writeJSON(a.logger, w, r, http.StatusOK, n)
}

func (a *API) handleRestart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req reasonRequest
	if err := a.prepareService(r, name, &req); err != nil {
		a.fail(w, r, err)

		return
	}

	a.dispatch(w, r, operations.RestartKey(name), func(ctx context.Context) (*operations.Result, error) {
		return a.sim.RestartService(ctx, name, req.Reason)
	})
}

func (a *API) handleStop(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req reasonRequest
	if err := a.prepareService(r, name, &req); err != nil {
		a.fail(w, r, err)

		return
	}

	a.dispatch(w, r, operations.StopKey(name), func(ctx context.Context) (*operations.Result, error) {
		return a.sim.StopService(ctx, name, req.Reason)
	})
}

func (a *API) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req reasonRequest
	if err := a.prepareService(r, name, &req); err != nil {
		a.fail(w, r, err)

		return
	}

	a.dispatch(w, r, operations.DeleteKey(name), func(ctx context.Context) (*operations.Result, error) {
		return a.sim.DeleteService(ctx, name, req.Reason)
	})
}

func (a *API) handleScale(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req scaleRequest
	if err := decode(a.validate, r, &req); err != nil {
		a.fail(w, r, err)

		return
	}

	svc, err := a.service(name)
	if err != nil {
		a.fail(w, r, err)

		return
	}

	replicas := *req.Replicas
	if replicas == svc.Replicas {
		a.fail(w, r, fmt.Errorf("%w: %s already has %d replicas", ErrSameReplicas, name, replicas))

		return
	}

	a.dispatch(w, r, operations.ScaleKey(name), func(ctx context.Context) (*operations.Result, error) {
		return a.sim.ScaleService(ctx, name, replicas, req.Reason)
	})
}

func (a *API) handleRestartAll(w http.ResponseWriter, r *http.Request) {
	namespace, names, reason, err := a.prepareBulk(r)
	if err != nil {
		a.fail(w, r, err)

		return
	}

	a.dispatch(w, r, operations.RestartAllKey, func(ctx context.Context) (*operations.Result, error) {
		return a.sim.RestartAllServices(ctx, namespace, names, reason)
	})
}

func (a *API) handleStopAll(w http.ResponseWriter, r *http.Request) {
	namespace, names, reason, err := a.prepareBulk(r)
	if err != nil {
		a.fail(w, r, err)

		return
	}

	a.dispatch(w, r, operations.StopAllKey, func(ctx context.Context) (*operations.Result, error) {
		return a.sim.StopAllServices(ctx, namespace, names, reason)
	})
}

func (a *API) handleViewLogs(w http.ResponseWriter, r *http.Request) {
	pod := chi.URLParam(r, "pod")
	if err := a.podExists(pod); err != nil {
		a.fail(w, r, err)

		return
	}

	a.dispatch(w, r, operations.LogsKey(pod), func(ctx context.Context) (*operations.Result, error) {
		return a.sim.ViewLogs(ctx, pod)
	})
}

func (a *API) handleDeletePod(w http.ResponseWriter, r *http.Request) {
	pod := chi.URLParam(r, "pod")
	if err := a.podExists(pod); err != nil {
		a.fail(w, r, err)

		return
	}

	a.dispatch(w, r, operations.DeletePodKey(pod), func(ctx context.Context) (*operations.Result, error) {
		return a.sim.DeletePod(ctx, pod)
	})
}

func (a *API) handleListAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := a.audit.List(r.Context())
	if err != nil {
		a.fail(w, r, fmt.Errorf("list audit log: %w", err))

		return
	}

	writeJSON(a.logger, w, r, http.StatusOK, auditResponse{Entries: entries})
}

func (a *API) handleClearAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := a.audit.Clear(ctx); err != nil {
		a.fail(w, r, fmt.Errorf("clear audit log: %w", err))

		return
	}

	a.logger.InfoContext(ctx, "audit log cleared",
		"traceID", middleware.GetReqID(ctx),
		"user", operations.UserFrom(ctx),
	)

	w.WriteHeader(http.StatusNoContent)
}

// handleResetRegistry restores the seed services. With ?version=N the reset only
// applies while the registry is still at version N.
func (a *API) handleResetRegistry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	services, err := a.fixtures()
	if err != nil {
		a.fail(w, r, fmt.Errorf("load fixtures: %w", err))

		return
	}

	var version uint64

	if raw := r.URL.Query().Get("version"); raw != "" {
		expected, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			a.fail(w, r, fmt.Errorf("%w: %q", ErrInvalidVersion, raw))

			return
		}

		version, err = a.registry.CompareAndSwap(expected, services)
		if err != nil {
			a.fail(w, r, err)

			return
		}
	} else {
		version = a.registry.Replace(services)
	}

	a.logger.InfoContext(ctx, "registry reset",
		"traceID", middleware.GetReqID(ctx),
		"user", operations.UserFrom(ctx),
		"version", version,
		"services", len(services),
	)

	writeJSON(a.logger, w, r, http.StatusOK, servicesResponse{
		Version:  version,
		Services: services,
	})
}

// dispatch runs op in the background and answers 202, or with ?wait=true runs it
// inline and answers with its result.
func (a *API) dispatch(
	w http.ResponseWriter,
	r *http.Request,
	key string,
	op func(ctx context.Context) (*operations.Result, error),
) {
	ctx := operations.WithOperationID(r.Context(), uuid.NewString())

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		res, err := op(ctx)
		if err != nil {
			a.fail(w, r, err)

			return
		}

		writeJSON(a.logger, w, r, http.StatusOK, newOperationResponse(res))

		return
	}

	id, err := a.sim.Submit(ctx, func(ctx context.Context) error {
		_, err := op(ctx)

		return err
	})
	if err != nil {
		a.fail(w, r, err)

		return
	}

	w.Header().Set("Location", "/api/v1/operations/"+id)
	writeJSON(a.logger, w, r, http.StatusAccepted, acceptedResponse{
		OperationID:     id,
		NotificationKey: key,
	})
}

func newOperationResponse(res *operations.Result) operationResponse {
	return operationResponse{
		OperationID:     res.Operation.ID,
		NotificationKey: res.Operation.Key,
		Action:          res.Operation.Action,
		Target:          res.Operation.Target,
		Message:         res.SuccessMessage,
		Details:         res.Details,
		Services:        res.Services,
		Version:         res.Version,
		DurationMs:      res.Duration().Round(time.Millisecond).Milliseconds(),
	}
}

// fail writes err as a JSON error with the status it maps to.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		writeJSON(a.logger, w, r, http.StatusUnprocessableEntity, errorResponse{
			Error:  verr.Error(),
			Fields: verr.Fields,
		})

		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		ctx := r.Context()
		a.logger.ErrorContext(ctx, "request failed",
			"traceID", middleware.GetReqID(ctx),
			"path", r.URL.Path,
			"reason", err,
		)
	}

	writeError(a.logger, w, r, status, err)
}

func (a *API) service(name string) (cluster.Service, error) {
	svc, ok := a.registry.Get(name)
	if !ok {
		return cluster.Service{}, fmt.Errorf("%w: %s", operations.ErrServiceNotFound, name)
	}

	return svc, nil
}

func (a *API) podExists(pod string) error {
	if _, _, ok := a.registry.FindPod(pod); !ok {
		return fmt.Errorf("%w: %s", operations.ErrPodNotFound, pod)
	}

	return nil
}

// prepareService validates the body before checking the service exists, so a bad
// request never reaches the simulator.
func (a *API) prepareService(r *http.Request, name string, req *reasonRequest) error {
	if err := decode(a.validate, r, req); err != nil {
		return err
	}

	_, err := a.service(name)

	return err
}

// prepareBulk resolves the services a bulk operation applies to from the
// registry as it is when the request arrives.
func (a *API) prepareBulk(r *http.Request) (string, []string, string, error) {
	var req bulkRequest
	if err := decode(a.validate, r, &req); err != nil {
		return "", nil, "", err
	}

	namespace := req.Namespace
	if namespace == "" {
		namespace = cluster.AllNamespaces
	}

	snap := a.registry.Snapshot()
	names := cluster.Names(cluster.Filter(snap.Services, namespace, req.Query))

	return namespace, names, req.Reason, nil
}
