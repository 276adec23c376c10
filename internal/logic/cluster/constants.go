package cluster

const (
	// AllNamespaces selects services from every namespace.
	AllNamespaces = "all"

	// ZeroAge is the display age of a freshly created pod.
	ZeroAge = "0m"

	// nodeCount is the number of nodes new pods are spread across.
	nodeCount = 3
)
