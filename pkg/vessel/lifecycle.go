package vessel

// PostConstruct is implemented by components that need to finish setting up
// once their dependencies are injected. An error aborts Initialize.
type PostConstruct interface {
	PostConstruct() error
}

// State is the lifecycle phase of a ContainerManager
type State int

const (
	StateNew State = iota
	StateScanning
	StateAnalyzing
	StateSorting
	StateInitializingMain
	StateInitializingInterceptors
	StateReady
	StateFailed
)

// String returns the phase name
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateScanning:
		return "scanning"
	case StateAnalyzing:
		return "analyzing"
	case StateSorting:
		return "sorting"
	case StateInitializingMain:
		return "initializing-main"
	case StateInitializingInterceptors:
		return "initializing-interceptors"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
