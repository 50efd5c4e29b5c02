package iterate

// Source is the interface for the per-tick capture strategies. The lifecycle
// is: Prepare once (the only place a source may fail fatally), Capture every
// tick, Close at teardown.
type Source interface {
	// Name identifies the source kind in diagnostics.
	Name() string

	// Prepare does whatever setup the strategy needs before the first tick:
	// probing the file, spawning the child process, discovering stations.
	// An error here aborts the run before sampling starts.
	Prepare() error

	// Capture fills buf with the source's current payload and returns the
	// number of bytes written. Errors are per-tick and recoverable: the
	// caller logs them and emits an empty snapshot for this tick.
	Capture(buf []byte) (int, error)

	// BufferSize reports the working-buffer capacity this source wants.
	// Only meaningful after Prepare.
	BufferSize() int

	// Close releases the source's resources, reaping any child process.
	Close() error
}

// NewSource builds the capture strategy selected by the configuration. The
// configuration must already have passed Validate.
func NewSource(cfg *SampleConfig) Source {
	switch cfg.Kind {
	case KindPipe:
		return NewPipeSource(cfg.Command, cfg.Device)
	case KindStations:
		root := cfg.DebugFS
		if root == "" {
			root = DefaultDebugFS
		}
		return NewStationSource(root, cfg.Device, cfg.Verbose)
	default:
		return NewFileSource(cfg.Filename)
	}
}
