package umash

// The default parameters and seed match the example driver of the
// reference implementation, so New hashes to its published values.
// They are fixed and well known: callers needing collision bounds
// that hold against other processes must bring their own Params.
const (
	defaultKey  = "hello example.c"
	defaultSeed = 42
)

var defaultParams = DeriveParams(0, []byte(defaultKey))

// New returns a primary hasher over fixed, process-wide default
// parameters. It exists for convenience and testing; the parameters
// are NOT randomized per process.
func New() *Hasher { return defaultParams.Hasher(defaultSeed) }

// NewFingerprinter is [New] for the 128-bit fingerprint.
func NewFingerprinter() *Fingerprinter {
	return defaultParams.Fingerprinter(defaultSeed)
}
