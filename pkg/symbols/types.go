package symbols

// Module identifies one code module (an executable or shared library)
// recorded in a crash report. CodeFile is always set; the remaining
// fields depend on what the dump carried.
type Module struct {
	// CodeFile is the module path as seen on the crashed system,
	// e.g. C:\Windows\System32\ntdll.dll.
	CodeFile string

	// DebugFile is the path of the debug information file the module
	// was built with. May be empty.
	DebugFile string

	// DebugIdentifier uniquely identifies one build of DebugFile, such
	// as the GUID+age string embedded in PE headers. May be empty.
	DebugIdentifier string

	// Version is the module version string. Used to key cache paths
	// only when DebugIdentifier is empty.
	Version string
}

// Result is the outcome of a symbol lookup.
type Result int

const (
	// ResultNotFound means no symbol file could be located or produced
	// for the module. Zero value.
	ResultNotFound Result = iota

	// ResultFound means the symbol file exists locally and its path
	// was returned.
	ResultFound

	// ResultInterrupt means a local resource fault stopped the lookup
	// before it could answer. Absence of symbols is never an
	// interrupt.
	ResultInterrupt
)

func (r Result) String() string {
	switch r {
	case ResultFound:
		return "found"
	case ResultInterrupt:
		return "interrupt"
	default:
		return "not_found"
	}
}
