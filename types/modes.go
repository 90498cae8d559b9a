package types

// FlushMode is the flush scope requested from a component.
type FlushMode uint32

const (
	FlushModeComponent FlushMode = iota
	FlushModeChain
)

func (m FlushMode) String() string {
	if m == FlushModeChain {
		return "chain"
	}
	return "component"
}

// DrainMode is the drain scope requested from a component.
type DrainMode uint32

const (
	DrainModeComponentWithEOS DrainMode = iota
	DrainModeComponentNoEOS
	DrainModeChain
)

func (m DrainMode) String() string {
	switch m {
	case DrainModeComponentNoEOS:
		return "component_no_eos"
	case DrainModeChain:
		return "chain"
	default:
		return "component_with_eos"
	}
}
