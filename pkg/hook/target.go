package hook

import (
	"fmt"
	"strings"
)

// Target is the Move entry function a hook calls.
type Target struct {
	Package  string `json:"package" yaml:"package"`
	Module   string `json:"module" yaml:"module"`
	Function string `json:"function" yaml:"function"`
}

// ParseTarget reads the "package::module::function" form used on the command line.
func ParseTarget(value string) (Target, error) {
	parts := strings.Split(value, "::")
	if len(parts) != 3 {
		return Target{}, fmt.Errorf("invalid target %q, expected package::module::function", value)
	}
	t := Target{Package: parts[0], Module: parts[1], Function: parts[2]}
	return t, t.Validate()
}

func (t Target) Validate() error {
	if t.Package == "" {
		return fmt.Errorf("target package is required")
	}
	if !strings.HasPrefix(t.Package, "0x") {
		return fmt.Errorf("target package %q must be a 0x prefixed object id", t.Package)
	}
	if t.Module == "" {
		return fmt.Errorf("target module is required")
	}
	if t.Function == "" {
		return fmt.Errorf("target function is required")
	}
	return nil
}

func (t Target) IsZero() bool {
	return t == Target{}
}

func (t Target) String() string {
	return fmt.Sprintf("%s::%s::%s", t.Package, t.Module, t.Function)
}
