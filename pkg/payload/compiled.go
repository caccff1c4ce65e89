package payload

import (
	"fmt"
	"os"

	"github.com/Layr-Labs/sui-operator-go/pkg/jsonrpc"
	"github.com/Layr-Labs/sui-operator-go/pkg/suiErrors"
)

// CompiledModules is the output of `sui move build --dump-bytecode-as-base64`.
type CompiledModules struct {
	Modules      []string `json:"modules"`
	Dependencies []string `json:"dependencies"`
	Digest       []byte   `json:"digest"`
}

func (c *CompiledModules) UnmarshalJSON(data []byte) error {
	// digest is emitted as a list of byte values rather than base64
	var raw struct {
		Modules      []string `json:"modules"`
		Dependencies []string `json:"dependencies"`
		Digest       []int    `json:"digest"`
	}
	if err := jsonrpc.Unmarshal(data, &raw); err != nil {
		return err
	}
	digest := make([]byte, len(raw.Digest))
	for i, b := range raw.Digest {
		if b < 0 || b > 255 {
			return fmt.Errorf("digest byte %d out of range: %d", i, b)
		}
		digest[i] = byte(b)
	}
	c.Modules = raw.Modules
	c.Dependencies = raw.Dependencies
	c.Digest = digest
	return nil
}

func ParseCompiledModules(data []byte) (*CompiledModules, error) {
	var c CompiledModules
	if err := jsonrpc.Unmarshal(data, &c); err != nil {
		return nil, suiErrors.DecodeFailure("invalid compiled modules: %v", err)
	}
	if len(c.Modules) == 0 {
		return nil, suiErrors.DecodeFailure("compiled package has no modules")
	}
	return &c, nil
}

func LoadCompiledModules(path string) (*CompiledModules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compiled modules %s: %w", path, err)
	}
	return ParseCompiledModules(data)
}

// PublishRequest builds the unsafe_publish call for these modules.
func (c *CompiledModules) PublishRequest(owner, gasObject string, gasBudget uint64) *jsonrpc.Request {
	return UnsafePublish(owner, c.Modules, c.Dependencies, gasObject, gasBudget)
}
