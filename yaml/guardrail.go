// Package yaml loads docbot guardrail policies from YAML files.
package yaml

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/docbot"
	"gopkg.in/yaml.v3"
)

// GuardrailPolicy is the file format of a guardrail policy:
//
//	include_defaults: true
//	categories:
//	  - name: off_topic
//	    terms: [weather, "stock price"]
//	    message: I can only answer questions about the documentation.
type GuardrailPolicy struct {
	IncludeDefaults bool                       `yaml:"include_defaults"`
	Categories      []docbot.GuardrailCategory `yaml:"categories"`
}

// ParseGuardrailPolicy decodes a policy and returns its categories,
// preceded by the built-in ones when include_defaults is set.
// Returns EINVALID for malformed YAML or unknown fields.
func ParseGuardrailPolicy(r io.Reader) ([]docbot.GuardrailCategory, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var policy GuardrailPolicy
	if err := dec.Decode(&policy); err != nil && !errors.Is(err, io.EOF) {
		return nil, docbot.Errorf(docbot.EINVALID, "invalid guardrail policy: %v", err)
	}

	var categories []docbot.GuardrailCategory
	if policy.IncludeDefaults {
		categories = append(categories, docbot.DefaultGuardrailCategories()...)
	}
	return append(categories, policy.Categories...), nil
}

// LoadGuardrail builds a guardrail from the policy file at path. An empty
// path yields the built-in policy.
func LoadGuardrail(path string) (*docbot.DenylistGuardrail, error) {
	if path == "" {
		return docbot.NewDenylistGuardrail(docbot.DefaultGuardrailCategories())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open guardrail policy: %w", err)
	}
	defer f.Close()

	categories, err := ParseGuardrailPolicy(f)
	if err != nil {
		return nil, err
	}
	return docbot.NewDenylistGuardrail(categories)
}
