// Package fixtures loads the seed data the service runs on: cases, the policy
// library and the workflow graph. The YAML files are embedded so the binary is
// self-contained.
package fixtures

import (
	"bytes"
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"kycflow/internal/cases/models"
	"kycflow/internal/policy"
	"kycflow/internal/workflow"
	id "kycflow/pkg/domain"
)

//go:embed data/*.yaml
var files embed.FS

// Set is one freshly decoded copy of the seed data. Each call to Load returns
// independent values, so tests can mutate a Set without affecting others.
type Set struct {
	Cases    []*models.Case
	Policies []policy.Policy
	Workflow workflow.Graph
}

// Load decodes and checks every embedded fixture file.
func Load() (*Set, error) {
	set := &Set{}
	if err := decode("data/cases.yaml", &set.Cases); err != nil {
		return nil, err
	}
	if err := decode("data/policies.yaml", &set.Policies); err != nil {
		return nil, err
	}
	if err := decode("data/workflow.yaml", &set.Workflow); err != nil {
		return nil, err
	}
	if err := set.check(); err != nil {
		return nil, err
	}
	return set, nil
}

// MustLoad is Load for tests and main, where bad fixtures are a build defect.
func MustLoad() *Set {
	set, err := Load()
	if err != nil {
		panic(err)
	}
	return set
}

func decode(name string, out any) error {
	raw, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", name, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode fixture %s: %w", name, err)
	}
	return nil
}

func (s *Set) check() error {
	seen := make(map[id.CaseID]struct{}, len(s.Cases))
	for _, c := range s.Cases {
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("fixture case %s: duplicate id", c.ID)
		}
		seen[c.ID] = struct{}{}
		if !c.Status.IsValid() {
			return fmt.Errorf("fixture case %s: invalid status %q", c.ID, c.Status)
		}
		if !c.Customer.Tier.IsValid() {
			return fmt.Errorf("fixture case %s: invalid tier %q", c.ID, c.Customer.Tier)
		}
		// Decoded empty lists come back nil; the API always renders arrays.
		if c.Checks == nil {
			c.Checks = []models.Check{}
		}
		if c.Documents == nil {
			c.Documents = []models.Document{}
		}
		if c.BankStatements == nil {
			c.BankStatements = []models.BankStatement{}
		}
	}
	if dangling := s.Workflow.Validate(); len(dangling) > 0 {
		return fmt.Errorf("workflow edge %s->%s references unknown node", dangling[0].From, dangling[0].To)
	}
	return nil
}
