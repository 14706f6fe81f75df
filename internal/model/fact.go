package model

import (
	"fmt"
	"strings"
)

// Fact is a literal piece of information a reply is expected to contain
type Fact struct {
	Name  string `json:"name" yaml:"name" mapstructure:"name"`                       // Stable key (e.g., "exam_type")
	Value string `json:"value" yaml:"value" mapstructure:"value"`                    // Literal looked up in the reply
	Label string `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"` // Human-readable description
}

// DisplayName returns the label when set, the name otherwise
func (f Fact) DisplayName() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// FactSet is an ordered list of expected facts
type FactSet []Fact

// Validate checks that the set is usable for scoring
func (fs FactSet) Validate() error {
	if len(fs) == 0 {
		return fmt.Errorf("%w: no expected facts defined", ErrConfiguration)
	}

	seen := make(map[string]bool, len(fs))
	for i, f := range fs {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return fmt.Errorf("%w: fact %d has no name", ErrConfiguration, i)
		}
		if f.Value == "" {
			return fmt.Errorf("%w: fact %q has no value", ErrConfiguration, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate fact %q", ErrConfiguration, name)
		}
		seen[name] = true
	}

	return nil
}

// Names returns fact names in declaration order
func (fs FactSet) Names() []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

// Lookup returns the fact with the given name
func (fs FactSet) Lookup(name string) (Fact, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f, true
		}
	}
	return Fact{}, false
}

// DefaultFacts returns the exam facts used by the reference chatbot conversation
func DefaultFacts() FactSet {
	return FactSet{
		{Name: "exam_type", Value: "ULTRASSONOGRAFIA", Label: "tipo de exame"},
		{Name: "performed_on", Value: "31/01/2025", Label: "data de realização"},
		{Name: "report_due", Value: "03/02/2025", Label: "data prevista do laudo"},
	}
}

// DefaultReferences returns reference replies for the default facts
func DefaultReferences() []string {
	return []string{
		"Você tem um exame de ULTRASSONOGRAFIA realizado em 31/01/2025. O laudo está previsto para 03/02/2025.",
		"Encontrei um exame de ULTRASSONOGRAFIA realizado em 31/01/2025. Seu laudo está previsto para 03/02/2025.",
		"Verifiquei um ultrassom marcado para 31/01/2025, com laudo previsto em 03/02/2025.",
	}
}
