package truss

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/gotruss/internal/geometry"
	"github.com/alexiusacademia/gotruss/internal/loads"
)

var validate = validator.New()

// Definition is a truss as written in a model file.
//
// JSON (comments allowed) and YAML share the same field names:
//
//	name: My first truss
//	members:
//	  - near: {x: 0, y: 0}
//	    far:  {x: 3, y: 0, support: true}
//	load:
//	  at: {x: 0, y: 0}
//	  fx: 0
//	  fy: -2
type Definition struct {
	Name      string             `json:"name" yaml:"name"`
	Tolerance *float64           `json:"tolerance,omitempty" yaml:"tolerance,omitempty" validate:"omitempty,gte=0"`
	Members   []MemberDefinition `json:"members" yaml:"members" validate:"required,min=1,dive"`
	Load      *LoadDefinition    `json:"load,omitempty" yaml:"load,omitempty"`

	// Cases are unfactored load components applied at Load.At, used for
	// load-combination envelopes.
	Cases *loads.Components `json:"cases,omitempty" yaml:"cases,omitempty"`
}

// MemberDefinition is one member entry of a model file
type MemberDefinition struct {
	Near *JointSpec `json:"near" yaml:"near" validate:"required"`
	Far  *JointSpec `json:"far" yaml:"far" validate:"required"`
}

// LoadDefinition is the load entry of a model file
type LoadDefinition struct {
	At geometry.Point `json:"at" yaml:"at"`
	Fx float64        `json:"fx" yaml:"fx"`
	Fy float64        `json:"fy" yaml:"fy"`
}

// LoadFromFile loads a truss definition from a JSON or YAML file
func LoadFromFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var def Definition
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".json", ".jsonc", "":
		if err := json.Unmarshal(jsonc.ToJSON(data), &def); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, &ValidationError{msg: fmt.Sprintf("unsupported model file extension %q (use .json or .yaml)", ext)}
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks the definition's structure
func (d *Definition) Validate() error {
	if err := validate.Struct(d); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// Build creates the truss model described by the definition. Options are
// applied after the file's own tolerance, so callers can override it.
func (d *Definition) Build(opts ...Option) (*Truss, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	if d.Tolerance != nil {
		opts = append([]Option{WithTolerance(*d.Tolerance)}, opts...)
	}
	t := New(d.Name, opts...)

	for _, m := range d.Members {
		if err := t.AddMember(*m.Near, *m.Far); err != nil {
			return nil, err
		}
	}

	if d.Load != nil {
		if err := t.AddLoad(d.Load.At, d.Load.Fx, d.Load.Fy); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// formatValidationError turns validator errors into a ValidationError
func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.TrimPrefix(e.Namespace(), "Definition.")
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must have at least %s entries", field, e.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return &ValidationError{msg: strings.Join(msgs, "; ")}
}
