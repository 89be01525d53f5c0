// Package compiler turns raw scene documents into domain definitions.
package compiler

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/nexus/pkg/domain"
)

// Parser converts raw bytes into a scene Definition. JSON and YAML are both
// accepted; the payload decides.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes the raw content into a Definition. JSON is tried first
// since scene files served over HTTP are JSON; YAML covers files authored
// by hand.
func (p *Parser) Parse(data []byte) (*domain.Definition, error) {
	var def domain.Definition
	if err := json.Unmarshal(data, &def); err != nil {
		if yerr := yaml.Unmarshal(data, &def); yerr != nil {
			return nil, fmt.Errorf("failed to parse scene: %w", err)
		}
	}
	if def.ID == "" {
		return nil, fmt.Errorf("scene missing ID")
	}
	return &def, nil
}
