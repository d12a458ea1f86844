package coppersmith

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mahdiidarabi/partial-key-factor/internal/parser"
)

// Problem is a factor recovery problem read from a file.
type Problem struct {
	Modulus *big.Int
	P       PartialKnowledge
	Q       *PartialKnowledge // nil selects the univariate pipeline
	Search  ProblemSearch
}

// ProblemSearch holds the optional search settings of a problem file.
// Zero values leave the client's settings untouched.
type ProblemSearch struct {
	Solver     string `json:"solver" yaml:"solver"`
	Start      int    `json:"start" yaml:"start"`
	MaxRounds  int    `json:"max_rounds" yaml:"max_rounds"`
	Secondary  int    `json:"secondary" yaml:"secondary"`
	Workers    int    `json:"workers" yaml:"workers"`
	WindowBits int    `json:"window_bits" yaml:"window_bits"`
}

func (s ProblemSearch) apply(config SearchConfig) SearchConfig {
	if s.Start > 0 {
		config.Start = s.Start
	}
	if s.MaxRounds > 0 {
		config.MaxRounds = s.MaxRounds
	}
	if s.Secondary > 0 {
		config.Secondary = FixedSecondary(s.Secondary)
	}
	return config
}

// ProblemParser defines the interface for reading problems from files.
type ProblemParser interface {
	// ParseProblem parses the problem stored at path.
	ParseProblem(path string) (*Problem, error)
}

// JSONParser parses problems from JSON files.
//
// Expected format:
//
//	{
//	  "modulus": "9991",
//	  "p": {"bits": 7, "msb_known": 4, "msb": 12},
//	  "search": {"solver": "lattice", "max_rounds": 8}
//	}
//
// Numbers may be JSON numbers or strings in decimal, 0x hex or 0b binary.
type JSONParser struct{}

// ParseProblem parses a problem from a JSON file.
func (p *JSONParser) ParseProblem(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Preserve large numbers as json.Number instead of float64
	decoder.DisallowUnknownFields()

	var raw rawProblem
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return raw.problem()
}

// YAMLParser parses problems from YAML files with the same fields as
// JSONParser.
type YAMLParser struct{}

// ParseProblem parses a problem from a YAML file.
func (p *YAMLParser) ParseProblem(path string) (*Problem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw rawProblem
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return raw.problem()
}

// ParserFor picks a parser from the file extension.
func ParserFor(path string) (ProblemParser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return &JSONParser{}, nil
	case ".yaml", ".yml":
		return &YAMLParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported problem file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

type rawProblem struct {
	Modulus number         `json:"modulus" yaml:"modulus"`
	P       *rawKnowledge  `json:"p" yaml:"p"`
	Q       *rawKnowledge  `json:"q,omitempty" yaml:"q,omitempty"`
	Search  *ProblemSearch `json:"search,omitempty" yaml:"search,omitempty"`
}

type rawKnowledge struct {
	Bits     int    `json:"bits" yaml:"bits"`
	MSBKnown int    `json:"msb_known" yaml:"msb_known"`
	MSB      number `json:"msb" yaml:"msb,omitempty"`
	LSBKnown int    `json:"lsb_known" yaml:"lsb_known"`
	LSB      number `json:"lsb" yaml:"lsb,omitempty"`
}

func newRawKnowledge(k PartialKnowledge) *rawKnowledge {
	return &rawKnowledge{
		Bits:     k.Bits,
		MSBKnown: k.MSBKnown,
		MSB:      number{k.MSB},
		LSBKnown: k.LSBKnown,
		LSB:      number{k.LSB},
	}
}

func (r rawKnowledge) knowledge() PartialKnowledge {
	return PartialKnowledge{
		Bits:     r.Bits,
		MSBKnown: r.MSBKnown,
		MSB:      r.MSB.Int,
		LSBKnown: r.LSBKnown,
		LSB:      r.LSB.Int,
	}
}

func (r rawProblem) problem() (*Problem, error) {
	if r.Modulus.Int == nil {
		return nil, fmt.Errorf("missing modulus")
	}
	if r.P == nil {
		return nil, fmt.Errorf("missing p")
	}
	problem := &Problem{
		Modulus: r.Modulus.Int,
		P:       r.P.knowledge(),
	}
	if r.Q != nil {
		q := r.Q.knowledge()
		problem.Q = &q
	}
	if r.Search != nil {
		problem.Search = *r.Search
	}
	return problem, nil
}

func (p *Problem) raw() rawProblem {
	raw := rawProblem{
		Modulus: number{p.Modulus},
		P:       newRawKnowledge(p.P),
	}
	if p.Q != nil {
		raw.Q = newRawKnowledge(*p.Q)
	}
	if p.Search != (ProblemSearch{}) {
		search := p.Search
		raw.Search = &search
	}
	return raw
}

// EncodeYAML writes the problem in the format read by YAMLParser.
func (p *Problem) EncodeYAML(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(p.raw()); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// EncodeJSON writes the problem in the format read by JSONParser.
func (p *Problem) EncodeJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(p.raw()); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// number is a big integer that decodes from JSON and YAML numbers or
// strings.
type number struct {
	*big.Int
}

func (n *number) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var raw interface{}
	if err := decoder.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	v, err := parser.ParseBigInt(raw)
	if err != nil {
		return err
	}
	n.Int = v
	return nil
}

func (n number) MarshalJSON() ([]byte, error) {
	if n.Int == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.String())
}

func (n number) MarshalYAML() (interface{}, error) {
	if n.Int == nil {
		return nil, nil
	}
	return n.String(), nil
}

func (n *number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", node.Line)
	}
	if node.Tag == "!!null" {
		return nil
	}
	v, err := parser.ParseBigInt(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	n.Int = v
	return nil
}
