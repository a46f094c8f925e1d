package project

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"github.com/ralph-lang/ralphc/internal/codegen"
)

// methodSummary is the JSON/YAML-serializable view of a codegen.Method
// (spec.md §6.3 specifies the StatefulContract/StatefulScript shape but
// not a serialization format — this is this repo's own encoder, not a
// spec-mandated wire format).
type methodSummary struct {
	Name                 string   `json:"name" yaml:"name"`
	Public               bool     `json:"public" yaml:"public"`
	UsePreapprovedAssets bool     `json:"usePreapprovedAssets" yaml:"usePreapprovedAssets"`
	UseContractAssets    bool     `json:"useContractAssets" yaml:"useContractAssets"`
	ArgsLength           int      `json:"argsLength" yaml:"argsLength"`
	LocalsLength         int      `json:"localsLength" yaml:"localsLength"`
	ReturnLength         int      `json:"returnLength" yaml:"returnLength"`
	Code                 []string `json:"code" yaml:"code"`
	CodeHash             string   `json:"codeHash" yaml:"codeHash"`
}

type contractSummary struct {
	Name              string          `json:"name" yaml:"name"`
	ImmutableFieldLen int             `json:"immutableFieldLength" yaml:"immutableFieldLength"`
	MutableFieldLen   int             `json:"mutableFieldLength" yaml:"mutableFieldLength"`
	Methods           []methodSummary `json:"methods" yaml:"methods"`
}

type scriptSummary struct {
	Name    string          `json:"name" yaml:"name"`
	Methods []methodSummary `json:"methods" yaml:"methods"`
}

// Summary is the top-level `--json`/`--yaml` dump shape for a Build
// Output (supplemented feature, §6.3's output shape serialized).
type Summary struct {
	Contracts []contractSummary `json:"contracts" yaml:"contracts"`
	Scripts   []scriptSummary   `json:"scripts" yaml:"scripts"`
}

func summarizeMethod(m *codegen.Method) methodSummary {
	code := make([]string, len(m.Code))
	for i, instr := range m.Code {
		code[i] = instr.String()
	}
	return methodSummary{
		Name: m.Name, Public: m.Public,
		UsePreapprovedAssets: m.UsePreapprovedAssets, UseContractAssets: m.UseContractAssets,
		ArgsLength: m.ArgsLength, LocalsLength: m.LocalsLength, ReturnLength: m.ReturnLength,
		Code: code, CodeHash: contentHash(code),
	}
}

// contentHash blake2b-hashes the textual instruction listing as a cheap
// eyeball check of determinism (spec.md §8 property 3: "same source ->
// same bytecode"), not a cryptographic commitment to any wire encoding.
func contentHash(code []string) string {
	sum := blake2b.Sum256([]byte(strings.Join(code, "\n")))
	return fmt.Sprintf("%x", sum)
}

// BuildSummary assembles the serializable Summary for a Build Output.
func BuildSummary(out *Output) Summary {
	var s Summary
	for _, c := range out.Contracts {
		cs := contractSummary{Name: c.Name, ImmutableFieldLen: c.FieldLength.Immutable, MutableFieldLen: c.FieldLength.Mutable}
		for _, m := range c.Methods {
			cs.Methods = append(cs.Methods, summarizeMethod(m))
		}
		s.Contracts = append(s.Contracts, cs)
	}
	for _, sc := range out.Scripts {
		ss := scriptSummary{Name: sc.Name}
		for _, m := range sc.Methods {
			ss.Methods = append(ss.Methods, summarizeMethod(m))
		}
		s.Scripts = append(s.Scripts, ss)
	}
	return s
}

// EncodeJSON/EncodeYAML are the `ralphc build --json`/`--yaml` encoders
// (supplemented feature D).
func EncodeJSON(out *Output) ([]byte, error) {
	return json.MarshalIndent(BuildSummary(out), "", "  ")
}

func EncodeYAML(out *Output) ([]byte, error) {
	return yaml.Marshal(BuildSummary(out))
}

// OutputFilename turns a StatefulContract/StatefulScript name into a
// snake_case file basename (named dependency in SPEC_FULL.md's domain
// stack table). Nothing in cmd/ralphc calls it; `ralphc build` has no
// output-directory flag.
func OutputFilename(name string) string {
	return strcase.ToSnake(name)
}
