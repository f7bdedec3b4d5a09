package signature

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sigil-dev/sigil/pkg/types"
	"gopkg.in/yaml.v3"
)

// Loader handles loading signatures from YAML files.
type Loader struct {
	fs fs.FS // embedded filesystem for built-in signatures
}

// NewLoader creates a loader backed by the built-in signature files.
func NewLoader() *Loader {
	return &Loader{
		fs: builtinFS,
	}
}

// NewLoaderWithFS creates a loader with a custom filesystem.
func NewLoaderWithFS(fsys fs.FS) *Loader {
	return &Loader{
		fs: fsys,
	}
}

// LoadSignature loads a single signature from YAML bytes.
// Returns an error if the YAML is invalid or holds more than one entry.
func (l *Loader) LoadSignature(data []byte) (*types.Signature, error) {
	var yamlFile yamlSignaturesFile
	if err := yaml.Unmarshal(data, &yamlFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(yamlFile.Signatures) == 0 {
		return nil, fmt.Errorf("no signatures found in YAML")
	}
	if len(yamlFile.Signatures) > 1 {
		return nil, fmt.Errorf("expected single signature, found %d", len(yamlFile.Signatures))
	}

	return convertYAMLSignature(yamlFile.Signatures[0]), nil
}

// LoadSignatureFile loads signatures from a YAML file path. A file may
// carry any number of signatures.
func (l *Loader) LoadSignatureFile(path string) ([]*types.Signature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var yamlFile yamlSignaturesFile
	if err := yaml.Unmarshal(data, &yamlFile); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	sigs := make([]*types.Signature, 0, len(yamlFile.Signatures))
	for _, ys := range yamlFile.Signatures {
		sigs = append(sigs, convertYAMLSignature(ys))
	}
	return sigs, nil
}

// LoadSignatureSet loads a signature set from YAML bytes.
func (l *Loader) LoadSignatureSet(data []byte) (*types.SignatureSet, error) {
	var yamlFile yamlSignatureSetsFile
	if err := yaml.Unmarshal(data, &yamlFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(yamlFile.SignatureSets) == 0 {
		return nil, fmt.Errorf("no signature sets found in YAML")
	}
	if len(yamlFile.SignatureSets) > 1 {
		return nil, fmt.Errorf("expected single signature set, found %d", len(yamlFile.SignatureSets))
	}

	return convertYAMLSignatureSet(yamlFile.SignatureSets[0]), nil
}

// LoadSignatureSetFile loads a signature set from a YAML file path.
func (l *Loader) LoadSignatureSetFile(path string) (*types.SignatureSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return l.LoadSignatureSet(data)
}

// LoadBuiltin loads all built-in signatures from the embedded filesystem.
func (l *Loader) LoadBuiltin() ([]*types.Signature, error) {
	var sigs []*types.Signature

	err := fs.WalkDir(l.fs, "builtin", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".yml" {
			return nil
		}

		data, err := fs.ReadFile(l.fs, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		var yamlFile yamlSignaturesFile
		if err := yaml.Unmarshal(data, &yamlFile); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		for _, ys := range yamlFile.Signatures {
			sigs = append(sigs, convertYAMLSignature(ys))
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return sigs, nil
}

// LoadBuiltinSets loads all built-in signature sets from the embedded
// filesystem.
func (l *Loader) LoadBuiltinSets() ([]*types.SignatureSet, error) {
	var sets []*types.SignatureSet

	err := fs.WalkDir(l.fs, "sets", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".yml" {
			return nil
		}

		data, err := fs.ReadFile(l.fs, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		var yamlFile yamlSignatureSetsFile
		if err := yaml.Unmarshal(data, &yamlFile); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		for _, ys := range yamlFile.SignatureSets {
			sets = append(sets, convertYAMLSignatureSet(ys))
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return sets, nil
}

// convertYAMLSignature converts a yamlSignature to types.Signature and
// computes the StructuralID.
func convertYAMLSignature(ys yamlSignature) *types.Signature {
	s := &types.Signature{
		ID:               ys.ID,
		Name:             ys.Name,
		Pattern:          ys.Pattern,
		Description:      ys.Description,
		Examples:         ys.Examples,
		NegativeExamples: ys.NegativeExamples,
		References:       ys.References,
		Categories:       ys.Categories,
	}
	s.StructuralID = s.ComputeStructuralID()
	return s
}

// convertYAMLSignatureSet converts a yamlSignatureSet to
// types.SignatureSet.
func convertYAMLSignatureSet(ys yamlSignatureSet) *types.SignatureSet {
	return &types.SignatureSet{
		ID:           ys.ID,
		Name:         ys.Name,
		Description:  ys.Description,
		SignatureIDs: ys.SignatureIDs,
	}
}
