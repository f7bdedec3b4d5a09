package signature

// yamlSignature is the intermediate struct for parsing signature YAML.
// Maps YAML fields to the types.Signature structure.
type yamlSignature struct {
	Name             string   `yaml:"name"`
	ID               string   `yaml:"id"`
	Pattern          string   `yaml:"pattern"`
	Description      string   `yaml:"description,omitempty"`
	Examples         []string `yaml:"examples,omitempty"`
	NegativeExamples []string `yaml:"negative_examples,omitempty"`
	References       []string `yaml:"references,omitempty"`
	Categories       []string `yaml:"categories,omitempty"`
}

// yamlSignaturesFile is the top-level structure of a signatures YAML
// file: a "signatures" array.
type yamlSignaturesFile struct {
	Signatures []yamlSignature `yaml:"signatures"`
}

// yamlSignatureSet is the intermediate struct for parsing signature set
// YAML.
type yamlSignatureSet struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description,omitempty"`
	SignatureIDs []string `yaml:"include_signature_ids"`
}

// yamlSignatureSetsFile is the top-level structure of a signature sets
// YAML file.
type yamlSignatureSetsFile struct {
	SignatureSets []yamlSignatureSet `yaml:"signature_sets"`
}
