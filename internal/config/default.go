package config

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// defaultYAML renders the default configuration with a short usage header so a
// freshly written config file is self-describing.
func defaultYAML() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# jarvis configuration\n")
	buf.WriteString("# Values can reference environment variables as $NAME.\n")
	buf.WriteString("# Any key can also be overridden via JARVIS_<SECTION>_<KEY> env vars.\n\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(DefaultConfig()); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
