package shell

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// renderEntry formats one mapping entry as "- key: value\n". Scalar
// values print inline; structured values print as an indented YAML block
// under the key.
func renderEntry(key string, val interface{}) string {
	rendered := renderValue(val)
	if !strings.Contains(rendered, "\n") {
		return fmt.Sprintf("- %s: %s\n", key, rendered)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "- %s:\n", key)
	for _, line := range strings.Split(rendered, "\n") {
		b.WriteString("    " + line + "\n")
	}
	return b.String()
}

// renderValue converts an arbitrary structured value to text.
func renderValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool, int, int64, float32, float64:
		return fmt.Sprintf("%v", v)
	}
	out, err := yaml.Marshal(val)
	if err != nil {
		return fmt.Sprintf("%v", val)
	}
	return strings.TrimRight(string(out), "\n")
}
