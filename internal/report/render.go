package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/vssetup/setup"
)

// Properties keeps the order the service reported the names in.
type Properties []setup.Property

// MarshalJSON encodes p as an object with keys in order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, prop := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(prop.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(prop.Value.Interface())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes p as a mapping with keys in order.
func (p Properties) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, prop := range p {
		var value yaml.Node
		if err := value.Encode(prop.Value.Interface()); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: prop.Name},
			&value,
		)
	}
	return node, nil
}

// WriteJSON writes the instances as an indented JSON array.
func WriteJSON(w io.Writer, instances []*Instance) error {
	if instances == nil {
		instances = []*Instance{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(instances)
}

// WriteYAML writes the instances as a YAML sequence.
func WriteYAML(w io.Writer, instances []*Instance) error {
	if instances == nil {
		instances = []*Instance{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(instances); err != nil {
		return err
	}
	return enc.Close()
}

// WriteText writes the instances in the "key: value" listing format,
// separated by blank lines.
func WriteText(w io.Writer, instances []*Instance) error {
	bw := bufio.NewWriter(w)
	for i, inst := range instances {
		if i > 0 {
			bw.WriteByte('\n')
		}
		writeInstance(&textWriter{w: bw}, inst)
	}
	return bw.Flush()
}

type textWriter struct {
	w     *bufio.Writer
	depth int
}

func (t *textWriter) line(format string, args ...any) {
	t.w.WriteString(strings.Repeat("    ", t.depth))
	t.w.WriteString(strings.TrimRight(fmt.Sprintf(format, args...), " "))
	t.w.WriteByte('\n')
}

func (t *textWriter) field(key string, value any) {
	t.line("%s: %v", key, value)
}

func (t *textWriter) block(open, close string, body func()) {
	t.line("%s", open)
	t.depth++
	body()
	t.depth--
	t.line("%s", close)
}

func (t *textWriter) properties(props Properties) {
	for _, p := range props {
		t.field(p.Name, p.Value)
	}
}

func (t *textWriter) pkg(p Package) {
	t.field("id", p.ID)
	t.field("uniqueId", p.UniqueID)
	t.field("version", p.Version)
	t.field("type", p.Type)
	t.field("branch", p.Branch)
	t.field("chip", p.Chip)
	t.field("isExtension", p.IsExtension)
	t.field("language", p.Language)
}

func (t *textWriter) packages(key string, pkgs []Package) {
	t.block(key+": [", "]", func() {
		for _, p := range pkgs {
			t.block("{", "}", func() { t.pkg(p) })
		}
	})
}

func writeInstance(t *textWriter, inst *Instance) {
	t.field("displayName", inst.DisplayName)
	t.field("description", inst.Description)
	t.field("instanceId", inst.InstanceID)
	t.field("installDate", "FILETIME("+strconv.FormatUint(inst.InstallDate, 10)+")")
	t.field("installationName", inst.InstallationName)
	t.field("installationPath", inst.InstallationPath)
	t.field("installationVersion", inst.InstallationVersion)
	t.field("state", inst.State)
	t.field("enginePath", inst.EnginePath)
	t.field("productPath", inst.ProductPath)

	if p := inst.Product; p != nil {
		t.block("product: {", "}", func() {
			t.pkg(p.Package)
			t.field("isInstalled", p.IsInstalled)
			t.field("supportsExtensions", p.SupportsExtensions)
		})
	}
	if inst.PropertyStore != nil {
		t.block("propertyStore: {", "}", func() { t.properties(inst.PropertyStore) })
	}
	if inst.Properties != nil {
		t.block("properties: {", "}", func() { t.properties(inst.Properties) })
	}
	if c := inst.Catalog; c != nil {
		t.block("catalog: {", "}", func() {
			t.field("isPrerelease", c.IsPrerelease)
			t.properties(c.Info)
		})
	}
	if inst.Packages != nil {
		t.packages("packages", inst.Packages)
	}
	if e := inst.Errors; e != nil {
		t.block("errors: {", "}", func() {
			t.field("errorLogFilePath", e.ErrorLogFilePath)
			t.field("logFilePath", e.LogFilePath)
			if len(e.Failed) > 0 {
				t.block("failedPackages: [", "]", func() {
					for _, f := range e.Failed {
						t.block("{", "}", func() {
							t.pkg(f.Package)
							t.field("logFilePath", f.LogFilePath)
							t.field("description", f.Description)
							t.field("signature", f.Signature)
							t.field("action", f.Action)
							t.field("returnCode", f.ReturnCode)
							for _, d := range f.Details {
								t.field("detail", d)
							}
							if len(f.Affected) > 0 {
								t.packages("affectedPackages", f.Affected)
							}
						})
					}
				})
			}
			if len(e.Skipped) > 0 {
				t.packages("skippedPackages", e.Skipped)
			}
			if re := e.RuntimeError; re != nil {
				t.block("runtimeError: {", "}", func() {
					t.field("hresult", re.HResult)
					t.field("className", re.ClassName)
					t.field("message", re.Message)
				})
			}
		})
	}
}

// Write renders instances in format: "text", "json" or "yaml".
func Write(w io.Writer, format string, instances []*Instance) error {
	switch format {
	case "", "text":
		return WriteText(w, instances)
	case "json":
		return WriteJSON(w, instances)
	case "yaml":
		return WriteYAML(w, instances)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
