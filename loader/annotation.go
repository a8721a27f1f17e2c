package loader

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

const (
	injectTag           = "@inject"
	providesTag         = "@provides"
	bindsTag            = "@binds"
	graphTag            = "@graph"
	graphExtensionTag   = "@graph.extension"
	graphCreatorTag     = "@graph.creator"
	assistedFactoryTag  = "@assisted.factory"
	assistedTag         = "@assisted"
	contributesTag      = "@contributes"
	injectStructTagName = "inject"
)

var (
	annotationLine = regexp.MustCompile(`^(@[\w.]+)(?:\s+(.*))?$`)
	// key=value or key="value"
	property = regexp.MustCompile(`(\w+)=(?:"([^"]*)"|([\w.,/\-]+))`)
)

type annotation struct {
	tag         string
	description string
	properties  map[string]string
}

// annotations are the @tag lines of a doc comment, the other lines form their description.
type annotations map[string]annotation

func (a annotation) get(key string) (string, bool) {
	value, found := a.properties[key]
	return value, found
}

func (a annotation) list(key string) []string {
	raw, found := a.properties[key]
	if !found {
		return nil
	}
	var values []string
	for _, value := range strings.Split(raw, ",") {
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}
	return values
}

// unknown lists the properties outside of the known ones, sorted.
func (a annotation) unknown(known ...string) []string {
	var res []string
	for key := range a.properties {
		if !slices.Contains(known, key) {
			res = append(res, key)
		}
	}
	slices.Sort(res)
	return res
}

func (a annotation) String() string {
	keys := make([]string, 0, len(a.properties))
	for key := range a.properties {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	props := make([]string, len(keys))
	for i, key := range keys {
		props[i] = fmt.Sprintf("%s=%q", key, a.properties[key])
	}
	return strings.TrimSpace(a.tag + " " + strings.Join(props, " "))
}

func parseAnnotations(docText string) annotations {
	res := make(annotations)
	var description []string
	for _, line := range strings.Split(docText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		match := annotationLine.FindStringSubmatch(line)
		if match == nil {
			description = append(description, line)
			continue
		}
		res[match[1]] = annotation{tag: match[1], properties: parseProperties(match[2])}
	}
	for tag, a := range res {
		a.description = strings.Join(description, "\n")
		res[tag] = a
	}
	return res
}

func (a annotations) find(tag string) (annotation, bool) {
	found, exists := a[tag]
	return found, exists
}

func (a annotations) has(tag string) bool {
	_, exists := a[tag]
	return exists
}

func parseProperties(content string) map[string]string {
	properties := make(map[string]string)
	content = strings.TrimSpace(content)
	if content == "" {
		return properties
	}

	for _, match := range property.FindAllStringSubmatch(content, -1) {
		key := match[1]
		// match[2] is quoted value, match[3] is unquoted value
		value := match[2]
		if value == "" {
			value = match[3]
		}
		properties[key] = value
	}
	return properties
}

// parseParamComment reads the trailing comment of a parameter, like "// @inject named=primary".
func parseParamComment(comment string) annotations {
	content := strings.TrimSpace(strings.TrimPrefix(comment, "//"))
	if !strings.HasPrefix(content, "@") {
		return annotations{}
	}
	return parseAnnotations(content)
}
