package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseProperties(t *testing.T) {
	t.Run("it should parse simple key=value properties", func(t *testing.T) {
		// GIVEN
		content := "named=foo scope=app"

		// WHEN
		result := parseProperties(content)

		// THEN
		assert.Equal(t, map[string]string{"named": "foo", "scope": "app"}, result)
	})

	t.Run("it should parse quoted values", func(t *testing.T) {
		// GIVEN
		content := `named="hello world" key=upper`

		// WHEN
		result := parseProperties(content)

		// THEN
		assert.Equal(t, "hello world", result["named"])
		assert.Equal(t, "upper", result["key"])
	})

	t.Run("it should keep lists and package paths unquoted", func(t *testing.T) {
		// GIVEN
		content := "modules=example.com/app/db,example.com/app/http"

		// WHEN
		result := parseProperties(content)

		// THEN
		assert.Equal(t, "example.com/app/db,example.com/app/http", result["modules"])
	})

	t.Run("it should return empty map for empty content", func(t *testing.T) {
		// GIVEN
		content := "   "

		// WHEN
		result := parseProperties(content)

		// THEN
		assert.Empty(t, result)
	})
}

func Test_parseAnnotations(t *testing.T) {
	t.Run("it should separate annotations from the description", func(t *testing.T) {
		// GIVEN
		doc := "ProvideUpper formats in upper case.\nIt is the default formatter.\n@provides into=map key=upper\n"

		// WHEN
		result := parseAnnotations(doc)

		// THEN
		require.True(t, result.has(providesTag))
		provides, _ := result.find(providesTag)
		assert.Equal(t, "ProvideUpper formats in upper case.\nIt is the default formatter.", provides.description)
		into, found := provides.get("into")
		assert.True(t, found)
		assert.Equal(t, "map", into)
	})

	t.Run("it should tell dotted tags apart", func(t *testing.T) {
		// GIVEN
		doc := "@graph.extension scope=request"

		// WHEN
		result := parseAnnotations(doc)

		// THEN
		assert.True(t, result.has(graphExtensionTag))
		assert.False(t, result.has(graphTag))
	})

	t.Run("it should ignore doc comments without annotation", func(t *testing.T) {
		// GIVEN
		doc := "Greeter says hello.\nEmail me @ home."

		// WHEN
		result := parseAnnotations(doc)

		// THEN
		assert.Empty(t, result)
	})
}

func Test_parseParamComment(t *testing.T) {
	t.Run("it should parse the qualifier of a parameter", func(t *testing.T) {
		// GIVEN
		comment := "// @inject named=primary"

		// WHEN
		result := parseParamComment(comment)

		// THEN
		inject, found := result.find(injectTag)
		require.True(t, found)
		named, _ := inject.get("named")
		assert.Equal(t, "primary", named)
	})

	t.Run("it should parse assisted parameters", func(t *testing.T) {
		// GIVEN
		comment := "// @assisted"

		// WHEN
		result := parseParamComment(comment)

		// THEN
		assert.True(t, result.has(assistedTag))
	})

	t.Run("it should ignore regular comments", func(t *testing.T) {
		// GIVEN
		comment := "// the primary database"

		// WHEN
		result := parseParamComment(comment)

		// THEN
		assert.Empty(t, result)
	})
}

func TestAnnotation(t *testing.T) {
	t.Run("it should split comma separated lists", func(t *testing.T) {
		// GIVEN
		a := annotation{tag: graphTag, properties: parseProperties("modules=db, ,http")}

		// WHEN
		modules := a.list("modules")

		// THEN
		assert.Equal(t, []string{"db", "http"}, modules)
		assert.Nil(t, a.list("missing"))
	})

	t.Run("it should report unknown properties sorted", func(t *testing.T) {
		// GIVEN
		a := annotation{tag: injectTag, properties: parseProperties("zeta=1 named=foo alpha=2")}

		// WHEN
		unknown := a.unknown("named", "scope")

		// THEN
		assert.Equal(t, []string{"alpha", "zeta"}, unknown)
	})

	t.Run("it should print the properties in a stable order", func(t *testing.T) {
		// GIVEN
		a := annotation{tag: providesTag, properties: parseProperties("key=upper into=map")}

		// WHEN
		printed := a.String()

		// THEN
		assert.Equal(t, `@provides into="map" key="upper"`, printed)
	})
}
