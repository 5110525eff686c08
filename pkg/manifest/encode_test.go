package manifest_test

import (
	"testing"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grumpyproject/grumpy/pkg/manifest"
)

const cargoManifest = `# Generated by cargo new.
[package]
name = "demo"
version = "0.1.0"
edition = "2021"

# Standard dependencies.
[dependencies]
anyhow = "1.0"
serde = { version = "1.0", features = ["derive"] }

[features]
default = ["std"]

[[bin]]
name = "main"
path = "src/main.rs"
`

func TestEncode_RoundTripBytes(t *testing.T) {
	t.Parallel()

	doc, err := manifest.Parse([]byte(cargoManifest))
	require.NoError(t, err)

	out, err := manifest.Encode(doc)
	require.NoError(t, err)

	assert.Equal(t, cargoManifest, string(out))
}

func TestEncode_RoundTripSemantics(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
	}{
		"cargo_manifest":  {input: cargoManifest},
		"root_keys":       {input: "title = \"top\"\ncount = 3\n\n[package]\nname = \"demo\"\n"},
		"raw_literals":    {input: "[profile.release]\nopt-level = 3\nlto = true\nspeed = 1.25\n"},
		"multiline_array": {input: "[features]\ndefault = [\n    \"std\",\n    \"alloc\",\n]\n"},
		"escapes":         {input: "[package]\ndescription = \"line one\\nline \\\"two\\\"\"\n"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc, err := manifest.Parse([]byte(tc.input))
			require.NoError(t, err)

			out, err := manifest.Encode(doc)
			require.NoError(t, err)

			var want, got map[string]any

			require.NoError(t, toml.Unmarshal([]byte(tc.input), &want))
			require.NoError(t, toml.Unmarshal(out, &got))

			assert.Equal(t, want, got, "serialized output should be semantically equal to input")
		})
	}
}

func TestEncode_ReparseEqual(t *testing.T) {
	t.Parallel()

	doc, err := manifest.Parse([]byte(cargoManifest))
	require.NoError(t, err)

	out, err := manifest.Encode(doc)
	require.NoError(t, err)

	redoc, err := manifest.Parse(out)
	require.NoError(t, err)

	assert.True(t, doc.Equal(redoc))
}

func TestEncode_UnserializableValue(t *testing.T) {
	t.Parallel()

	doc := manifest.NewDocument()
	doc.Sections = append(doc.Sections, &manifest.Section{Name: "package"})
	doc.Section("package").Append("broken", manifest.Value{})

	_, err := manifest.Encode(doc)
	require.ErrorIs(t, err, manifest.ErrUnserializableValue)

	var eerr *manifest.EncodeError
	require.ErrorAs(t, err, &eerr)
	assert.Equal(t, "package", eerr.Section)
	assert.Equal(t, "broken", eerr.Key)
}

func TestDocument_CloneIsDeep(t *testing.T) {
	t.Parallel()

	doc, err := manifest.Parse([]byte(cargoManifest))
	require.NoError(t, err)

	clone := doc.Clone()
	require.True(t, doc.Equal(clone))

	clone.Section("dependencies").Append("extra", manifest.String("1.0"))

	assert.False(t, doc.Section("dependencies").Has("extra"))
	assert.False(t, doc.Equal(clone))
}
