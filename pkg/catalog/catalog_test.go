package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grumpyproject/grumpy/pkg/augment"
	"github.com/grumpyproject/grumpy/pkg/catalog"
	"github.com/grumpyproject/grumpy/pkg/manifest"
)

func TestSpecs_Executable(t *testing.T) {
	t.Parallel()

	specs := catalog.Specs("demo", "src/main.rs")

	doc, err := augment.Apply(manifest.NewDocument(), specs)
	require.NoError(t, err)

	deps := doc.Section("dependencies")
	require.NotNil(t, deps)
	require.Len(t, deps.Entries, len(catalog.Dependencies))

	for i, d := range catalog.Dependencies {
		assert.Equal(t, d.Name, deps.Entries[i].Key)

		v, _ := deps.Entries[i].Value.AsString()
		assert.Equal(t, d.Version, v)
	}

	bins := doc.ArraySections("bin")
	require.Len(t, bins, 1)

	name, ok := bins[0].Get("name")
	require.True(t, ok)
	s, _ := name.AsString()
	assert.Equal(t, "demo", s)
}

func TestSpecs_LibraryHasNoBinTarget(t *testing.T) {
	t.Parallel()

	specs := catalog.Specs("", "")

	doc, err := augment.Apply(manifest.NewDocument(), specs)
	require.NoError(t, err)

	assert.Empty(t, doc.ArraySections("bin"))
	require.NotNil(t, doc.Section("dependencies"))
}

func TestBinTargetName(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string
	}{
		"plain":         {input: "main", want: "main"},
		"rs_suffix":     {input: "worker.rs", want: "worker"},
		"kebab":         {input: "data-loader", want: "data_loader"},
		"camel":         {input: "dataLoader", want: "data_loader"},
		"already_snake": {input: "data_loader", want: "data_loader"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, catalog.BinTargetName(tc.input))
		})
	}
}
