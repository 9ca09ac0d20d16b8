package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/blocks"
	"github.com/BaSui01/blocks/config"
)

type cliPlugin struct {
	blocks.Base
	desc *blocks.Descriptor
}

func (p *cliPlugin) Descriptor() *blocks.Descriptor { return p.desc }

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "empty", value: "", want: nil},
		{name: "single", value: "markdown", want: []string{"markdown"}},
		{name: "multiple", value: "markdown,text_filter", want: []string{"markdown", "text_filter"}},
		{name: "spaces trimmed", value: " markdown , text_filter ", want: []string{"markdown", "text_filter"}},
		{name: "empty parts dropped", value: "markdown,,text_filter,", want: []string{"markdown", "text_filter"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitList(tt.value))
		})
	}
}

func TestResolveSources_PathReplacesConfig(t *testing.T) {
	cfg := &config.Config{
		Sources: []config.SourceConfig{
			{Path: "/etc/blocks/plugins", Recursive: true},
		},
	}
	flags := &sourceFlags{
		path:       "./local",
		recursive:  true,
		categories: "extras,local",
	}

	sources := resolveSources(cfg, flags)
	require.Len(t, sources, 1)
	assert.Equal(t, "./local", sources[0].Path)
	assert.True(t, sources[0].Recursive)
	assert.Equal(t, []string{"extras", "local"}, sources[0].Categories)
}

func TestResolveSources_ConfigWithoutPath(t *testing.T) {
	cfg := &config.Config{
		Sources: []config.SourceConfig{
			{Path: "/etc/blocks/plugins"},
			{Path: "/etc/blocks/extras", Categories: []string{"extras"}},
		},
	}

	sources := resolveSources(cfg, &sourceFlags{})
	assert.Equal(t, cfg.Sources, sources)
}

func TestWritePluginTable(t *testing.T) {
	base := &blocks.Descriptor{Name: "TextFilter", Categories: []string{"text_filter"}}
	plugins := []blocks.Plugin{
		&cliPlugin{desc: base},
		&cliPlugin{desc: &blocks.Descriptor{
			Name:       "MarkdownFilter",
			Categories: []string{"markdown"},
			Extends:    base,
		}},
	}

	var buf strings.Builder
	writePluginTable(&buf, plugins)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[0], "ENABLED")
	assert.Contains(t, lines[0], "CATEGORIES")
	assert.Contains(t, lines[1], "TextFilter")
	assert.Contains(t, lines[1], "true")
	assert.Contains(t, lines[2], "MarkdownFilter")
	assert.Contains(t, lines[2], "markdown, text_filter")
}

func TestWritePluginDetail(t *testing.T) {
	p := &cliPlugin{desc: &blocks.Descriptor{Name: "Bare"}}
	p.Disable()

	var buf strings.Builder
	writePluginDetail(&buf, p)

	out := buf.String()
	assert.Contains(t, out, "Bare\n")
	assert.Contains(t, out, "Enabled:    false")
	assert.Contains(t, out, "Categories: (none)")
	// cliPlugin has no source file, so no Source line
	assert.NotContains(t, out, "Source:")
}

func TestFormatCategories(t *testing.T) {
	assert.Equal(t, "(none)", formatCategories(nil))
	assert.Equal(t, "markdown", formatCategories([]string{"markdown"}))
	assert.Equal(t, "markdown, text_filter", formatCategories([]string{"markdown", "text_filter"}))
}
