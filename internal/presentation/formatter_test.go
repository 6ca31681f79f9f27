package presentation

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/contractmeta/internal/testutil"
)

func tokenX(t *testing.T) ContractDTO {
	t.Helper()
	d := testutil.TokenX(t, testutil.ID("id-1"))
	h := d.Registry()
	t.Cleanup(h.Release)
	return FromHandle(d, h)
}

func TestFromHandle(t *testing.T) {
	dto := tokenX(t)
	require.Equal(t, "TokenX", dto.Name)
	require.Equal(t, "id-1", dto.ID)
	require.Equal(t, "deployed", dto.Stage)
	require.Equal(t, testutil.TokenXMetadata(), dto.Metadata)
}

func TestFromHandle_SeesWritesThroughOtherHandles(t *testing.T) {
	d := testutil.TokenX(t)
	h := d.Registry()
	defer h.Release()

	d.Update(func(m map[string]string) { m["network"] = "testnet" })

	dto := FromHandle(d, h)
	require.Equal(t, "testnet", dto.Metadata["network"])
	h.Set("network", "mainnet")
	require.Equal(t, "testnet", dto.Metadata["network"], "DTO holds a snapshot")
}

func TestSortedEntries(t *testing.T) {
	entries := SortedEntries(map[string]string{"b": "2", "a": "1", "c": "3"})
	require.Equal(t, []EntryDTO{{"a", "1"}, {"b", "2"}, {"c", "3"}}, entries)
	require.Empty(t, SortedEntries(nil))
}

func TestFormatter_FormatText(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewFormatter(&buf, ColorNever)
	require.NoError(t, err)

	require.NoError(t, f.Format(FormatText, DefaultHeader, tokenX(t)))

	require.Equal(t, strings.Join([]string{
		"📘 Contract Metadata:",
		"  author: azaM",
		"  signer: 0xDEADBEEF",
		"  status: deployed",
		"  timestamp: 2025-06-28",
		"  validated: true",
		"",
	}, "\n"), buf.String())
}

func TestFormatter_FormatText_AutoOnBufferIsPlain(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewFormatter(&buf, ColorAuto)
	require.NoError(t, err)

	require.NoError(t, f.FormatText("Header", map[string]string{"k": "v"}))
	require.Equal(t, "Header\n  k: v\n", buf.String(), "non-terminal output must not carry escape codes")
}

func TestFormatter_FormatText_AlwaysStylesHeader(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewFormatter(&buf, ColorAlways)
	require.NoError(t, err)

	require.NoError(t, f.FormatText("Header", map[string]string{"k": "v"}))
	out := buf.String()
	require.Contains(t, out, "\x1b[", "header should be styled")
	require.True(t, strings.HasSuffix(out, "\n  k: v\n"), "entries are never styled")
}

func TestFormatter_FormatYAML(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewFormatter(&buf, ColorNever)
	require.NoError(t, err)

	require.NoError(t, f.Format(FormatYAML, DefaultHeader, tokenX(t)))

	var got ContractDTO
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, tokenX(t), got)
	require.Contains(t, buf.String(), "  author: azaM\n", "metadata is indented two spaces")
}

func TestFormatter_FormatJSON(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewFormatter(&buf, ColorNever)
	require.NoError(t, err)

	require.NoError(t, f.Format(FormatJSON, DefaultHeader, tokenX(t)))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "TokenX", got["name"])
	require.Equal(t, "deployed", got["stage"])
	require.Len(t, got["metadata"], 5)
}

func TestFormatter_UnsupportedFormat(t *testing.T) {
	f, err := NewFormatter(&bytes.Buffer{}, ColorNever)
	require.NoError(t, err)

	err = f.Format("toml", DefaultHeader, tokenX(t))
	require.Error(t, err)
	require.Contains(t, err.Error(), `unsupported output format "toml"`)
}

func TestNewFormatter_UnsupportedColor(t *testing.T) {
	f, err := NewFormatter(&bytes.Buffer{}, "rainbow")
	require.Nil(t, f)
	require.Error(t, err)
}
