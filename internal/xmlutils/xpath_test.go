package xmlutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/xmlpath.v2"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<root>
	<items>
		<item><name>First</name></item>
		<item><name>
			Second   value
		</name></item>
		<item/>
	</items>
	<single>OnlyOne</single>
</root>`

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Coffee Shop", "Coffee Shop"},
		{"newlines and tabs", "Coffee\n\tShop", "Coffee Shop"},
		{"surrounding space", "   Coffee Shop  ", "Coffee Shop"},
		{"empty", "", ""},
		{"keeps punctuation", "Ref: 123, inv. 4", "Ref: 123, inv. 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestLoadXMLFile(t *testing.T) {
	t.Run("loads valid XML file", func(t *testing.T) {
		xmlPath := filepath.Join(t.TempDir(), "test.xml")
		require.NoError(t, os.WriteFile(xmlPath, []byte(sampleXML), 0600))

		root, err := LoadXMLFile(xmlPath, logging.NewMockLogger())
		require.NoError(t, err)
		assert.NotNil(t, root)
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		_, err := LoadXMLFile("/non/existent/file.xml", nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open XML file")
	})

	t.Run("returns error for invalid XML", func(t *testing.T) {
		xmlPath := filepath.Join(t.TempDir(), "invalid.xml")
		require.NoError(t, os.WriteFile(xmlPath, []byte("<invalid><unclosed>"), 0600))

		_, err := LoadXMLFile(xmlPath, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse XML")
	})
}

func TestNodesAndText(t *testing.T) {
	root, err := ParseXML(strings.NewReader(sampleXML))
	require.NoError(t, err)

	items := Nodes(root, xmlpath.MustCompile("//items/item"))
	require.Len(t, items, 3)

	name := xmlpath.MustCompile("name")
	assert.Equal(t, "First", Text(items[0], name))
	assert.Equal(t, "Second value", Text(items[1], name))
	assert.Equal(t, "", Text(items[2], name))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", FirstNonEmpty("", "b", "c"))
	assert.Equal(t, "", FirstNonEmpty("", ""))
	assert.Equal(t, "", FirstNonEmpty())
}

func TestDefaultCamt053XPaths(t *testing.T) {
	xpaths := DefaultCamt053XPaths()

	assert.True(t, strings.HasPrefix(xpaths.Statement.Node, "//"))
	for _, relative := range []string{
		xpaths.Statement.Entry,
		xpaths.Statement.IBAN,
		xpaths.Entry.Amount,
		xpaths.Entry.BookingDate,
		xpaths.References.EndToEndID,
		xpaths.Party.DebtorName,
	} {
		assert.NotEmpty(t, relative)
		assert.False(t, strings.HasPrefix(relative, "/"), relative)
		_, err := xmlpath.Compile(relative)
		assert.NoError(t, err, relative)
	}
}
