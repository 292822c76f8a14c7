package xmlutils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"

	"gopkg.in/xmlpath.v2"
)

// ParseXML parses an XML document and returns its root node
func ParseXML(r io.Reader) (*xmlpath.Node, error) {
	root, err := xmlpath.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return root, nil
}

// LoadXMLFile loads an XML file and returns the XML root node
func LoadXMLFile(xmlFilePath string, logger logging.Logger) (*xmlpath.Node, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	file, err := os.Open(xmlFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XML file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file",
				logging.F(logging.FieldInputFile, xmlFilePath))
		}
	}()

	return ParseXML(file)
}

// Nodes returns every node matched by path below node, in document order.
func Nodes(node *xmlpath.Node, path *xmlpath.Path) []*xmlpath.Node {
	var nodes []*xmlpath.Node
	iter := path.Iter(node)
	for iter.Next() {
		nodes = append(nodes, iter.Node())
	}
	return nodes
}

// Text returns the cleaned text of the first match of path, or "".
func Text(node *xmlpath.Node, path *xmlpath.Path) string {
	value, ok := path.String(node)
	if !ok {
		return ""
	}
	return CleanText(value)
}

// FirstNonEmpty returns the first non-empty value.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// CleanText collapses the whitespace and newlines of XML text content
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
