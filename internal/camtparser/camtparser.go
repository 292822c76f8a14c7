// Package camtparser reads upstream batches from CAMT.053 bank statements.
package camtparser

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/parsererror"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/xmlutils"

	"gopkg.in/xmlpath.v2"
)

const formatName = "CAMT.053"

// Statement is one Stmt block of a CAMT.053 document.
type Statement struct {
	ID           string
	AccountID    string
	CreatedAt    *time.Time
	Transactions []models.ProviderTransaction
}

// Transactions flattens statements into one upstream batch, in document order.
func Transactions(statements []Statement) []models.ProviderTransaction {
	var out []models.ProviderTransaction
	for _, s := range statements {
		out = append(out, s.Transactions...)
	}
	return out
}

// Parser extracts provider transactions from CAMT.053 documents.
type Parser struct {
	logger     logging.Logger
	paths      compiledPaths
	concurrent *ConcurrentProcessor
}

// NewParser creates a parser using the default XPath expressions.
func NewParser(logger logging.Logger) (*Parser, error) {
	return NewParserWithPaths(logger, xmlutils.DefaultCamt053XPaths())
}

// NewParserWithPaths creates a parser using custom XPath expressions.
func NewParserWithPaths(logger logging.Logger, xpaths xmlutils.CAMT053) (*Parser, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	paths, err := compile(xpaths)
	if err != nil {
		return nil, err
	}
	return &Parser{
		logger:     logger,
		paths:      paths,
		concurrent: NewConcurrentProcessor(logger),
	}, nil
}

// ValidateFormat checks if a file is a valid CAMT.053 XML file.
// A readable file that is not CAMT.053 returns false without error.
func (p *Parser) ValidateFormat(filePath string) (bool, error) {
	if _, err := os.Stat(filePath); err != nil {
		return false, fmt.Errorf("error checking XML file: %w", err)
	}
	root, err := xmlutils.LoadXMLFile(filePath, p.logger)
	if err != nil {
		p.logger.Debug("File is not valid XML", logging.F(logging.FieldInputFile, filePath))
		return false, nil
	}
	if len(xmlutils.Nodes(root, p.paths.statement)) == 0 {
		p.logger.Debug("Missing BkToCstmrStmt/Stmt element, not a CAMT.053 file",
			logging.F(logging.FieldInputFile, filePath))
		return false, nil
	}
	return true, nil
}

// ParseFile parses a CAMT.053 XML file.
func (p *Parser) ParseFile(filePath string) ([]Statement, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening XML file: %w", err)
	}
	defer f.Close()
	return p.Parse(f, filePath)
}

// Parse reads a CAMT.053 document. source names the input in errors and logs.
func (p *Parser) Parse(r io.Reader, source string) ([]Statement, error) {
	root, err := xmlutils.ParseXML(r)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{FilePath: source, ExpectedFormat: formatName, Msg: err.Error()}
	}

	nodes := xmlutils.Nodes(root, p.paths.statement)
	if len(nodes) == 0 {
		return nil, &parsererror.InvalidFormatError{FilePath: source, ExpectedFormat: formatName, Msg: "no BkToCstmrStmt/Stmt element"}
	}

	statements := make([]Statement, 0, len(nodes))
	total := 0
	for _, node := range nodes {
		stmt, err := p.parseStatement(node, source)
		if err != nil {
			return nil, err
		}
		total += len(stmt.Transactions)
		statements = append(statements, stmt)
	}

	p.logger.Info("Parsed CAMT.053 document",
		logging.F(logging.FieldInputFile, source),
		logging.F("statements", len(statements)),
		logging.F(logging.FieldCount, total))
	return statements, nil
}

func (p *Parser) parseStatement(node *xmlpath.Node, source string) (Statement, error) {
	stmt := Statement{
		ID:        xmlutils.Text(node, p.paths.statementID),
		AccountID: xmlutils.FirstNonEmpty(xmlutils.Text(node, p.paths.iban), xmlutils.Text(node, p.paths.otherID)),
	}
	if created := xmlutils.Text(node, p.paths.createdAt); created != "" {
		ts, err := parseDateTime(created)
		if err != nil {
			return Statement{}, &parsererror.DataExtractionError{FilePath: source, FieldName: "CreDtTm", Reason: err.Error()}
		}
		stmt.CreatedAt = &ts
	}

	ctx := statementContext{
		source:    source,
		accountID: stmt.AccountID,
		currency:  xmlutils.Text(node, p.paths.accountCurrency),
	}
	txs, err := p.concurrent.ProcessEntries(xmlutils.Nodes(node, p.paths.entry), func(index int, entry *xmlpath.Node) (models.ProviderTransaction, bool, error) {
		return p.convertEntry(ctx, index, entry)
	})
	if err != nil {
		return Statement{}, err
	}
	stmt.Transactions = txs
	return stmt, nil
}
