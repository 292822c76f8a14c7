package reconcile

import (
	"path/filepath"
	"strings"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/batch"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/camtparser"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/common"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
)

// Dependencies is what the command needs from the application container.
type Dependencies interface {
	GetLogger() logging.Logger
	GetCAMTParser() *camtparser.Parser
	NewProcessor(dryRun bool) *batch.Processor
}

// ReadBatch reads an upstream batch from a CAMT.053 statement or a CSV file.
// Account ids come from account when set, then from the file content, then
// from the file name.
func ReadBatch(parser *camtparser.Parser, path, account string, logger logging.Logger) ([]models.ProviderTransaction, error) {
	isCAMT, err := isCAMTFile(parser, path)
	if err != nil {
		return nil, err
	}
	if isCAMT {
		return readCAMT(parser, path, account, logger)
	}
	return readCSV(path, account, logger)
}

func isCAMTFile(parser *camtparser.Parser, path string) (bool, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return true, nil
	case ".csv":
		return false, nil
	}
	return parser.ValidateFormat(path)
}

func readCAMT(parser *camtparser.Parser, path, account string, logger logging.Logger) ([]models.ProviderTransaction, error) {
	statements, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	var txs []models.ProviderTransaction
	for _, stmt := range statements {
		id := common.ResolveAccount(account, stmt.AccountID, path)
		logger.Debug("Resolved statement account",
			logging.F(logging.FieldAccountID, id.ID),
			logging.F("source", id.Source))
		for _, tx := range stmt.Transactions {
			tx.AccountID = id.ID
			txs = append(txs, tx)
		}
	}
	return txs, nil
}

func readCSV(path, account string, logger logging.Logger) ([]models.ProviderTransaction, error) {
	txs, err := common.ReadUpstreamCSV(path, logger)
	if err != nil {
		return nil, err
	}
	for i := range txs {
		if account != "" || txs[i].AccountID == "" {
			txs[i].AccountID = common.ResolveAccount(account, txs[i].AccountID, path).ID
		}
	}
	return txs, nil
}
