// Package xmlutils provides XML-related utility functions used throughout the application.
package xmlutils

// CAMT053 contains the XPath expressions used for CAMT.053 parsing. Statement
// paths are absolute, the others are relative to their statement or entry node.
type CAMT053 struct {
	Statement struct {
		Node      string
		ID        string
		Entry     string
		IBAN      string
		OtherID   string
		Currency  string
		CreatedAt string
	}

	// Entry contains XPath expressions for basic entry data
	Entry struct {
		Amount          string
		Currency        string
		CreditDebitInd  string
		Status          string
		BookingDate     string
		BookingDateTime string
		ValueDate       string
		AccountSvcRef   string
		EntryRef        string
		AddEntryInfo    string
	}

	// References contains XPath expressions for transaction references
	References struct {
		EndToEndID    string
		TransactionID string
	}

	// Remittance contains XPath expressions for remittance information
	Remittance struct {
		UnstructuredInfo string
		AdditionalTxInfo string
	}

	// Party contains XPath expressions for party information
	Party struct {
		DebtorName       string
		DebtorIBAN       string
		CreditorName     string
		CreditorIBAN     string
		UltimateDebtor   string
		UltimateCreditor string
	}
}

// DefaultCamt053XPaths returns a CAMT053 struct with the default XPath expressions
func DefaultCamt053XPaths() CAMT053 {
	camt := CAMT053{}

	camt.Statement.Node = "//BkToCstmrStmt/Stmt"
	camt.Statement.ID = "Id"
	camt.Statement.Entry = "Ntry"
	camt.Statement.IBAN = "Acct/Id/IBAN"
	camt.Statement.OtherID = "Acct/Id/Othr/Id"
	camt.Statement.Currency = "Acct/Ccy"
	camt.Statement.CreatedAt = "CreDtTm"

	camt.Entry.Amount = "Amt"
	camt.Entry.Currency = "Amt/@Ccy"
	camt.Entry.CreditDebitInd = "CdtDbtInd"
	camt.Entry.Status = "Sts"
	camt.Entry.BookingDate = "BookgDt/Dt"
	camt.Entry.BookingDateTime = "BookgDt/DtTm"
	camt.Entry.ValueDate = "ValDt/Dt"
	camt.Entry.AccountSvcRef = "AcctSvcrRef"
	camt.Entry.EntryRef = "NtryRef"
	camt.Entry.AddEntryInfo = "AddtlNtryInf"

	camt.References.EndToEndID = "NtryDtls/TxDtls/Refs/EndToEndId"
	camt.References.TransactionID = "NtryDtls/TxDtls/Refs/TxId"

	camt.Remittance.UnstructuredInfo = "NtryDtls/TxDtls/RmtInf/Ustrd"
	camt.Remittance.AdditionalTxInfo = "NtryDtls/TxDtls/AddtlTxInf"

	camt.Party.DebtorName = "NtryDtls/TxDtls/RltdPties/Dbtr/Nm"
	camt.Party.DebtorIBAN = "NtryDtls/TxDtls/RltdPties/DbtrAcct/Id/IBAN"
	camt.Party.CreditorName = "NtryDtls/TxDtls/RltdPties/Cdtr/Nm"
	camt.Party.CreditorIBAN = "NtryDtls/TxDtls/RltdPties/CdtrAcct/Id/IBAN"
	camt.Party.UltimateDebtor = "NtryDtls/TxDtls/RltdPties/UltmtDbtr/Nm"
	camt.Party.UltimateCreditor = "NtryDtls/TxDtls/RltdPties/UltmtCdtr/Nm" // #nosec G101 -- XPath expression, not credentials

	return camt
}
