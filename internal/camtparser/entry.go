package camtparser

import (
	"fmt"
	"strings"
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/currencyutils"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/dateutils"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/parsererror"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/xmlutils"

	"gopkg.in/xmlpath.v2"
)

// Entry status codes (ExternalEntryStatus1Code).
const (
	statusBooked        = "BOOK"
	statusPending       = "PDNG"
	statusInformational = "INFO"
	statusFuture        = "FUTR"
)

// notProvided is the placeholder banks put in mandatory reference fields.
const notProvided = "NOTPROVIDED"

type compiledPaths struct {
	statement, statementID, entry, iban, otherID, accountCurrency, createdAt *xmlpath.Path

	amount, currency, creditDebit, status        *xmlpath.Path
	bookingDate, bookingDateTime, valueDate      *xmlpath.Path
	accountSvcRef, entryRef, addEntryInfo        *xmlpath.Path
	endToEndID, transactionID                    *xmlpath.Path
	unstructured, addTxInfo                      *xmlpath.Path
	debtorName, debtorIBAN, ultimateDebtor       *xmlpath.Path
	creditorName, creditorIBAN, ultimateCreditor *xmlpath.Path
}

func compile(x xmlutils.CAMT053) (compiledPaths, error) {
	var c compiledPaths
	targets := []struct {
		dst  **xmlpath.Path
		expr string
	}{
		{&c.statement, x.Statement.Node},
		{&c.statementID, x.Statement.ID},
		{&c.entry, x.Statement.Entry},
		{&c.iban, x.Statement.IBAN},
		{&c.otherID, x.Statement.OtherID},
		{&c.accountCurrency, x.Statement.Currency},
		{&c.createdAt, x.Statement.CreatedAt},
		{&c.amount, x.Entry.Amount},
		{&c.currency, x.Entry.Currency},
		{&c.creditDebit, x.Entry.CreditDebitInd},
		{&c.status, x.Entry.Status},
		{&c.bookingDate, x.Entry.BookingDate},
		{&c.bookingDateTime, x.Entry.BookingDateTime},
		{&c.valueDate, x.Entry.ValueDate},
		{&c.accountSvcRef, x.Entry.AccountSvcRef},
		{&c.entryRef, x.Entry.EntryRef},
		{&c.addEntryInfo, x.Entry.AddEntryInfo},
		{&c.endToEndID, x.References.EndToEndID},
		{&c.transactionID, x.References.TransactionID},
		{&c.unstructured, x.Remittance.UnstructuredInfo},
		{&c.addTxInfo, x.Remittance.AdditionalTxInfo},
		{&c.debtorName, x.Party.DebtorName},
		{&c.debtorIBAN, x.Party.DebtorIBAN},
		{&c.ultimateDebtor, x.Party.UltimateDebtor},
		{&c.creditorName, x.Party.CreditorName},
		{&c.creditorIBAN, x.Party.CreditorIBAN},
		{&c.ultimateCreditor, x.Party.UltimateCreditor},
	}
	for _, t := range targets {
		p, err := xmlpath.Compile(t.expr)
		if err != nil {
			return compiledPaths{}, fmt.Errorf("failed to compile XPath %q: %w", t.expr, err)
		}
		*t.dst = p
	}
	return c, nil
}

type statementContext struct {
	source    string
	accountID string
	currency  string
}

// convertEntry maps one Ntry. It returns false for entries that are not
// transactions (informational or future-dated).
func (p *Parser) convertEntry(ctx statementContext, index int, node *xmlpath.Node) (models.ProviderTransaction, bool, error) {
	text := func(path *xmlpath.Path) string { return xmlutils.Text(node, path) }
	fail := func(field, value string, err error) error {
		return &parsererror.ParseError{Source: "camt053", Record: index + 1, Field: field, Value: value, Err: err}
	}

	status, ok, err := mapStatus(text(p.paths.status))
	if err != nil {
		return models.ProviderTransaction{}, false, fail("Sts", text(p.paths.status), err)
	}
	if !ok {
		return models.ProviderTransaction{}, false, nil
	}

	amountStr := text(p.paths.amount)
	amount, err := currencyutils.ParseAmount(amountStr)
	if err != nil {
		return models.ProviderTransaction{}, false, fail("Amt", amountStr, err)
	}
	amount, err = currencyutils.ApplyIndicator(amount, text(p.paths.creditDebit))
	if err != nil {
		return models.ProviderTransaction{}, false, fail("CdtDbtInd", text(p.paths.creditDebit), err)
	}

	b := models.NewTransactionBuilder().
		WithAccountID(ctx.accountID).
		WithExternalID(xmlutils.FirstNonEmpty(text(p.paths.accountSvcRef), text(p.paths.transactionID), text(p.paths.entryRef))).
		WithStatus(status).
		WithAmount(amount, xmlutils.FirstNonEmpty(text(p.paths.currency), ctx.currency)).
		WithDebtor(xmlutils.FirstNonEmpty(text(p.paths.debtorName), text(p.paths.ultimateDebtor)), text(p.paths.debtorIBAN)).
		WithCreditor(xmlutils.FirstNonEmpty(text(p.paths.creditorName), text(p.paths.ultimateCreditor)), text(p.paths.creditorIBAN)).
		WithDescription(xmlutils.FirstNonEmpty(text(p.paths.unstructured), text(p.paths.addTxInfo), text(p.paths.addEntryInfo)))

	if e2e := text(p.paths.endToEndID); e2e != "" && !strings.EqualFold(e2e, notProvided) {
		b = b.WithEndToEndID(e2e)
	}

	var booked *time.Time
	if raw := text(p.paths.bookingDateTime); raw != "" {
		ts, err := parseDateTime(raw)
		if err != nil {
			return models.ProviderTransaction{}, false, fail("BookgDt/DtTm", raw, err)
		}
		b = b.WithTimestamp(ts)
		day := dateutils.Day(ts)
		booked = &day
	}
	if raw := text(p.paths.bookingDate); raw != "" {
		d, _, err := dateutils.ParseDate(raw)
		if err != nil {
			return models.ProviderTransaction{}, false, fail("BookgDt/Dt", raw, err)
		}
		booked = &d
	}

	date := booked
	if date == nil {
		raw := text(p.paths.valueDate)
		if raw == "" {
			return models.ProviderTransaction{}, false, &parsererror.DataExtractionError{
				FilePath: ctx.source, FieldName: "BookgDt", Reason: fmt.Sprintf("entry %d has neither booking nor value date", index+1),
			}
		}
		d, _, err := dateutils.ParseDate(raw)
		if err != nil {
			return models.ProviderTransaction{}, false, fail("ValDt/Dt", raw, err)
		}
		date = &d
	}
	b = b.WithDateFromTime(*date)
	if booked != nil && status == models.StatusBooked {
		b = b.WithBookingDate(*booked)
	}

	tx, err := b.Build()
	if err != nil {
		return models.ProviderTransaction{}, false, fail("Ntry", "", err)
	}
	return tx, true, nil
}

// mapStatus translates an entry status. A missing status means booked.
func mapStatus(code string) (models.Status, bool, error) {
	switch strings.ToUpper(code) {
	case "", statusBooked:
		return models.StatusBooked, true, nil
	case statusPending:
		return models.StatusPending, true, nil
	case statusInformational, statusFuture:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("unknown entry status %q", code)
	}
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// parseDateTime reads an ISODateTime. Values without an offset are UTC.
func parseDateTime(value string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date time: %s", value)
}
