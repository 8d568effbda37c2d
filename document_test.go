package qfx

import (
	"errors"
	"strings"
	"testing"
)

// statementDocument is the complete download generated from one buy and one
// advisory fee, with the clock frozen by freezeNow.
const statementDocument = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
  <SIGNONMSGSRSV1>
    <SONRS>
      <STATUS>
        <CODE>0</CODE>
        <SEVERITY>INFO</SEVERITY>
      </STATUS>
      <DTSERVER>20230701103000</DTSERVER>
      <LANGUAGE>ENG</LANGUAGE>
      <FI>
        <ORG>4705</ORG>
      </FI>
      <INTU.BID>4705</INTU.BID>
      <INTU.USERID>U424465</INTU.USERID>
    </SONRS>
  </SIGNONMSGSRSV1>
  <INVSTMTMSGSRSV1>
    <INVSTMTTRNRS>
      <TRNUID>0</TRNUID>
      <STATUS>
        <CODE>0</CODE>
        <SEVERITY>INFO</SEVERITY>
      </STATUS>
      <INVSTMTRS>
        <DTASOF>20230701</DTASOF>
        <CURDEF>USD</CURDEF>
        <INVACCTFROM>
          <BROKERID>WellsFargo</BROKERID>
          <ACCTID>123456789</ACCTID>
        </INVACCTFROM>
        <INVTRANLIST>
          <DTSTART>20230115120000.000[-5:EST]</DTSTART>
          <DTEND>20230220120000.000[-5:EST]</DTEND>
          <BUYSTOCK>
            <INVBUY>
              <INVTRAN>
                <FITID>TXN202301150001</FITID>
                <DTTRADE>20230115</DTTRADE>
                <DTSETTLE>20230117</DTSETTLE>
                <MEMO>Buy: ACME CORP COM</MEMO>
              </INVTRAN>
              <SECID>
                <UNIQUEID>023135106</UNIQUEID>
                <UNIQUEIDTYPE>CUSIP</UNIQUEIDTYPE>
              </SECID>
              <UNITS>10</UNITS>
              <UNITPRICE>25.000000000</UNITPRICE>
              <TOTAL>-250.00</TOTAL>
              <SUBACCTSEC>CASH</SUBACCTSEC>
              <SUBACCTFUND>CASH</SUBACCTFUND>
            </INVBUY>
            <BUYTYPE>BUY</BUYTYPE>
          </BUYSTOCK>
          <INVBANKTRAN>
            <STMTTRN>
              <TRNTYPE>FEE</TRNTYPE>
              <DTPOSTED>20230220</DTPOSTED>
              <TRNAMT>-12.50</TRNAMT>
              <FITID>TXN202302200002</FITID>
              <MEMO>Advisory Fee: QUARTERLY ADVISORY FEE</MEMO>
              <CURRENCY>
                <CURRATE>1.0</CURRATE>
                <CURSYM>USD</CURSYM>
              </CURRENCY>
            </STMTTRN>
            <SUBACCTFUND>CASH</SUBACCTFUND>
          </INVBANKTRAN>
        </INVTRANLIST>
        <INVBAL>
          <AVAILCASH>0.00</AVAILCASH>
          <MARGINBALANCE>0.00</MARGINBALANCE>
          <SHORTBALANCE>0.00</SHORTBALANCE>
        </INVBAL>
      </INVSTMTRS>
    </INVSTMTTRNRS>
  </INVSTMTMSGSRSV1>
  <SECLISTMSGSRSV1>
    <SECLIST>
      <STOCKINFO>
        <SECINFO>
          <SECID>
            <UNIQUEID>023135106</UNIQUEID>
            <UNIQUEIDTYPE>CUSIP</UNIQUEIDTYPE>
          </SECID>
          <SECNAME>ACME</SECNAME>
          <TICKER>ACME</TICKER>
        </SECINFO>
      </STOCKINFO>
    </SECLIST>
  </SECLISTMSGSRSV1>
</OFX>
`

func TestDocumentString(t *testing.T) {
	freezeNow(t)
	rows := []Row{
		buyRow(),
		{
			Date:        "02/20/2023",
			Account:     "My Brokerage",
			Activity:    "Advisory Fee",
			Description: "QUARTERLY ADVISORY FEE",
			Amount:      "(12.50)",
		},
	}
	doc, err := Build(rows, testConfig(t), listedOnly("ACME"))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := doc.String(); got != statementDocument {
		t.Errorf("String() =\n%s\nwant:\n%s", got, statementDocument)
	}
}

func TestBuildDocument(t *testing.T) {
	rows := []Row{
		buyRow(),
		{Date: "02/20/2023", Account: "My Brokerage", Activity: "Dividend",
			Description: "ACME CORP COM CASH DIV", CUSIP: "023135106", Symbol: "ACME", Amount: "15.00"},
		{Date: "03/31/2023", Account: "My Brokerage", Activity: "Advisory Fee",
			Description: "QUARTERLY FEE", Amount: "(12.50)"},
		{Date: "04/10/2023", Account: "My Brokerage", Activity: "ACH Activity",
			Description: "ACH DISBURSEMENT", Amount: "(500.00)"},
	}
	doc, err := Build(rows, testConfig(t), listedOnly("ACME"))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if doc.AccountID != "123456789" {
		t.Errorf("AccountID = %q, want %q", doc.AccountID, "123456789")
	}
	invest, bank := doc.counts()
	if invest != 3 || bank != 1 {
		t.Errorf("counts() = %d, %d, want 3, 1", invest, bank)
	}
	// the buy and the dividend share one security; the transfer adds cash
	if doc.Securities.Len() != 2 {
		t.Errorf("Securities.Len() = %d, want 2", doc.Securities.Len())
	}
	if !doc.HasPeriod || doc.Start != NewDate(2023, 1, 15) || doc.End != NewDate(2023, 4, 10) {
		t.Errorf("period = %v..%v (%v), want 2023-01-15..2023-04-10", doc.Start, doc.End, doc.HasPeriod)
	}
}

func TestBuildBankingFollowsInvestment(t *testing.T) {
	freezeNow(t)
	sellRow := buyRow()
	sellRow.Date = "01/20/2023"
	sellRow.Activity = "Sell"
	sellRow.Quantity = "-10"
	sellRow.Amount = "250.00"
	// export interleaves trades and cash movements
	rows := []Row{
		{Date: "01/10/2023", Account: "My Brokerage", Activity: "Advisory Fee",
			Description: "QUARTERLY FEE", Amount: "(12.50)"},
		buyRow(),
		{Date: "01/18/2023", Account: "My Brokerage", Activity: "Interest",
			Description: "SWEEP INTEREST", Amount: "0.42"},
		sellRow,
	}
	doc, err := Build(rows, testConfig(t), listedOnly("ACME"))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	rendered := doc.String()
	// banking blocks come last, export order preserved within each group
	buy := strings.Index(rendered, "<BUYSTOCK>")
	sell := strings.Index(rendered, "<SELLSTOCK>")
	fee := strings.Index(rendered, "<TRNTYPE>FEE</TRNTYPE>")
	interest := strings.Index(rendered, "<TRNTYPE>INT</TRNTYPE>")
	if buy < 0 || sell < 0 || fee < 0 || interest < 0 {
		t.Fatalf("missing blocks (buy %d, sell %d, fee %d, interest %d) in:\n%s",
			buy, sell, fee, interest, rendered)
	}
	if !(buy < sell && sell < fee && fee < interest) {
		t.Errorf("blocks out of order: buy %d, sell %d, fee %d, interest %d", buy, sell, fee, interest)
	}
}

func TestBuildRowErrorContext(t *testing.T) {
	rows := []Row{
		buyRow(),
		{Date: "02/20/2023", Account: "My Brokerage", Activity: "Margin Call", Description: "X"},
	}
	_, err := Build(rows, testConfig(t), listedOnly("ACME"))
	if !errors.Is(err, ErrUnknownActivity) {
		t.Fatalf("Build() error = %v, want ErrUnknownActivity", err)
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Errorf("error should locate the row, got %v", err)
	}
}

func TestBuildEmptyStatement(t *testing.T) {
	_, err := Build(nil, testConfig(t), listedOnly())
	if err == nil || !strings.Contains(err.Error(), "no account information") {
		t.Errorf("Build() error = %v, want no account information", err)
	}
}

func TestBuildUnmappedAccount(t *testing.T) {
	row := buyRow()
	row.Account = "Somebody Else"
	_, err := Build([]Row{row}, testConfig(t), listedOnly("ACME"))
	if !errors.Is(err, ErrAccountNotMapped) {
		t.Errorf("Build() error = %v, want ErrAccountNotMapped", err)
	}

	// row problems surface before the account lookup
	bad := row
	bad.Activity = "Margin Call"
	_, err = Build([]Row{bad}, testConfig(t), listedOnly("ACME"))
	if !errors.Is(err, ErrUnknownActivity) {
		t.Errorf("Build() error = %v, want ErrUnknownActivity", err)
	}
}

func TestDocumentNoSecurities(t *testing.T) {
	rows := []Row{{Date: "03/31/2023", Account: "My Brokerage", Activity: "Advisory Fee",
		Description: "QUARTERLY FEE", Amount: "(12.50)"}}
	doc, err := Build(rows, testConfig(t), listedOnly())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if strings.Contains(doc.String(), "SECLISTMSGSRSV1") {
		t.Errorf("a document without securities carries no security list:\n%s", doc)
	}
}

func TestDocumentPeriodFallback(t *testing.T) {
	freezeNow(t)
	rows := []Row{{Date: "Pending", Account: "My Brokerage", Activity: "Advisory Fee",
		Description: "QUARTERLY FEE", Amount: "(12.50)"}}
	doc, err := Build(rows, testConfig(t), listedOnly())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if doc.HasPeriod {
		t.Errorf("HasPeriod = true without a parseable date")
	}
	if !strings.Contains(doc.String(), "<DTSTART>20230701120000.000[-5:EST]</DTSTART>") {
		t.Errorf("an undated statement pins the period to today:\n%s", doc)
	}
}
