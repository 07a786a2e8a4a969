package pdf

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ReceiptData is a subscription payment receipt, already formatted for
// display.
type ReceiptData struct {
	Number      string
	IssuerName  string
	StoreName   string
	StoreSlug   string
	OwnerEmail  string
	PlanName    string
	Amount      string
	DatePaid    string
	ValidUntil  string
	PaymentNote string
}

func (p *PDFProvider) GenerateReceipt(ctx context.Context, receipt ReceiptData) (io.Reader, error) {
	if receipt.Number == "" {
		return nil, errors.New("receipt number is required")
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(30,
		text.NewCol(8, "Recibo de Assinatura", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, receipt.IssuerName, props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Recibo nº: "+receipt.Number, props.Text{Top: 0}),
			text.New("Data do pagamento: "+receipt.DatePaid, props.Text{Top: 4}),
			text.New("Válido até: "+receipt.ValidUntil, props.Text{Top: 8}),
		),
		col.New(6),
	)

	m.AddRow(30,
		col.New(6).Add(
			text.New("Loja", props.Text{Style: fontstyle.Bold}),
			text.New(receipt.StoreName, props.Text{Top: 5}),
			text.New(receipt.StoreSlug, props.Text{Top: 9}),
		),
		col.New(6).Add(
			text.New("Responsável", props.Text{Style: fontstyle.Bold}),
			text.New(receipt.OwnerEmail, props.Text{Top: 5}),
		),
	)

	m.AddRow(15,
		text.NewCol(12, receipt.Amount+" pago em "+receipt.DatePaid, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   5,
		}),
	)

	m.AddRow(10,
		text.NewCol(8, "Descrição", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Valor", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(15,
		text.NewCol(8, "Plano "+receipt.PlanName+" (30 dias)", props.Text{Size: 9}),
		text.NewCol(4, receipt.Amount, props.Text{Size: 9, Align: align.Right}),
	)

	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Size: 9}),
		text.NewCol(2, receipt.Amount, props.Text{Size: 9, Align: align.Right}),
	)

	if receipt.PaymentNote != "" {
		m.AddRow(15,
			text.NewCol(12, receipt.PaymentNote, props.Text{Size: 8, Top: 5}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
