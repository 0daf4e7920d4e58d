package order

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Transcript labels (es-CO)
const (
	transcriptGreeting   = "¡Hola! Quiero realizar un pedido:"
	transcriptSubtotal   = "Subtotal"
	transcriptTotal      = "Total"
	transcriptBuyerTitle = "Datos del cliente:"
	labelName            = "Nombre"
	labelEmail           = "Correo"
	labelPhone           = "Teléfono"
	labelAddress         = "Dirección"
	labelNotes           = "Notas"
)

// Receipt is the output of Formatter.Format: the text handed to the
// messaging channel and the structured record of the same order.
type Receipt struct {
	Transcript string
	Record     Record
}

// Formatter turns a cart snapshot and buyer details into a Receipt.
// It reads its inputs only and returns the same output for the same input.
type Formatter struct {
	money valueobject.MoneyFormatter
}

// NewFormatter creates a formatter using the given money display rules
func NewFormatter(money valueobject.MoneyFormatter) *Formatter {
	if money == nil {
		money = valueobject.NewCOPFormatter()
	}
	return &Formatter{money: money}
}

// Format renders the transcript and builds the order record
func (f *Formatter) Format(lines []cart.Line, buyer BuyerDetails) Receipt {
	buyer = buyer.Normalize()
	rec := f.record(lines, buyer)

	var b strings.Builder
	b.WriteString(transcriptGreeting)
	b.WriteString("\n\n")
	for _, it := range rec.Items {
		b.WriteString("• ")
		b.WriteString(it.ProductName)
		if it.Flavor != nil {
			b.WriteString(" (" + *it.Flavor + ")")
		}
		b.WriteString(" x")
		b.WriteString(strconv.Itoa(it.Quantity))
		b.WriteString(" = ")
		b.WriteString(f.price(it.Total))
		b.WriteString("\n")
	}
	b.WriteString("\n" + transcriptSubtotal + ": " + f.price(rec.Subtotal) + "\n")
	b.WriteString(transcriptTotal + ": " + f.price(rec.Total) + "\n\n")

	b.WriteString(transcriptBuyerTitle + "\n")
	field(&b, labelName, buyer.Name)
	field(&b, labelEmail, buyer.Email)
	if buyer.Phone != "" {
		field(&b, labelPhone, buyer.Phone)
	}
	field(&b, labelAddress, buyer.ShippingAddress)
	if buyer.Notes != "" {
		field(&b, labelNotes, buyer.Notes)
	}

	return Receipt{Transcript: b.String(), Record: rec}
}

func (f *Formatter) record(lines []cart.Line, buyer BuyerDetails) Record {
	items := make([]Line, 0, len(lines))
	subtotal := decimal.Zero
	for _, l := range lines {
		unit := l.Product.EffectiveUnitPrice()
		total := unit.Mul(decimal.NewFromInt(int64(l.Quantity)))
		items = append(items, Line{
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			Flavor:      optional(l.FlavorName()),
			Quantity:    l.Quantity,
			UnitPrice:   unit,
			Total:       total,
		})
		subtotal = subtotal.Add(total)
	}
	return Record{
		CustomerName:    buyer.Name,
		CustomerEmail:   buyer.Email,
		CustomerPhone:   optional(buyer.Phone),
		ShippingAddress: buyer.ShippingAddress,
		Notes:           optional(buyer.Notes),
		Items:           items,
		Subtotal:        subtotal,
		Total:           subtotal,
	}
}

func (f *Formatter) price(d decimal.Decimal) string {
	return f.money.Format(valueobject.NewMoneyCOP(d))
}

func field(b *strings.Builder, label, value string) {
	b.WriteString(label + ": " + value + "\n")
}
