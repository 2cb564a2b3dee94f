package ports

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderDocument datos ya resueltos para imprimir una orden de compra.
type PurchaseOrderDocument struct {
	OrderNumber   string
	Status        string
	CreatedAt     time.Time
	CreatedBy     string
	SupplierName  string
	SupplierEmail string
	SupplierPhone string
	WarehouseCode string
	WarehouseName string
	Lines         []PurchaseOrderDocumentLine
	Total         decimal.Decimal
}

// PurchaseOrderDocumentLine línea imprimible de la orden.
type PurchaseOrderDocumentLine struct {
	SKU       string
	Name      string
	Quantity  int64
	Received  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// PurchaseOrderPDFGenerator genera el PDF de una orden de compra.
type PurchaseOrderPDFGenerator interface {
	Generate(doc PurchaseOrderDocument) ([]byte, error)
}

// LabelSymbology forma de codificar el SKU en la etiqueta.
type LabelSymbology string

const (
	SymbologyBarcode LabelSymbology = "barcode" // Code128
	SymbologyQR      LabelSymbology = "qr"
)

// ProductLabel datos de la etiqueta de un producto.
type ProductLabel struct {
	SKU       string
	Name      string
	Symbology LabelSymbology
}

// ProductLabelGenerator genera la etiqueta imprimible (PDF) con el SKU codificado.
type ProductLabelGenerator interface {
	Label(label ProductLabel) ([]byte, error)
}
