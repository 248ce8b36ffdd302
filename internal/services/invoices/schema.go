package invoices

import "slices"

const (
	MsgSelectCustomer   = "Please select customer"
	MsgAmountPositive   = "Please enter an amount greater than $0"
	MsgSelectStatus     = "Please select status"
	MsgNotANumber       = "Expected number, received nan"
	MsgAmountOutOfRange = "Number must be less than or equal to 92233720368547758.07"
)

// Kind is how a raw form value is coerced before its rules run.
type Kind int

const (
	KindString Kind = iota
	KindNumber
)

// Field declares one schema field. Rules is a go-playground/validator tag
// evaluated against the coerced value; Messages overrides the reported text
// per failing rule tag.
type Field struct {
	Name     string
	Kind     Kind
	Rules    string
	Messages map[string]string
}

type Schema struct {
	Fields []Field
}

// Omit returns a copy of s without the named fields.
func (s Schema) Omit(names ...string) Schema {
	out := Schema{}
	for _, f := range s.Fields {
		if !slices.Contains(names, f.Name) {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}

// Extend returns a copy of s with extra fields appended.
func (s Schema) Extend(fields ...Field) Schema {
	return Schema{Fields: append(slices.Clone(s.Fields), fields...)}
}

// An empty customerId or status fails "required" and reports the select
// message, so a blank picker reads the same as one never submitted. Empty
// strings are not passed on to the enum check.
var customerIDField = Field{
	Name:     "customerId",
	Kind:     KindString,
	Rules:    "required",
	Messages: map[string]string{"required": MsgSelectCustomer},
}

// FormSchema describes a fully formed invoice record.
var FormSchema = Schema{Fields: []Field{
	{Name: "id", Kind: KindString, Rules: "required"},
	customerIDField,
	{
		Name:     "amount",
		Kind:     KindNumber,
		Rules:    "gt=0",
		Messages: map[string]string{"gt": MsgAmountPositive},
	},
	{
		Name:     "status",
		Kind:     KindString,
		Rules:    "required,oneof=pending paid",
		Messages: map[string]string{"required": MsgSelectStatus},
	},
	{Name: "date", Kind: KindString, Rules: "required"},
}}

// FormSchemaWithCustomer additionally carries the denormalized customer name.
// No action validates against it.
var FormSchemaWithCustomer = FormSchema.Extend(Field{
	Name:     "customerName",
	Kind:     KindString,
	Rules:    "required",
	Messages: map[string]string{"required": MsgSelectCustomer},
})

// id and date are derived server-side, never taken from the form.
var (
	CreateInvoiceSchema = FormSchema.Omit("id", "date")
	UpdateInvoiceSchema = FormSchema.Omit("id", "date")
)
