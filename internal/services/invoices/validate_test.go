package invoices

import (
	"errors"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Valid(t *testing.T) {
	res := Validate(CreateInvoiceSchema, Fields{
		"customerId": "abc",
		"amount":     "100.25",
		"status":     "paid",
	})

	require.True(t, res.Success)
	assert.Empty(t, res.FieldErrors)
	assert.Equal(t, "abc", res.Data.String("customerId"))
	assert.True(t, decimal.RequireFromString("100.25").Equal(res.Data.Decimal("amount")))
	assert.Equal(t, "paid", res.Data.String("status"))
	assert.Len(t, res.Data, 3, "only declared fields are returned")
}

func TestValidate_IgnoresUndeclaredFields(t *testing.T) {
	res := Validate(CreateInvoiceSchema, Fields{
		"id":         "forged",
		"date":       "1999-01-01",
		"customerId": "abc",
		"amount":     "1",
		"status":     "pending",
	})

	require.True(t, res.Success)
	assert.NotContains(t, res.Data, "id")
	assert.NotContains(t, res.Data, "date")
}

func TestValidate_FieldErrors(t *testing.T) {
	valid := Fields{"customerId": "abc", "amount": "10", "status": "paid"}
	with := func(name, value string) Fields {
		f := Fields{}
		for k, v := range valid {
			f[k] = v
		}
		f[name] = value
		return f
	}
	without := func(name string) Fields {
		f := with(name, "")
		delete(f, name)
		return f
	}

	tests := []struct {
		name  string
		raw   Fields
		field string
		msg   string
	}{
		{"missing customer", without("customerId"), "customerId", MsgSelectCustomer},
		{"empty customer", with("customerId", ""), "customerId", MsgSelectCustomer},
		{"negative amount", with("amount", "-5"), "amount", MsgAmountPositive},
		{"zero amount", with("amount", "0"), "amount", MsgAmountPositive},
		{"missing amount", without("amount"), "amount", MsgAmountPositive},
		{"blank amount", with("amount", "   "), "amount", MsgAmountPositive},
		{"non-numeric amount", with("amount", "ten"), "amount", MsgNotANumber},
		{"amount beyond int64 cents", with("amount", "1e17"), "amount", MsgAmountOutOfRange},
		{"amount rounding past int64 cents", with("amount", "92233720368547758.075"), "amount", MsgAmountOutOfRange},
		{"amount one cent too large", with("amount", "92233720368547758.08"), "amount", MsgAmountOutOfRange},
		{"huge exponent", with("amount", "1e2000000"), "amount", MsgAmountOutOfRange},
		{"tiny exponent", with("amount", "1e-2000000"), "amount", MsgAmountOutOfRange},
		{"empty status", with("status", ""), "status", MsgSelectStatus},
		{"missing status", without("status"), "status", MsgSelectStatus},
		{"unknown status", with("status", "overdue"), "status", "Invalid enum value. Expected 'pending' | 'paid', received 'overdue'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(CreateInvoiceSchema, tt.raw)

			require.False(t, res.Success)
			assert.Nil(t, res.Data)
			assert.Len(t, res.FieldErrors, 1, "only the offending field is reported")
			assert.Equal(t, []string{tt.msg}, res.FieldErrors[tt.field])
		})
	}
}

func TestValidate_AllFieldsInvalid(t *testing.T) {
	res := Validate(CreateInvoiceSchema, Fields{})

	require.False(t, res.Success)
	assert.Equal(t, map[string][]string{
		"customerId": {MsgSelectCustomer},
		"amount":     {MsgAmountPositive},
		"status":     {MsgSelectStatus},
	}, res.FieldErrors)
}

func TestMustValidate(t *testing.T) {
	payload, err := MustValidate(UpdateInvoiceSchema, Fields{"customerId": "c", "amount": "3", "status": "pending"})
	require.NoError(t, err)
	assert.Equal(t, "c", payload.String("customerId"))

	_, err = MustValidate(UpdateInvoiceSchema, Fields{"customerId": "c", "amount": "-1", "status": "pending"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{MsgAmountPositive}, verr.FieldErrors["amount"])
	assert.Equal(t, "invalid invoice form: amount: "+MsgAmountPositive, err.Error())
}

func TestSchema_Omit(t *testing.T) {
	names := func(s Schema) []string {
		var out []string
		for _, f := range s.Fields {
			out = append(out, f.Name)
		}
		return out
	}

	assert.Equal(t, []string{"id", "customerId", "amount", "status", "date"}, names(FormSchema))
	assert.Equal(t, []string{"customerId", "amount", "status"}, names(CreateInvoiceSchema))
	assert.Equal(t, names(CreateInvoiceSchema), names(UpdateInvoiceSchema))
	assert.Equal(t, []string{"id", "customerId", "amount", "status", "date", "customerName"}, names(FormSchemaWithCustomer))
}

func TestValidate_FullRecordSchema(t *testing.T) {
	res := Validate(FormSchema, Fields{"customerId": "c", "amount": "1", "status": "paid"})

	require.False(t, res.Success)
	assert.Equal(t, []string{"Required"}, res.FieldErrors["id"])
	assert.Equal(t, []string{"Required"}, res.FieldErrors["date"])
}

func TestFieldsFromForm(t *testing.T) {
	form := url.Values{
		"customerId": {"abc", "ignored"},
		"amount":     {""},
		"empty":      {},
	}

	fields := FieldsFromForm(form)

	assert.Equal(t, Fields{"customerId": "abc", "amount": ""}, fields)
}
