package checkout

import (
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

type PaymentMethod string

const (
	Easypaisa      PaymentMethod = "easypaisa"
	JazzCash       PaymentMethod = "jazzcash"
	BankTransfer   PaymentMethod = "bank"
	CashOnDelivery PaymentMethod = "cod"
)

type PaymentOption struct {
	Method PaymentMethod
	Label  string
	Icon   string
}

var PaymentOptions = []PaymentOption{
	{Easypaisa, "Easypaisa", "📱"},
	{JazzCash, "JazzCash", "📱"},
	{BankTransfer, "Bank Transfer", "🏦"},
	{CashOnDelivery, "Cash on Delivery", "💵"},
}

// Banks accepted for bank transfer.
var Banks = []string{"HBL", "UBL", "MCB", "ABL", "NBP", "JS Bank", "Meezan"}

func (m PaymentMethod) Wallet() bool { return m == Easypaisa || m == JazzCash }

func (m PaymentMethod) Label() string {
	for _, o := range PaymentOptions {
		if o.Method == m {
			return o.Label
		}
	}
	return string(m)
}

// Input is the checkout form.
type Input struct {
	Name          string `form:"name" validate:"required,max=120"`
	Email         string `form:"email" validate:"required,email,max=254"`
	Phone         string `form:"phone" validate:"required,max=32"`
	Address       string `form:"address" validate:"required,max=300"`
	PaymentMethod string `form:"payment_method"`

	WalletAccount string `form:"wallet_account" validate:"max=32"`
	BankName      string `form:"bank_name"`
	AccountNumber string `form:"account_number" validate:"max=34"`
}

// Normalize trims every field.
func (in *Input) Normalize() {
	for _, f := range []*string{&in.Name, &in.Email, &in.Phone, &in.Address, &in.PaymentMethod, &in.WalletAccount, &in.BankName, &in.AccountNumber} {
		*f = strings.TrimSpace(*f)
	}
	in.PaymentMethod = strings.ToLower(in.PaymentMethod)
}

func (in Input) Method() PaymentMethod { return PaymentMethod(in.PaymentMethod) }

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(paymentRules, Input{})
	return v
}

// paymentRules checks the method and the sub-fields the method needs.
func paymentRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(Input)

	m := in.Method()
	if !slices.ContainsFunc(PaymentOptions, func(o PaymentOption) bool { return o.Method == m }) {
		sl.ReportError(in.PaymentMethod, "payment_method", "PaymentMethod", "payment_method", "")
		return
	}

	switch {
	case m.Wallet():
		if in.WalletAccount == "" {
			sl.ReportError(in.WalletAccount, "wallet_account", "WalletAccount", "required", "")
		}
	case m == BankTransfer:
		if !slices.Contains(Banks, in.BankName) {
			sl.ReportError(in.BankName, "bank_name", "BankName", "bank", "")
		}
		if in.AccountNumber == "" {
			sl.ReportError(in.AccountNumber, "account_number", "AccountNumber", "required", "")
		}
	}
}
