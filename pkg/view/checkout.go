package view

type PaymentChoice struct {
	Value    string
	Label    string
	Icon     string
	Selected bool
}

type CheckoutForm struct {
	Name          string
	Email         string
	Phone         string
	Address       string
	PaymentMethod string
	WalletAccount string
	BankName      string
	AccountNumber string

	Payments []PaymentChoice
	Banks    []string
	Errors   map[string]string
}

func (f CheckoutForm) Err(field string) string { return f.Errors[field] }

func (f CheckoutForm) Wallet() bool {
	return f.PaymentMethod == "easypaisa" || f.PaymentMethod == "jazzcash"
}

type SummaryLine struct {
	Title string
	Price string
}

type CheckoutSummary struct {
	Lines []SummaryLine
	Total string
}

type CheckoutPage struct {
	Layout  Layout
	Summary CheckoutSummary
	Form    CheckoutForm
}

type NotificationStatus struct {
	Number    string
	Status    string // pending | sent | failed | unknown
	Recipient string
}

func (n NotificationStatus) Final() bool { return n.Status != "pending" }

type ConfirmationPage struct {
	Layout        Layout
	Number        string
	PaymentMethod string // upper-cased
	Email         string
	Total         string
	Notification  NotificationStatus
}
