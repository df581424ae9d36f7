package contribution

type CheckoutInput struct {
	CampaignID  string
	AmountCents int64
	Currency    string
	SuccessURL  string
	CancelURL   string
}

// CheckoutDTO is the handle a lender follows to pay a pledge.
type CheckoutDTO struct {
	Provider       string `json:"provider"`
	SessionID      string `json:"sessionId"`
	CheckoutURL    string `json:"checkoutUrl"`
	ContributionID string `json:"contributionId"`
}
