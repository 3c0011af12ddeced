package checkout

// CreateSessionRequest starts a payment session for a single product.
type CreateSessionRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
}

// CreateSessionResponse carries the provider-hosted payment URL.
type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}
