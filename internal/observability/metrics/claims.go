package metrics

// ClaimSign records the outcome of a claim signing request.
func ClaimSign(status string) {
	if !enabled {
		return
	}
	claimSignTotal.WithLabelValues(status).Inc()
}

// PurchaseVerification records an on-chain purchase verification attempt.
func PurchaseVerification(result string) {
	if !enabled {
		return
	}
	purchaseVerificationTotal.WithLabelValues(result).Inc()
}

// SignatureCandidates records how many candidates a request produced.
func SignatureCandidates(count int) {
	if !enabled {
		return
	}
	signatureCandidates.Observe(float64(count))
}
