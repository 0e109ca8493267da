package smb2

// creditsNeeded computes how many credits a payload of the given size
// requires: a single credit buys singleCreditPayloadSize bytes of
// payload, and any leftover bytes still need a whole extra credit.
func creditsNeeded(maxPayloadSize int) uint16 {
	return uint16((maxPayloadSize-1)/singleCreditPayloadSize) + 1
}

// grantCredits computes the assigned-credits (CreditCharge) value for an
// outgoing packet. available is the window's credit balance before this
// send; largeMTU reports whether the server advertised
// SMB2_GLOBAL_CAP_LARGE_MTU during negotiation.
func grantCredits(needed uint16, available uint64, largeMTU bool) uint16 {
	switch {
	case needed > 1 && !largeMTU:
		return 1
	case uint64(needed) < available:
		return needed
	case needed > 1 && available > 1:
		return uint16(available - 1)
	default:
		return 1
	}
}

// creditRequest computes the CreditRequest field: replenish the window
// toward preferredMinimumCredits while asking for at least `granted` new
// credits.
func creditRequest(available uint64, granted uint16) uint16 {
	want := int64(preferredMinimumCredits) - int64(available) - int64(granted)
	if want < int64(granted) {
		want = int64(granted)
	}
	return uint16(want)
}
