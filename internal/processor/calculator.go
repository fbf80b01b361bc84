package processor

import (
	"math/bits"

	"github.com/noay-network/marketplace-processor/internal/domain"
)

// exchangeQuantities converts an offer's declared exchange rate and an
// acceptance count into the concrete quantities moved. The input quantity
// is credited to the receiver's target asset and debited from the offerer's
// source asset; the output quantity is debited from the receiver's source
// asset and credited to the offerer's target asset. Both are exact
// multiples of the rate fixed at offer creation, so no rounding is ever
// involved. A count whose product exceeds uint64 is rejected: a wrapped
// product would move less than the fixed rate demands.
func exchangeQuantities(offer domain.Offer, count uint64) (input, output uint64, err error) {
	hi, input := bits.Mul64(offer.SourceQuantity, count)
	if hi != 0 {
		return 0, 0, invalidf("failed to accept Offer, count %d overflows the source quantity %d",
			count, offer.SourceQuantity)
	}
	hi, output = bits.Mul64(offer.TargetQuantity, count)
	if hi != 0 {
		return 0, 0, invalidf("failed to accept Offer, count %d overflows the target quantity %d",
			count, offer.TargetQuantity)
	}
	return input, output, nil
}
