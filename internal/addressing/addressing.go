// Package addressing derives the fixed-width state addresses used by the
// marketplace transaction family. Every entity identifier maps to a
// 70-hex-character (35-byte) address, and the one-byte infix at position 3
// encodes the entity kind. The mapping is a network-wide contract: any two
// implementations must derive byte-identical addresses for the same
// identifiers, because the execution engine uses declared address sets as
// its only concurrency-control primitive.
package addressing

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
)

// FamilyName is the transaction family this codec addresses.
const FamilyName = "noay_marketplace"

// AddressLength is the length of every marketplace address in hex characters.
const AddressLength = 70

// Namespace is the 6-hex-character prefix shared by all marketplace
// addresses: the first 3 bytes of the SHA-512 digest of FamilyName. The
// literal is pinned against the digest by a test.
const Namespace = "cfbfd0"

// Space identifies the kind of entity stored at an address.
type Space int

const (
	// SpaceOfferHistory addresses hold exchange receipts for offers.
	SpaceOfferHistory Space = iota
	// SpaceResource addresses hold named resource definitions.
	SpaceResource
	// SpaceAsset addresses hold quantity-bearing asset records.
	SpaceAsset
	// SpaceAccount addresses hold account records keyed by public key.
	SpaceAccount
	// SpaceOffer addresses hold standing exchange offers.
	SpaceOffer
	// SpaceTransfer addresses hold staged bilateral transfer intents.
	SpaceTransfer
	// SpaceOtherFamily marks an address that does not belong to this
	// family, either by namespace or by infix.
	SpaceOtherFamily
)

// String returns the lowercase name of the space.
func (s Space) String() string {
	switch s {
	case SpaceOfferHistory:
		return "offer_history"
	case SpaceResource:
		return "resource"
	case SpaceAsset:
		return "asset"
	case SpaceAccount:
		return "account"
	case SpaceOffer:
		return "offer"
	case SpaceTransfer:
		return "transfer"
	case SpaceOtherFamily:
		return "other_family"
	default:
		return fmt.Sprintf("space(%d)", int(s))
	}
}

// span is a half-open range [start, stop) of infix byte values. The spans
// below partition 0..255 disjointly and exhaustively; classification depends
// on that partition staying non-overlapping and total.
type span struct {
	start, stop int
}

func (sp span) contains(n int) bool {
	return sp.start <= n && n < sp.stop
}

var (
	offerHistorySpan = span{0, 1}
	resourceSpan     = span{1, 50}
	assetSpan        = span{50, 100}
	accountSpan      = span{100, 150}
	offerSpan        = span{150, 200}
	transferSpan     = span{200, 256}
)

// hashID returns the full lowercase hex SHA-512 digest of an identifier.
func hashID(identifier string) string {
	sum := sha512.Sum512([]byte(identifier))
	return hex.EncodeToString(sum[:])
}

// compress folds a hex digest into a single byte within [start, stop): the
// digest is read as a big integer, reduced modulo the span width and offset
// by start, then formatted as exactly two lowercase hex characters. The
// result is a uniform bucket value used as the address's kind infix.
func compress(digest string, start, stop int) string {
	n := new(big.Int)
	n.SetString(digest, 16)
	n.Mod(n, big.NewInt(int64(stop-start)))
	return fmt.Sprintf("%02x", n.Int64()+int64(start))
}

// ResourceAddress returns the address of the Resource with the given name.
func ResourceAddress(name string) string {
	digest := hashID(name)
	return Namespace + compress(digest, resourceSpan.start, resourceSpan.stop) + digest[:62]
}

// AssetAddress returns the address of the Asset with the given id.
func AssetAddress(assetID string) string {
	digest := hashID(assetID)
	return Namespace + compress(digest, assetSpan.start, assetSpan.stop) + digest[:62]
}

// AccountAddress returns the address of the Account owned by the given
// public key.
func AccountAddress(publicKey string) string {
	digest := hashID(publicKey)
	return Namespace + compress(digest, accountSpan.start, accountSpan.stop) + digest[:62]
}

// OfferAddress returns the address of the Offer with the given id.
func OfferAddress(offerID string) string {
	digest := hashID(offerID)
	return Namespace + compress(digest, offerSpan.start, offerSpan.stop) + digest[:62]
}

// OfferReceiptAddress returns the address of the global "already exchanged
// once" receipt for an offer. The trailing byte is fixed to zero, which
// keeps it disjoint from every per-account receipt address for the same
// offer.
func OfferReceiptAddress(offerID string) string {
	return Namespace + "00" + hashID(offerID)[:60] + "00"
}

// OfferAccountReceiptAddress returns the address of the per-account receipt
// recording that the given account has already exchanged against the offer.
// The trailing byte ranges over [1, 256), so it never collides with the
// global receipt address.
func OfferAccountReceiptAddress(offerID, account string) string {
	return Namespace + "00" + hashID(offerID)[:60] + compress(hashID(account), 1, 256)
}

// TransferAddress returns the address of the staged Transfer intent keyed by
// (transfer id, initiating account).
func TransferAddress(transferID, account string) string {
	digest := hashID(transferID)
	return Namespace + compress(digest, transferSpan.start, transferSpan.stop) +
		digest[:60] + compress(hashID(account), 1, 256)
}

// Classify maps an address back to the kind of entity stored there. An
// address outside this family's namespace, or whose infix falls in no known
// span, classifies as SpaceOtherFamily. The latter should be unreachable
// given the spans cover 0..255, but defends against addresses from
// unrelated systems sharing the same store.
func Classify(address string) Space {
	if len(address) < 8 || address[:6] != Namespace {
		return SpaceOtherFamily
	}

	parsed, err := strconv.ParseUint(address[6:8], 16, 8)
	if err != nil {
		return SpaceOtherFamily
	}
	infix := int(parsed)

	switch {
	case offerHistorySpan.contains(infix):
		return SpaceOfferHistory
	case resourceSpan.contains(infix):
		return SpaceResource
	case assetSpan.contains(infix):
		return SpaceAsset
	case accountSpan.contains(infix):
		return SpaceAccount
	case offerSpan.contains(infix):
		return SpaceOffer
	case transferSpan.contains(infix):
		return SpaceTransfer
	default:
		return SpaceOtherFamily
	}
}
