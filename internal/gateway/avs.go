package gateway

// AddressVerification is the outcome of evaluating AVS check results on a
// payment method.
type AddressVerification struct {
	Verified bool   `json:"verified"`
	Level    string `json:"level"`
	Detail   string `json:"detail,omitempty"`
}

const (
	avsPass        = "pass"
	avsFail        = "fail"
	avsUnavailable = "unavailable"
	avsUnchecked   = "unchecked"
)

// EvaluateAddressChecks maps the card network's line1/postal-code check
// results to a single verification decision. Rules are ordered; the first
// match wins.
func EvaluateAddressChecks(checks *CardChecks) AddressVerification {
	if checks == nil {
		return AddressVerification{Verified: true, Level: "lenient", Detail: "no address checks returned"}
	}
	line1, postal := checks.AddressLine1Check, checks.AddressPostalCodeCheck

	switch {
	case line1 == avsPass && postal == avsPass:
		return AddressVerification{Verified: true, Level: "full"}
	case line1 == avsUnavailable && postal == avsUnavailable:
		return AddressVerification{Verified: true, Level: "international", Detail: "avs not supported by issuer"}
	case line1 == avsUnchecked || postal == avsUnchecked:
		return AddressVerification{Verified: true, Level: "unchecked", Detail: "issuer did not run avs"}
	case line1 == avsPass || postal == avsPass:
		return AddressVerification{Verified: true, Level: "partial", Detail: "flagged for review"}
	case line1 == avsFail && postal == avsFail:
		return AddressVerification{Verified: false, Level: "failed", Detail: "address and postal code mismatch"}
	default:
		return AddressVerification{Verified: true, Level: "lenient"}
	}
}
