package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")

	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrInvalidPercentage = errors.New("invalid percentage")
	ErrDuplicateURI      = errors.New("duplicate uri")
	ErrNotListed         = errors.New("not listed")
	ErrMissingPayment    = errors.New("missing payment")
	ErrWrongPayment      = errors.New("wrong payment")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// request error
	ErrInvalidAddress   = errors.New("Invalid address")
	ErrInvalidSignature = errors.New("Invalid signature")
	ErrInvalidAmount    = errors.New("Invalid amount")
)

// Error is a rejected call: the kind it matches with errors.Is and the reason reported to the caller.
type Error struct {
	Kind   error
	Reason string
}

func (e *Error) Error() string {
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Reason builds an error of the given kind carrying a human readable reason.
func Reason(kind error, reason string) error {
	return &Error{Kind: kind, Reason: reason}
}

// Kind returns the sentinel kind of err, or nil if err is not one of the domain kinds.
func Kind(err error) error {
	for _, k := range []error{
		ErrUnauthorized,
		ErrNotFound,
		ErrInvalidArgument,
		ErrInvalidPrice,
		ErrInvalidPercentage,
		ErrDuplicateURI,
		ErrNotListed,
		ErrMissingPayment,
		ErrWrongPayment,
		ErrInsufficientFunds,
		ErrBadParamInput,
		ErrInvalidAddress,
		ErrInvalidSignature,
		ErrInvalidAmount,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// reason strings shared by the components
const (
	ReasonOnlyOwner              = "Only the Marketplace owner is allowed to perform this action"
	ReasonOnlyOwnerOrRegistry    = "Only the Marketplace owner or its registry is allowed to perform this action"
	ReasonOnlyRegistry           = "Only the registry is allowed to perform this action"
	ReasonOnlyCreator            = "Only collection creator can mint NFT"
	ReasonDuplicateURI           = "The NFT uri already used in this collection"
	ReasonZeroPrice              = "The sale price must be greater than 0"
	ReasonMissingListingFees     = "listing fees are missing"
	ReasonNftNotFound            = "NFT does not exist"
	ReasonOnlyNftOwner           = "Only NFT owner can put it in sale"
	ReasonNotInSale              = "The NFT is not in sale"
	ReasonOnlySeller             = "Only NFT seller can cancel the in sale"
	ReasonWrongPrice             = "To complete the purchase please provide the correct price"
	ReasonRoyaltiesTooHigh       = "Royalties percentage cannot be greater than 100%"
	ReasonRoyaltiesSumTooHigh    = "Sum of all royalties cannot be greater than 100%"
	ReasonEmptyCollectionName    = "The collection name should not be an empty string"
	ReasonEmptyNftUri            = "The NFT uri should not be empty"
	ReasonCollectionNotFound     = "Collection does not exist"
	ReasonInsufficientFunds      = "Not enough funds to cover the payment"
	ReasonRegistryNotBound       = "The registry is not bound to this marketplace configuration"
	ReasonCollectionAlreadyExist = "Collection already exists"
	ReasonEmptyCurator           = "The curator address should not be empty"
	ReasonEmptyRegistry          = "The registry address should not be empty"
	ReasonEmptyOwner             = "The marketplace owner address should not be empty"
	ReasonAlreadyInSale          = "The NFT is already in sale"
)
