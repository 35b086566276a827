package domain

import "errors"

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthenticated
	KindForbidden
)

// Error is a business failure that carries the class it maps to at the
// transport boundary. Anything that is not an *Error is treated as internal.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewValidationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func NewConflictError(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

// KindOf reports the class of err, looking through wrapped errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message for a business error.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal server error"
}

var (
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Message: "authentication required"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthenticated, Message: "invalid email or password"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "user not found"}
	ErrEmailTaken         = &Error{Kind: KindConflict, Message: "email already registered"}
	ErrInvalidRole        = &Error{Kind: KindValidation, Message: "invalid role"}

	ErrProductNotFound        = &Error{Kind: KindNotFound, Message: "product not found"}
	ErrCategoryNotFound       = &Error{Kind: KindNotFound, Message: "category not found"}
	ErrParentCategoryNotFound = &Error{Kind: KindValidation, Message: "parent category not found"}
	ErrCategoryCycle          = &Error{Kind: KindValidation, Message: "category cannot be its own ancestor"}
	ErrCategoryInUse          = &Error{Kind: KindValidation, Message: "category still has subcategories or products"}
	ErrSlugTaken              = &Error{Kind: KindConflict, Message: "slug already exists"}

	ErrCartItemNotFound  = &Error{Kind: KindNotFound, Message: "cart item not found"}
	ErrInsufficientStock = &Error{Kind: KindValidation, Message: "insufficient stock"}
	ErrInvalidQuantity   = &Error{Kind: KindValidation, Message: "quantity must be at least 1"}
	ErrCartEmpty         = &Error{Kind: KindValidation, Message: "cart is empty"}

	ErrOrderNotFound           = &Error{Kind: KindNotFound, Message: "order not found"}
	ErrInvalidStatus           = &Error{Kind: KindValidation, Message: "invalid order status"}
	ErrInvalidStatusTransition = &Error{Kind: KindValidation, Message: "order status transition not allowed"}
	ErrInvalidPaymentStatus    = &Error{Kind: KindValidation, Message: "invalid payment status"}

	ErrCouponNotFound      = &Error{Kind: KindNotFound, Message: "coupon not found"}
	ErrCouponInactive      = &Error{Kind: KindValidation, Message: "coupon is not active"}
	ErrCouponNotStarted    = &Error{Kind: KindValidation, Message: "coupon is not yet valid"}
	ErrCouponExpired       = &Error{Kind: KindValidation, Message: "coupon has expired"}
	ErrCouponQuotaExceeded = &Error{Kind: KindValidation, Message: "coupon usage limit reached"}
	ErrCouponMinPurchase   = &Error{Kind: KindValidation, Message: "cart total is below the coupon minimum purchase"}
	ErrCouponCodeTaken     = &Error{Kind: KindConflict, Message: "coupon code already exists"}

	ErrReviewNotFound = &Error{Kind: KindNotFound, Message: "review not found"}
	ErrReviewExists   = &Error{Kind: KindConflict, Message: "you have already reviewed this product"}
	ErrInvalidRating  = &Error{Kind: KindValidation, Message: "rating must be between 1 and 5"}

	ErrAlreadySubscribed    = &Error{Kind: KindConflict, Message: "email is already subscribed"}
	ErrSubscriptionNotFound = &Error{Kind: KindNotFound, Message: "subscription not found"}

	ErrProductInStock       = &Error{Kind: KindValidation, Message: "product is in stock"}
	ErrNotificationExists   = &Error{Kind: KindConflict, Message: "stock notification already requested"}
	ErrNotificationNotFound = &Error{Kind: KindNotFound, Message: "stock notification not found"}

	ErrNoFile              = &Error{Kind: KindValidation, Message: "no file uploaded"}
	ErrUnsupportedFileType = &Error{Kind: KindValidation, Message: "unsupported file type"}
	ErrFileTooLarge        = &Error{Kind: KindValidation, Message: "file is too large"}
)
