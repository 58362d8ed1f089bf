package service

import (
	"errors"
	"fmt"
)

// Kind エラーの種類 (HTTPステータスへの対応はハンドラー側)
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	// KindInternal メッセージはそのまま返してよいが原因は隠す
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInternal:
		return "internal"
	}
	return "unknown"
}

// Error 利用者に見せてよいメッセージを持つエラー
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is 同じKindとMessageなら一致とみなす
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func newError(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func Validation(msg string) *Error { return newError(KindValidation, msg) }
func Unauthorized(msg string) *Error { return newError(KindUnauthorized, msg) }
func Forbidden(msg string) *Error { return newError(KindForbidden, msg) }
func NotFound(msg string) *Error { return newError(KindNotFound, msg) }
func Conflict(msg string) *Error { return newError(KindConflict, msg) }

func internal(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: msg, cause: cause}
}

// KindOf サービスエラーでなければ 0
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

var (
	ErrEmailTaken         = Conflict("E-Mail wird bereits verwendet")
	ErrInvalidCredentials = Unauthorized("E-Mail oder Passwort ist falsch")
	ErrNotAuthorized      = Forbidden("Nicht autorisiert")

	ErrUserNotFound     = NotFound("Benutzer nicht gefunden")
	ErrListingNotFound  = NotFound("Anzeige nicht gefunden")
	ErrOfferNotFound    = NotFound("Angebot nicht gefunden")
	ErrTicketNotFound   = NotFound("Ticket nicht gefunden")
	ErrFavoriteNotFound = NotFound("Favorit nicht gefunden")

	ErrOfferResolved    = Conflict("Angebot wurde bereits bearbeitet")
	ErrOfferNotAccepted = Conflict("Angebot wurde nicht angenommen")
	ErrDuplicateReview  = Conflict("Sie haben diesen Benutzer bereits bewertet")
	ErrAlreadyFavorited = Conflict("Bereits zu Favoriten hinzugefügt")
)

const (
	msgDescriptionFailed = "Fehler beim Generieren der Beschreibung"
	msgPriceFailed       = "Fehler beim Vorschlagen des Preises"
	msgPaymentFailed     = "Zahlung konnte nicht erstellt werden"
	msgPaymentDisabled   = "Zahlungen sind nicht verfügbar"
)
