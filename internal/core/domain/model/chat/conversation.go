package chat

import (
	"strings"

	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/pkg/errs"
	"foodfast/internal/pkg/guard"
)

// ErrConversationKeyIsNotConstructed is returned when attempting to use an
// improperly initialized ConversationKey.
var ErrConversationKeyIsNotConstructed = errs.NewValueIsRequiredError(
	"conversation key must be created via NewDirectConversation, NewSupportConversation, or ConversationKeyFromString")

// ConversationKey identifies a chat channel and doubles as its bus topic.
//
// Two forms exist:
//   - direct: derived from the unordered pair of participant ids, so both
//     participants compute the same key regardless of who opens the chat
//   - support: scoped to an order, used for customer/support-agent threads
//
// ConversationKey is an immutable value object; the zero value is invalid.
type ConversationKey struct { //nolint:recvcheck //using for validation
	key   string
	guard guard.ConstructorGuard
}

// NewDirectConversation derives the key for a one-to-one conversation.
// The participant order does not matter: the smaller UUID string goes first.
func NewDirectConversation(a, b kernel.UUID) (ConversationKey, error) {
	if err := a.Validate(); err != nil {
		return ConversationKey{}, err
	}
	if err := b.Validate(); err != nil {
		return ConversationKey{}, err
	}

	first, second := a.String(), b.String()
	if first > second {
		first, second = second, first
	}

	return ConversationKey{
		key:   "chat:" + first + ":" + second,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// NewSupportConversation derives the key for an order-scoped support thread.
func NewSupportConversation(orderID kernel.UUID) (ConversationKey, error) {
	if err := orderID.Validate(); err != nil {
		return ConversationKey{}, err
	}

	return ConversationKey{
		key:   "support:" + orderID.String(),
		guard: guard.NewConstructorGuard(),
	}, nil
}

// ConversationKeyFromString restores a key from its persisted representation.
func ConversationKeyFromString(s string) (ConversationKey, error) {
	if !strings.HasPrefix(s, "chat:") && !strings.HasPrefix(s, "support:") {
		return ConversationKey{}, errs.NewValueIsInvalidError("conversation key")
	}

	return ConversationKey{
		key:   s,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate checks if the key was properly constructed.
func (k ConversationKey) Validate() error {
	return k.guard.Validate(ErrConversationKeyIsNotConstructed)
}

// String returns the persisted/topic representation of the key.
func (k ConversationKey) String() string {
	return k.key
}

// IsEqual compares two conversation keys.
func (k ConversationKey) IsEqual(other ConversationKey) bool {
	return k.key == other.key
}
