// Package chat provides domain entities for the support and direct messaging
// channels: the Message entity with its delivery-acknowledgement flag and the
// ConversationKey value object that scopes messages and bus topics.
package chat
