// Package tui is the Campus G9 terminal client.
//
// The client is a bubbletea program. Model holds the whole UI state
// (LOGIN, REGISTER and DASHBOARD views, the CHATBOT and CHANNEL_DETAILS
// tabs, channel lists, the chat transcript) and is updated only by the
// bubbletea loop. Every network call runs as a tea.Cmd against an API,
// which *client.Client satisfies; the result comes back as a message.
//
// Writes to channels are never applied locally. After a create or delete
// both channel lists are fetched again once the refresh delay has passed.
package tui
