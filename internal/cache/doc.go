// Package cache provides a thread-safe, TTL-based, size-limited key/value
// cache. The chatbot uses it to avoid a database round trip for repeated
// questions.
package cache
