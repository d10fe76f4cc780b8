// Package chatbot answers the chat widget's messages.
//
// # Evaluation Order
//
// Bot.Answer lower-cases the incoming text and tries, in order:
//
//  1. keyword rules ("hola" greets, "fecha" gives the exam date)
//  2. an exact knowledge-base entry for the normalised text
//  3. the closest knowledge-base question by Levenshtein distance, when it is
//     within MaxDistance (0 disables this step)
//  4. the fallback reply
//
// Knowledge-base results, including misses, are memoised in a TTL cache.
// Writes made through the Bot purge the cache so admins see their changes
// immediately.
package chatbot
