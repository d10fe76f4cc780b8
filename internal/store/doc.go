// Package store provides persistent storage for the chatbot knowledge base
// using SQLite.
//
// # Data Model
//
// An Answer maps a normalised question (lower-cased, trimmed) to a canned
// reply. The question is the primary key, so PutAnswer is an upsert.
//
// # Implementations
//
//   - SQLiteStore: modernc.org/sqlite (pure Go, no cgo), WAL mode, schema
//     created on open. ":memory:" is supported for tests and throwaway runs.
//   - MockStore: in-memory, counts lookups so callers can observe caching.
//
// # Usage
//
//	s, err := store.NewSQLiteStore("/var/lib/campus/answers.db")
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	err = s.PutAnswer(ctx, &store.Answer{Question: "horario", Answer: "Lunes 10:00"})
package store
