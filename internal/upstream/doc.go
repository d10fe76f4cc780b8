// Package upstream holds the HTTP clients for the external services the
// gateway fronts: the users service (login, register) and the channels
// service (channel CRUD and membership listings).
//
// Clients return a *Response for every answer the upstream produced, whatever
// its status; mapping statuses onto gateway responses is the caller's job.
// A non-nil error means the request never produced a response (dial failure,
// timeout, cancelled context). The list helpers are the exception: they
// return a *StatusError for non-200 answers and a decode error for bodies
// that are not JSON arrays.
package upstream
