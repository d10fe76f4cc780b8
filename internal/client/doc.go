// Package client is a Go SDK for campus-gateway's public HTTP API.
//
// Every method maps to one gateway route and takes a context:
//
//	c := client.New("http://localhost:8080", nil)
//	if err := c.Login(ctx, client.AuthRequest{UsernameOrEmail: "ana", Password: "pw"}); err != nil {
//	    var apiErr *client.APIError
//	    if errors.As(err, &apiErr) {
//	        fmt.Println(apiErr.Detail) // "Error Auth"
//	    }
//	}
//
// Non-2xx answers come back as *APIError carrying the status and the
// gateway's detail text. Transport failures are returned wrapped.
//
// Channel lists are lenient: a 2xx body that is not a JSON array yields an
// empty slice, and array elements that are not channel objects are skipped.
package client
