// Package finesdk is the wire contract and Go client of the traffic fines API.
//
// The same types are used by the server to encode responses and by clients
// to decode them, so the JSON shapes live in exactly one place.
//
// Public operations hang off Client:
//
//	c := finesdk.NewClient("http://localhost:8080")
//	fines, err := c.SearchFines(ctx, finesdk.SearchParams{IDNumber: "8001015009087"})
//
// Signing in returns a Session for the account operations:
//
//	sess, _, err := c.Login(ctx, "john.smith@example.com", "password123")
//	mine, err := sess.MyFines(ctx)
//
// Every non-2xx response is returned as an *APIError and can be compared with
// errors.Is against the predefined values such as ErrNotFound.
package finesdk
