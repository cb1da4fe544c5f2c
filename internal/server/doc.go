// Package server exposes the tracker over HTTP.
//
// Every response uses the same JSON envelope: a success flag plus the
// payload, or a success flag plus an error message. Domain errors map to
// status codes at one choke point: validation failures are 400, unknown
// contacts 404, a busy store 503 with a Retry-After header. A write that
// reached the store but not the CSV mirror still returns 200, with a
// warning field, because the source of truth accepted it.
//
// The /webhook pair implements the Meta subscription handshake and the
// notification receiver that turns button presses and yes/no texts into
// recorded responses.
package server
