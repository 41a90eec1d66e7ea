package test

import "net/http"

// RoundTripFunc adapts a function to an [http.RoundTripper].
//
// The function should validate the incoming request is what's expected.
type RoundTripFunc func(req *http.Request) (*http.Response, error)

// RoundTrip implements [http.RoundTripper].
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// NewRoundTripper creates an [http.RoundTripper] with the provided
// RoundTripFunc.
func NewRoundTripper(fn RoundTripFunc) http.RoundTripper {
	return fn
}
