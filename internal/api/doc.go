// Package api is the HTTP client for the vocabulary server. The server owns
// flashcards, topics and wallet entries; this package only transports
// requests and classifies failures into network and server errors. Every
// request runs through a circuit breaker so a dead server fails fast.
package api
