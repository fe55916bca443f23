// Package wallet tracks a user's study progress over flashcards.
//
// The server owns every wallet entry. StatusMachine keeps a transient local
// view of the entries it has seen, validates transitions against it, and
// updates it only after the server has acknowledged a mutation. Concurrent
// mutations from other devices are resolved by the server: the last write
// wins and a later Hydrate picks it up.
package wallet
