// Package models defines the flashcard and wallet types shared by the
// flashdeck packages. Flashcard content is owned by the server; the client
// only reads it.
package models
