// Package audio owns the pronunciation pipeline: a directory-backed clip
// cache, fetchers that retrieve clips from the server (or OpenAI as a
// fallback), an external-process player, and the coordinator that ties them
// together with at most one fetch in flight per flashcard.
package audio
