package internal

// Version is the current flashdeck release.
const Version = "0.3.0"
