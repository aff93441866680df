package jingo

// Version is the compiled front-end version, printed by the CLI and the
// REPL banner.
const Version = "0.2.0"
