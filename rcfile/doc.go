// Package rcfile parses bazelrc-style configuration files while keeping the
// byte span of every decoded value.
//
// # Overview
//
// An rc file holds one directive per line:
//
//	build:opt --copt=-O2 //some:target  # comment
//	^^^^^ ^^^ ^^^^^^ ^^^ ^^^^^^^^^^^^^  ^^^^^^^^^
//	cmd   cfg  name  val  positional     comment
//
// Words may mix bare, single-quoted and double-quoted fragments, and any
// character may be escaped with a backslash. A backslash before a line
// terminator joins two physical lines. Decoding changes lengths and offsets,
// so every value is reported together with the exact span of source text it
// was decoded from.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Source    │────▶│   Lexer     │────▶│  Assemble   │
//	│  (string)   │     │  (tokens)   │     │  (lines)    │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │
//	                           ▼
//	                    ┌─────────────┐
//	                    │  LexError   │
//	                    │  Recovery   │
//	                    └─────────────┘
//
// Tokenize and Assemble are independent stages connected by a token slice;
// Parse runs both. Neither stage keeps state between calls.
//
// # Error Recovery
//
// The tokenizer never gives up on a buffer. An unterminated quote, a bare
// line break inside quotes or a dangling backslash is reported as a
// *LexError and scanning resumes right after the offending bytes. Assemble
// accepts any token sequence, so callers always get lines back.
//
// # Separators
//
// A command is split from its config at the first ':' and a flag name from
// its value at the first '='. Only a bare separator counts: a quoted or
// escaped ':' or '=' is part of the value and never splits the word. The
// separator is found by re-walking the source of the token with the lexer's
// decoding rules, so both halves keep spans that decode to their values.
package rcfile
