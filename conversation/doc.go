// Package conversation houses implementations of core.ConversationLog.
//
// The log is append-only: turns are stored as deep copies, never edited and
// never removed. Additional backends can live in sub-packages without
// changing calling code; only the wiring layer picks the implementation.
package conversation
