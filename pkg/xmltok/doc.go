// Package xmltok provides a bounded-memory pull tokenizer for XML-like
// byte streams.
//
// A Tokenizer reads its source through a fixed-size window and returns one
// Event per Next call: start element, end element, trimmed text, or end of
// stream. Names and text that straddle window refills are accumulated
// before they are returned, so the observable event sequence does not
// depend on the window size. Event payloads are copies and stay valid
// after later calls.
//
// Attributes are skipped, not parsed. Comments, CDATA, DTDs, namespaces
// and entity references receive no special treatment.
package xmltok
