// Package speech sends speech recognition requests over a websocket.
//
// It builds the speech.config and speech.context payloads, encodes every
// request with the speech frame codec, and writes the frames to a single
// connection. Reading and interpreting service responses is left to the caller.
package speech
