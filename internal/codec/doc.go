// Package codec implements the per-chunk transforms of the gob64 format.
//
// A chunk is salted, optionally zlib-compressed, optionally wrapped in a hybrid
// RSA envelope, rendered as base64 and finally framed with an 8-digit decimal
// length prefix. Decoding undoes the stages in exact reverse order.
package codec
